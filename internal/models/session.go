package models

import "fmt"

// Mode is the widget's current screen
type Mode string

const (
	ModeStudy            Mode = "study"
	ModeDifficultySelect Mode = "difficulty_select"
	ModeQuiz             Mode = "quiz"
	ModeResults          Mode = "results"
)

// Tab is the user-selected top-level tab
type Tab string

const (
	TabStudy Tab = "study"
	TabQuiz  Tab = "quiz"
)

// ParseTab validates a tab name from a request
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case TabStudy, TabQuiz:
		return Tab(s), nil
	}
	return "", fmt.Errorf("unknown tab: %q", s)
}

// Difficulty is one of the three quiz tiers
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the tiers in display order
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty validates a difficulty name from a request
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("unknown difficulty: %q", s)
}

// OptionCount returns the multiple-choice option count for a tier.
// Hard is free-text recall and has no options.
func (d Difficulty) OptionCount() int {
	switch d {
	case DifficultyEasy:
		return 4
	case DifficultyMedium:
		return 10
	}
	return 0
}

// IsMultipleChoice reports whether the tier presents answer options
func (d Difficulty) IsMultipleChoice() bool {
	return d == DifficultyEasy || d == DifficultyMedium
}
