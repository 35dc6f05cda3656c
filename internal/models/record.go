package models

import "time"

// BestTime is the fastest 100%-correct completion for a difficulty tier
type BestTime struct {
	Difficulty Difficulty
	DurationMs int64
	AchievedAt time.Time
}

// QuizResult is one finished quiz attempt
type QuizResult struct {
	ID             int64
	Difficulty     Difficulty
	TotalQuestions int
	CorrectCount   int
	SpeedBonuses   int
	Percentage     int
	DurationMs     int64
	CompletedAt    time.Time
}

// QuizSummary is the finalized outcome presented on the results screen
type QuizSummary struct {
	Percentage    int
	DurationMs    int64
	FormattedTime string
	SpeedBonuses  int
	IsNewRecord   bool
	BestMs        int64
	HasBest       bool
	Title         string
	Message       string
	Celebrate     bool
}
