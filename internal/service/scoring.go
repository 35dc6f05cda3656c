package service

import (
	"math"
	"time"
)

// speedBonusWindow is the answer time under which a correct answer earns a
// speed bonus
const speedBonusWindow = 5 * time.Second

// ScoreTracker accumulates streak, correct-answer, and speed-bonus counts
// for one quiz attempt
type ScoreTracker struct {
	Streak          int
	CorrectCount    int
	SpeedBonusCount int
	StartedAt       time.Time
}

// Reset clears all counters and marks the start of a new attempt
func (t *ScoreTracker) Reset(now time.Time) {
	*t = ScoreTracker{StartedAt: now}
}

// RecordAnswer updates the counters for one answered question and reports
// whether the answer earned a speed bonus. An incorrect answer resets the
// streak to zero.
func (t *ScoreTracker) RecordAnswer(correct bool, elapsed time.Duration) bool {
	if !correct {
		t.Streak = 0
		return false
	}

	t.Streak++
	t.CorrectCount++
	if elapsed < speedBonusWindow {
		t.SpeedBonusCount++
		return true
	}
	return false
}

// Percentage computes the rounded score for a finished attempt
func (t *ScoreTracker) Percentage(totalQuestions int) int {
	if totalQuestions == 0 {
		return 0
	}
	return int(math.Round(float64(t.CorrectCount) / float64(totalQuestions) * 100))
}

// Duration returns the wall-clock attempt duration in milliseconds
func (t *ScoreTracker) Duration(now time.Time) int64 {
	return now.Sub(t.StartedAt).Milliseconds()
}
