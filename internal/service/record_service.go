package service

import (
	"database/sql"
	"errors"
	"log"

	"vocabquest/internal/models"
)

// RecordStore is the persistence interface for best completion times.
// *repository.RecordRepository satisfies it.
type RecordStore interface {
	GetBestTime(difficulty models.Difficulty) (int64, error)
	UpsertBestTime(difficulty models.Difficulty, durationMs int64) error
}

// RecordService is the gateway to best-time records. Store failures degrade
// silently: reads yield absent and writes are dropped, since best-time
// tracking is an enhancement rather than core functionality.
type RecordService struct {
	store RecordStore
}

// NewRecordService creates a new record service
func NewRecordService(store RecordStore) *RecordService {
	return &RecordService{store: store}
}

// Best returns the stored best time for a tier, or absent when no record
// exists or the store is unavailable
func (s *RecordService) Best(difficulty models.Difficulty) (int64, bool) {
	ms, err := s.store.GetBestTime(difficulty)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("Best time read failed for %s: %v", difficulty, err)
		}
		return 0, false
	}
	return ms, true
}

// BestTimes returns the stored best time for every tier that has one
func (s *RecordService) BestTimes() map[models.Difficulty]int64 {
	best := make(map[models.Difficulty]int64)
	for _, d := range models.Difficulties {
		if ms, ok := s.Best(d); ok {
			best[d] = ms
		}
	}
	return best
}

// SubmitTime applies the record policy to a finished attempt: a new record
// is set if and only if the attempt scored 100% and beat (or had no) prior
// record. Returns whether a record was set and the resulting best time.
func (s *RecordService) SubmitTime(difficulty models.Difficulty, durationMs int64, percentage int) (isNewRecord bool, bestMs int64, hasBest bool) {
	bestMs, hasBest = s.Best(difficulty)

	if percentage != 100 {
		return false, bestMs, hasBest
	}
	if hasBest && durationMs >= bestMs {
		return false, bestMs, true
	}

	if err := s.store.UpsertBestTime(difficulty, durationMs); err != nil {
		log.Printf("Best time write failed for %s: %v", difficulty, err)
	}
	return true, durationMs, true
}
