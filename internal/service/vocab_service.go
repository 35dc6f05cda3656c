package service

import (
	"sync"

	"vocabquest/internal/models"
	"vocabquest/internal/vocab"
)

// VocabService owns the canonical vocabulary list. It distinguishes three
// outcomes of the most recent load: loaded, loaded-but-empty, and failed.
type VocabService struct {
	source vocab.Source

	mu      sync.RWMutex
	list    *models.VocabList
	status  models.VocabStatus
	loadErr string
	version uint64
}

// VocabSnapshot is a consistent read of the current vocabulary state
type VocabSnapshot struct {
	Title     string
	Entries   []models.VocabEntry
	Status    models.VocabStatus
	LoadError string
	Version   uint64
}

// NewVocabService creates a vocab service; call Reload to perform the
// initial load
func NewVocabService(source vocab.Source) *VocabService {
	return &VocabService{
		source:  source,
		status:  models.VocabStatusError,
		loadErr: "vocabulary not loaded yet",
	}
}

// Reload re-fetches the vocabulary from the source. Every call, successful
// or not, bumps the version so active widget sessions start fresh against
// the new state.
func (s *VocabService) Reload() error {
	list, err := s.source.Load()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++

	if err != nil {
		s.list = nil
		s.status = models.VocabStatusError
		s.loadErr = err.Error()
		return err
	}

	s.list = list
	s.loadErr = ""
	if len(list.Entries) == 0 {
		s.status = models.VocabStatusEmpty
	} else {
		s.status = models.VocabStatusLoaded
	}
	return nil
}

// Snapshot returns the current vocabulary state. The entries slice is
// shared; callers must copy before mutating.
func (s *VocabService) Snapshot() VocabSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := VocabSnapshot{
		Status:    s.status,
		LoadError: s.loadErr,
		Version:   s.version,
	}
	if s.list != nil {
		snap.Title = s.list.Title
		snap.Entries = s.list.Entries
	}
	return snap
}
