package handlers

import (
	"encoding/json"
	"net/http"

	"vocabquest/internal/models"
	"vocabquest/internal/service"
)

// SessionHandler handles widget state, tab, and study-navigation requests
type SessionHandler struct {
	sessions *service.SessionService
	vocab    *service.VocabService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService, vocab *service.VocabService) *SessionHandler {
	return &SessionHandler{sessions: sessions, vocab: vocab}
}

// State returns the full widget state for the caller's session
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	snap := h.sessions.State(SessionIDFromContext(r.Context()))
	respondWithJSON(w, http.StatusOK, newStateView(snap))
}

// SwitchTab changes the active tab
func (h *SessionHandler) SwitchTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tab string `json:"tab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	tab, err := models.ParseTab(req.Tab)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Unknown tab", "", err)
		return
	}

	snap := h.sessions.SwitchTab(SessionIDFromContext(r.Context()), tab)
	respondWithJSON(w, http.StatusOK, newStateView(snap))
}

// StudyNext advances to the next flash card
func (h *SessionHandler) StudyNext(w http.ResponseWriter, r *http.Request) {
	snap := h.sessions.AdvanceStudy(SessionIDFromContext(r.Context()))
	respondWithJSON(w, http.StatusOK, newStateView(snap))
}

// StudyPrev returns to the previous flash card
func (h *SessionHandler) StudyPrev(w http.ResponseWriter, r *http.Request) {
	snap := h.sessions.RetreatStudy(SessionIDFromContext(r.Context()))
	respondWithJSON(w, http.StatusOK, newStateView(snap))
}

// Restart discards all progress for the caller's session
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	snap := h.sessions.Restart(SessionIDFromContext(r.Context()))
	respondWithJSON(w, http.StatusOK, newStateView(snap))
}

// Reload re-fetches the vocabulary from its source. Every active session
// resets against the new list, even when the reload fails.
func (h *SessionHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.vocab.Reload(); err != nil {
		respondWithError(w, http.StatusBadGateway, ErrVocabUnavailable, "Vocabulary reload failed", err)
		return
	}

	snap := h.sessions.State(SessionIDFromContext(r.Context()))
	respondWithJSON(w, http.StatusOK, newStateView(snap))
}
