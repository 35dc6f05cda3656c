package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"vocabquest/internal/models"
	"vocabquest/internal/service"
)

// QuizHandler handles quiz lifecycle and answer submissions
type QuizHandler struct {
	sessions *service.SessionService
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(sessions *service.SessionService) *QuizHandler {
	return &QuizHandler{sessions: sessions}
}

// Start begins a new quiz attempt at the requested difficulty
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Difficulty string `json:"difficulty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	difficulty, err := models.ParseDifficulty(req.Difficulty)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Unknown difficulty", "", err)
		return
	}

	snap, err := h.sessions.StartQuiz(SessionIDFromContext(r.Context()), difficulty)
	if err != nil {
		if errors.Is(err, service.ErrVocabNotReady) {
			respondWithError(w, http.StatusConflict, ErrVocabUnavailable, "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to start quiz", err)
		return
	}

	respondWithJSON(w, http.StatusOK, newStateView(snap))
}

// Answer submits a candidate answer for the current question
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	snap, fb := h.sessions.SubmitAnswer(SessionIDFromContext(r.Context()), req.Answer)
	respondWithJSON(w, http.StatusOK, struct {
		State    StateView     `json:"state"`
		Feedback *FeedbackView `json:"feedback,omitempty"`
	}{newStateView(snap), newFeedbackView(fb)})
}

// Hint reveals the first letter of the current word in free-text mode
func (h *QuizHandler) Hint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Current string `json:"current"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	hint, ok := h.sessions.Hint(SessionIDFromContext(r.Context()), req.Current)
	respondWithJSON(w, http.StatusOK, struct {
		Hint      string `json:"hint,omitempty"`
		Available bool   `json:"available"`
	}{hint, ok})
}

// GiveUp concedes the current free-text question
func (h *QuizHandler) GiveUp(w http.ResponseWriter, r *http.Request) {
	snap, fb := h.sessions.GiveUp(SessionIDFromContext(r.Context()))
	respondWithJSON(w, http.StatusOK, struct {
		State    StateView     `json:"state"`
		Feedback *FeedbackView `json:"feedback,omitempty"`
	}{newStateView(snap), newFeedbackView(fb)})
}
