package handlers

import (
	"encoding/json"
	"net/http"
)

// PreferenceStore persists user preferences.
// *repository.SettingsRepository satisfies it.
type PreferenceStore interface {
	DarkMode() bool
	SetDarkMode(enabled bool) error
}

// SettingsHandler serves persisted user preferences
type SettingsHandler struct {
	store PreferenceStore
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(store PreferenceStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// GetDarkMode returns the stored dark-mode preference
func (h *SettingsHandler) GetDarkMode(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, struct {
		DarkMode bool `json:"dark_mode"`
	}{h.store.DarkMode()})
}

// SetDarkMode stores the dark-mode preference
func (h *SettingsHandler) SetDarkMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DarkMode bool `json:"dark_mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", err)
		return
	}

	if err := h.store.SetDarkMode(req.DarkMode); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to store preference", err)
		return
	}

	respondWithJSON(w, http.StatusOK, struct {
		DarkMode bool `json:"dark_mode"`
	}{req.DarkMode})
}
