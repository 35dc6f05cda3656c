package handlers

import (
	"net/http"
	"strconv"
	"time"

	"vocabquest/internal/models"
	"vocabquest/internal/service"
	"vocabquest/internal/utils"
)

const defaultHistoryLimit = 20

// ResultHistory reads back the finished-quiz history.
// *repository.ResultRepository satisfies it.
type ResultHistory interface {
	RecentResults(limit int) ([]models.QuizResult, error)
}

// RecordsHandler serves best times and quiz history
type RecordsHandler struct {
	records *service.RecordService
	history ResultHistory
}

// NewRecordsHandler creates a new records handler
func NewRecordsHandler(records *service.RecordService, history ResultHistory) *RecordsHandler {
	return &RecordsHandler{records: records, history: history}
}

// BestTimes returns the standing best time for each tier that has one
func (h *RecordsHandler) BestTimes(w http.ResponseWriter, r *http.Request) {
	best := h.records.BestTimes()

	tiers := make([]TierView, 0, len(models.Difficulties))
	for _, d := range models.Difficulties {
		tier := TierView{Difficulty: string(d), OptionCount: d.OptionCount()}
		if ms, ok := best[d]; ok {
			tier.BestMs = ms
			tier.BestDisplay = utils.FormatDuration(ms)
		}
		tiers = append(tiers, tier)
	}

	respondWithJSON(w, http.StatusOK, struct {
		Tiers []TierView `json:"tiers"`
	}{tiers})
}

// RecentResults returns the most recent finished quizzes, newest first
func (h *RecordsHandler) RecentResults(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit", "", err)
			return
		}
		limit = n
	}

	results, err := h.history.RecentResults(limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load quiz history", err)
		return
	}

	views := make([]ResultHistoryView, 0, len(results))
	for _, res := range results {
		views = append(views, ResultHistoryView{
			Difficulty:    string(res.Difficulty),
			Percentage:    res.Percentage,
			DurationMs:    res.DurationMs,
			FormattedTime: utils.FormatDuration(res.DurationMs),
			SpeedBonuses:  res.SpeedBonuses,
			CompletedAt:   res.CompletedAt.Format(time.RFC3339),
		})
	}

	respondWithJSON(w, http.StatusOK, struct {
		Results []ResultHistoryView `json:"results"`
	}{views})
}
