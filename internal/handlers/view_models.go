package handlers

import (
	"vocabquest/internal/models"
	"vocabquest/internal/service"
	"vocabquest/internal/utils"
)

// StateView is the full widget state returned by every state-changing endpoint
type StateView struct {
	Mode         string `json:"mode"`
	Tab          string `json:"tab"`
	Title        string `json:"title"`
	VocabStatus  string `json:"vocab_status"`
	VocabError   string `json:"vocab_error,omitempty"`
	TotalEntries int    `json:"total_entries"`

	Study      *StudyView      `json:"study,omitempty"`
	Difficulty *DifficultyView `json:"difficulty_select,omitempty"`
	Quiz       *QuizView       `json:"quiz,omitempty"`
	Results    *ResultsView    `json:"results,omitempty"`
}

// StudyView is the current flash card and position
type StudyView struct {
	Index      int    `json:"index"`
	Total      int    `json:"total"`
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Sentence   string `json:"sentence"`
	HasPrev    bool   `json:"has_prev"`
}

// DifficultyView lists the tiers with any standing best times
type DifficultyView struct {
	Tiers []TierView `json:"tiers"`
}

// TierView is one selectable difficulty tier
type TierView struct {
	Difficulty  string `json:"difficulty"`
	OptionCount int    `json:"option_count"`
	BestMs      int64  `json:"best_ms,omitempty"`
	BestDisplay string `json:"best_display,omitempty"`
}

// QuizView is the in-progress question state
type QuizView struct {
	Difficulty      string   `json:"difficulty"`
	QuestionIndex   int      `json:"question_index"`
	QuestionTotal   int      `json:"question_total"`
	Definition      string   `json:"definition"`
	Options         []string `json:"options,omitempty"`
	FreeText        bool     `json:"free_text"`
	Streak          int      `json:"streak"`
	AwaitingAdvance bool     `json:"awaiting_advance"`
	ElapsedMs       int64    `json:"elapsed_ms"`
}

// ResultsView is the finished-quiz summary
type ResultsView struct {
	Difficulty    string `json:"difficulty"`
	Percentage    int    `json:"percentage"`
	DurationMs    int64  `json:"duration_ms"`
	FormattedTime string `json:"formatted_time"`
	SpeedBonuses  int    `json:"speed_bonuses"`
	IsNewRecord   bool   `json:"is_new_record"`
	BestMs        int64  `json:"best_ms,omitempty"`
	BestDisplay   string `json:"best_display,omitempty"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	Celebrate     bool   `json:"celebrate"`
}

// FeedbackView is the immediate outcome of one answer submission
type FeedbackView struct {
	Correct     bool             `json:"correct"`
	CorrectWord string           `json:"correct_word"`
	SpeedBonus  bool             `json:"speed_bonus"`
	GaveUp      bool             `json:"gave_up"`
	Letters     []LetterDiffView `json:"letters,omitempty"`
}

// LetterDiffView is per-position feedback for a wrong free-text answer
type LetterDiffView struct {
	Expected string `json:"expected"`
	Match    bool   `json:"match"`
}

// ResultHistoryView is one entry of the finished-quiz history
type ResultHistoryView struct {
	Difficulty    string `json:"difficulty"`
	Percentage    int    `json:"percentage"`
	DurationMs    int64  `json:"duration_ms"`
	FormattedTime string `json:"formatted_time"`
	SpeedBonuses  int    `json:"speed_bonuses"`
	CompletedAt   string `json:"completed_at"`
}

func newStateView(snap service.Snapshot) StateView {
	view := StateView{
		Mode:         string(snap.Mode),
		Tab:          string(snap.Tab),
		Title:        snap.Title,
		VocabStatus:  string(snap.VocabStatus),
		VocabError:   snap.VocabError,
		TotalEntries: snap.TotalEntries,
	}

	switch snap.Mode {
	case models.ModeStudy:
		study := &StudyView{
			Index:   snap.StudyIndex,
			Total:   snap.TotalEntries,
			HasPrev: snap.StudyIndex > 0,
		}
		if snap.StudyEntry != nil {
			study.Word = snap.StudyEntry.Word
			study.Definition = snap.StudyEntry.Definition
			study.Sentence = snap.StudyEntry.Sentence
		}
		view.Study = study

	case models.ModeDifficultySelect:
		tiers := make([]TierView, 0, len(models.Difficulties))
		for _, d := range models.Difficulties {
			tier := TierView{
				Difficulty:  string(d),
				OptionCount: d.OptionCount(),
			}
			if ms, ok := snap.BestTimes[d]; ok {
				tier.BestMs = ms
				tier.BestDisplay = utils.FormatDuration(ms)
			}
			tiers = append(tiers, tier)
		}
		view.Difficulty = &DifficultyView{Tiers: tiers}

	case models.ModeQuiz:
		view.Quiz = &QuizView{
			Difficulty:      string(snap.Difficulty),
			QuestionIndex:   snap.QuestionIndex,
			QuestionTotal:   snap.QuestionTotal,
			Definition:      snap.Definition,
			Options:         snap.Options,
			FreeText:        !snap.Difficulty.IsMultipleChoice(),
			Streak:          snap.Streak,
			AwaitingAdvance: snap.AwaitingAdvance,
			ElapsedMs:       snap.ElapsedMs,
		}

	case models.ModeResults:
		if snap.Summary != nil {
			results := &ResultsView{
				Difficulty:    string(snap.Difficulty),
				Percentage:    snap.Summary.Percentage,
				DurationMs:    snap.Summary.DurationMs,
				FormattedTime: snap.Summary.FormattedTime,
				SpeedBonuses:  snap.Summary.SpeedBonuses,
				IsNewRecord:   snap.Summary.IsNewRecord,
				Title:         snap.Summary.Title,
				Message:       snap.Summary.Message,
				Celebrate:     snap.Summary.Celebrate,
			}
			if snap.Summary.HasBest {
				results.BestMs = snap.Summary.BestMs
				results.BestDisplay = utils.FormatDuration(snap.Summary.BestMs)
			}
			view.Results = results
		}
	}

	return view
}

func newFeedbackView(fb *service.AnswerFeedback) *FeedbackView {
	if fb == nil {
		return nil
	}

	view := &FeedbackView{
		Correct:     fb.Correct,
		CorrectWord: fb.CorrectWord,
		SpeedBonus:  fb.SpeedBonus,
		GaveUp:      fb.GaveUp,
	}
	for _, l := range fb.Letters {
		view.Letters = append(view.Letters, LetterDiffView{Expected: l.Expected, Match: l.Match})
	}
	return view
}
