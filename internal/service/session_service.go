package service

import (
	"errors"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"vocabquest/internal/models"
	"vocabquest/internal/utils"
)

const (
	// Feedback-display windows between an answer and the next question
	correctAdvanceDelay = 1000 * time.Millisecond
	wrongAdvanceDelay   = 1500 * time.Millisecond
)

// ErrVocabNotReady is returned when a quiz is started while the vocabulary
// is missing, empty, or failed to load
var ErrVocabNotReady = errors.New("vocabulary is not ready")

// ResultStore persists finished quiz attempts.
// *repository.ResultRepository satisfies it.
type ResultStore interface {
	SaveResult(result *models.QuizResult) error
}

// session is the per-browser widget state. All access goes through the
// service mutex.
type session struct {
	id           string
	lastActive   time.Time
	vocabVersion uint64

	tab        models.Tab
	mode       models.Mode
	working    []models.VocabEntry
	studyIndex int

	difficulty        models.Difficulty
	quizIndex         int
	tracker           ScoreTracker
	questionStartedAt time.Time
	awaitingAdvance   bool
	options           []string
	summary           *models.QuizSummary

	// attempt is bumped whenever pending timers are invalidated, so a
	// stale advance callback can never touch a newer attempt
	attempt      uint64
	advanceTimer *time.Timer
}

// Snapshot is a consistent view of one widget session, shaped for rendering
type Snapshot struct {
	SessionID    string
	Mode         models.Mode
	Tab          models.Tab
	Title        string
	VocabStatus  models.VocabStatus
	VocabError   string
	TotalEntries int

	// Study mode
	StudyIndex int
	StudyEntry *models.VocabEntry

	// Difficulty select
	BestTimes map[models.Difficulty]int64

	// Quiz mode
	Difficulty      models.Difficulty
	QuestionIndex   int
	QuestionTotal   int
	Definition      string
	Options         []string
	Streak          int
	AwaitingAdvance bool
	ElapsedMs       int64

	// Results
	Summary *models.QuizSummary
}

// LetterDiff is per-position feedback for a wrong free-text answer
type LetterDiff struct {
	Expected string
	Match    bool
}

// AnswerFeedback describes the outcome of a single submission
type AnswerFeedback struct {
	Correct     bool
	CorrectWord string
	SpeedBonus  bool
	GaveUp      bool
	Letters     []LetterDiff
}

// SessionService is the session controller: it owns every widget session,
// drives the study/quiz state machine, and schedules question advances.
type SessionService struct {
	vocab   *VocabService
	records *RecordService
	results ResultStore

	rng *rand.Rand
	now func() time.Time

	correctDelay time.Duration
	wrongDelay   time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionService creates a session service. A nil rng falls back to a
// time-seeded source; tests inject a fixed seed for deterministic shuffles.
func NewSessionService(vocabSvc *VocabService, records *RecordService, results ResultStore, rng *rand.Rand) *SessionService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SessionService{
		vocab:        vocabSvc,
		records:      records,
		results:      results,
		rng:          rng,
		now:          time.Now,
		correctDelay: correctAdvanceDelay,
		wrongDelay:   wrongAdvanceDelay,
		sessions:     make(map[string]*session),
	}
}

// State returns the current snapshot for a session, creating it on first use
func (svc *SessionService) State(id string) Snapshot {
	svc.mu.Lock()
	v := svc.vocab.Snapshot()
	s := svc.get(id, v)
	snap := svc.snapshot(s, v)
	svc.mu.Unlock()

	return svc.finishSnapshot(snap)
}

// SwitchTab moves between the study and quiz tabs. Entering the quiz tab
// clears any chosen difficulty; the study cursor is always preserved.
func (svc *SessionService) SwitchTab(id string, tab models.Tab) Snapshot {
	svc.mu.Lock()
	v := svc.vocab.Snapshot()
	s := svc.get(id, v)
	svc.switchTab(s, tab)
	snap := svc.snapshot(s, v)
	svc.mu.Unlock()

	return svc.finishSnapshot(snap)
}

// AdvanceStudy moves to the next study card; past the last card the session
// transitions to difficulty select
func (svc *SessionService) AdvanceStudy(id string) Snapshot {
	svc.mu.Lock()
	v := svc.vocab.Snapshot()
	s := svc.get(id, v)
	if s.mode == models.ModeStudy && v.Status == models.VocabStatusLoaded {
		if s.studyIndex < len(s.working)-1 {
			s.studyIndex++
		} else {
			svc.switchTab(s, models.TabQuiz)
		}
	}
	snap := svc.snapshot(s, v)
	svc.mu.Unlock()

	return svc.finishSnapshot(snap)
}

// RetreatStudy moves to the previous study card; retreating below the first
// card is a no-op
func (svc *SessionService) RetreatStudy(id string) Snapshot {
	svc.mu.Lock()
	v := svc.vocab.Snapshot()
	s := svc.get(id, v)
	if s.mode == models.ModeStudy && s.studyIndex > 0 {
		s.studyIndex--
	}
	snap := svc.snapshot(s, v)
	svc.mu.Unlock()

	return svc.finishSnapshot(snap)
}

// StartQuiz begins a new quiz attempt: fresh shuffle, counters reset, timer
// started. Any pending timers from a prior attempt are invalidated first.
func (svc *SessionService) StartQuiz(id string, difficulty models.Difficulty) (Snapshot, error) {
	svc.mu.Lock()
	v := svc.vocab.Snapshot()
	s := svc.get(id, v)
	if v.Status != models.VocabStatusLoaded {
		snap := svc.snapshot(s, v)
		svc.mu.Unlock()
		return svc.finishSnapshot(snap), ErrVocabNotReady
	}

	svc.invalidateTimers(s)
	now := svc.now()

	s.tab = models.TabQuiz
	s.difficulty = difficulty
	s.working = svc.shuffled(v.Entries)
	s.quizIndex = 0
	s.tracker.Reset(now)
	s.questionStartedAt = now
	s.summary = nil
	s.mode = models.ModeQuiz
	svc.prepareQuestion(s, v)

	snap := svc.snapshot(s, v)
	svc.mu.Unlock()

	return svc.finishSnapshot(snap), nil
}

// SubmitAnswer evaluates a candidate answer for the current question.
// Submissions during the feedback window are ignored. Multiple choice
// matches exactly; free text is trimmed and case-insensitive.
func (svc *SessionService) SubmitAnswer(id string, answer string) (Snapshot, *AnswerFeedback) {
	svc.mu.Lock()
	v := svc.vocab.Snapshot()
	s := svc.get(id, v)
	if s.mode != models.ModeQuiz || s.awaitingAdvance || s.quizIndex >= len(s.working) {
		snap := svc.snapshot(s, v)
		svc.mu.Unlock()
		return svc.finishSnapshot(snap), nil
	}

	word := s.working[s.quizIndex].Word
	var correct bool
	if s.difficulty == models.DifficultyHard {
		correct = strings.EqualFold(strings.TrimSpace(answer), word)
	} else {
		correct = answer == word
	}

	fb := svc.resolveAnswer(s, correct, word, false)
	if !correct && s.difficulty == models.DifficultyHard {
		fb.Letters = letterDiff(strings.TrimSpace(answer), word)
	}
	snap := svc.snapshot(s, v)
	svc.mu.Unlock()

	return svc.finishSnapshot(snap), fb
}

// Hint reveals the first letter of the current word, only in free-text mode
// and only when the input so far is empty
func (svc *SessionService) Hint(id string, current string) (string, bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	v := svc.vocab.Snapshot()
	s := svc.get(id, v)
	if s.mode != models.ModeQuiz || s.difficulty != models.DifficultyHard || s.awaitingAdvance {
		return "", false
	}
	if current != "" || s.quizIndex >= len(s.working) {
		return "", false
	}

	word := []rune(s.working[s.quizIndex].Word)
	if len(word) == 0 {
		return "", false
	}
	return string(word[0]), true
}

// GiveUp concedes the current free-text question: it counts as incorrect
// and the feedback reveals the full word
func (svc *SessionService) GiveUp(id string) (Snapshot, *AnswerFeedback) {
	svc.mu.Lock()
	v := svc.vocab.Snapshot()
	s := svc.get(id, v)
	if s.mode != models.ModeQuiz || s.difficulty != models.DifficultyHard ||
		s.awaitingAdvance || s.quizIndex >= len(s.working) {
		snap := svc.snapshot(s, v)
		svc.mu.Unlock()
		return svc.finishSnapshot(snap), nil
	}

	fb := svc.resolveAnswer(s, false, s.working[s.quizIndex].Word, true)
	snap := svc.snapshot(s, v)
	svc.mu.Unlock()

	return svc.finishSnapshot(snap), fb
}

// Restart discards all progress, re-shuffles, and returns to the study
// screen or difficulty select depending on the active tab
func (svc *SessionService) Restart(id string) Snapshot {
	svc.mu.Lock()
	v := svc.vocab.Snapshot()
	s := svc.get(id, v)
	svc.reset(s, v)
	snap := svc.snapshot(s, v)
	svc.mu.Unlock()

	return svc.finishSnapshot(snap)
}

// CleanupIdle evicts sessions with no activity within maxIdle and returns
// how many were removed
func (svc *SessionService) CleanupIdle(maxIdle time.Duration) int {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	now := svc.now()
	removed := 0
	for id, s := range svc.sessions {
		if now.Sub(s.lastActive) > maxIdle {
			svc.invalidateTimers(s)
			delete(svc.sessions, id)
			removed++
		}
	}
	return removed
}

// get fetches or creates a session and reconciles it with the current
// vocabulary version. Callers must hold the service mutex.
func (svc *SessionService) get(id string, v VocabSnapshot) *session {
	s, ok := svc.sessions[id]
	if !ok {
		s = &session{id: id, tab: models.TabStudy}
		svc.sessions[id] = s
		s.vocabVersion = v.Version
		svc.reset(s, v)
	}
	s.lastActive = svc.now()

	if s.vocabVersion != v.Version {
		s.vocabVersion = v.Version
		svc.reset(s, v)
	}
	return s
}

// reset rebuilds the session against the given vocabulary state: fresh
// shuffle, cursor and counters zeroed, pending timers invalidated. The
// active tab decides the landing screen.
func (svc *SessionService) reset(s *session, v VocabSnapshot) {
	svc.invalidateTimers(s)

	s.working = svc.shuffled(v.Entries)
	s.studyIndex = 0
	s.quizIndex = 0
	s.tracker = ScoreTracker{}
	s.difficulty = ""
	s.options = nil
	s.summary = nil

	if s.tab == models.TabQuiz {
		s.mode = models.ModeDifficultySelect
	} else {
		s.mode = models.ModeStudy
	}
}

// switchTab applies the tab-change rules: entering the quiz tab clears the
// chosen difficulty and lands on difficulty select; the study cursor is
// never reset by a tab switch. Either direction invalidates pending timers.
func (svc *SessionService) switchTab(s *session, tab models.Tab) {
	svc.invalidateTimers(s)
	s.tab = tab
	if tab == models.TabQuiz {
		s.difficulty = ""
		s.summary = nil
		s.mode = models.ModeDifficultySelect
	} else {
		s.mode = models.ModeStudy
	}
}

// invalidateTimers cancels any pending advance and bumps the attempt
// generation. Must be called before starting a new attempt or leaving quiz
// mode; a stale callback that already fired checks the generation and
// becomes a no-op.
func (svc *SessionService) invalidateTimers(s *session) {
	if s.advanceTimer != nil {
		s.advanceTimer.Stop()
		s.advanceTimer = nil
	}
	s.attempt++
	s.awaitingAdvance = false
}

// resolveAnswer records the outcome and schedules the advance to the next
// question after the feedback window
func (svc *SessionService) resolveAnswer(s *session, correct bool, word string, gaveUp bool) *AnswerFeedback {
	elapsed := svc.now().Sub(s.questionStartedAt)
	speedBonus := s.tracker.RecordAnswer(correct, elapsed)

	s.awaitingAdvance = true
	delay := svc.wrongDelay
	if correct {
		delay = svc.correctDelay
	}

	gen := s.attempt
	s.advanceTimer = time.AfterFunc(delay, func() {
		svc.advanceQuiz(s, gen)
	})

	return &AnswerFeedback{
		Correct:     correct,
		CorrectWord: word,
		SpeedBonus:  speedBonus,
		GaveUp:      gaveUp,
	}
}

// advanceQuiz moves to the next question, or finalizes the attempt when the
// working list is exhausted. Runs from the advance timer.
func (svc *SessionService) advanceQuiz(s *session, gen uint64) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if gen != s.attempt || s.mode != models.ModeQuiz || !s.awaitingAdvance {
		return
	}
	s.advanceTimer = nil
	s.awaitingAdvance = false

	v := svc.vocab.Snapshot()
	if s.vocabVersion != v.Version {
		s.vocabVersion = v.Version
		svc.reset(s, v)
		return
	}

	s.quizIndex++
	if s.quizIndex >= len(s.working) {
		svc.finishQuiz(s)
		return
	}

	s.questionStartedAt = svc.now()
	svc.prepareQuestion(s, v)
}

// finishQuiz finalizes scoring, applies the record policy, and persists the
// attempt to the quiz history
func (svc *SessionService) finishQuiz(s *session) {
	now := svc.now()
	total := len(s.working)
	percentage := s.tracker.Percentage(total)
	durationMs := s.tracker.Duration(now)

	isNewRecord, bestMs, hasBest := svc.records.SubmitTime(s.difficulty, durationMs, percentage)
	title, message, celebrate := resultMessage(percentage)

	s.summary = &models.QuizSummary{
		Percentage:    percentage,
		DurationMs:    durationMs,
		FormattedTime: utils.FormatDuration(durationMs),
		SpeedBonuses:  s.tracker.SpeedBonusCount,
		IsNewRecord:   isNewRecord,
		BestMs:        bestMs,
		HasBest:       hasBest,
		Title:         title,
		Message:       message,
		Celebrate:     celebrate,
	}
	s.mode = models.ModeResults

	if svc.results != nil {
		result := &models.QuizResult{
			Difficulty:     s.difficulty,
			TotalQuestions: total,
			CorrectCount:   s.tracker.CorrectCount,
			SpeedBonuses:   s.tracker.SpeedBonusCount,
			Percentage:     percentage,
			DurationMs:     durationMs,
			CompletedAt:    now,
		}
		if err := svc.results.SaveResult(result); err != nil {
			log.Printf("Failed to save quiz result: %v", err)
		}
	}
}

// prepareQuestion builds the option set for the current question in
// multiple-choice tiers
func (svc *SessionService) prepareQuestion(s *session, v VocabSnapshot) {
	if !s.difficulty.IsMultipleChoice() || s.quizIndex >= len(s.working) {
		s.options = nil
		return
	}
	s.options = svc.buildOptions(v.Entries, s.working[s.quizIndex].Word, s.difficulty.OptionCount())
}

// buildOptions assembles the answer set: the correct word plus distractors
// drawn uniformly without replacement from the rest of the vocabulary, then
// shuffled. With fewer than count unique words the set is simply smaller.
func (svc *SessionService) buildOptions(entries []models.VocabEntry, correct string, count int) []string {
	options := []string{correct}

	pool := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Word != correct {
			pool = append(pool, e.Word)
		}
	}

	for len(options) < count && len(pool) > 0 {
		i := svc.rng.Intn(len(pool))
		options = append(options, pool[i])
		pool = append(pool[:i], pool[i+1:]...)
	}

	svc.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// shuffled returns a freshly permuted copy of the entries
func (svc *SessionService) shuffled(entries []models.VocabEntry) []models.VocabEntry {
	working := make([]models.VocabEntry, len(entries))
	copy(working, entries)
	svc.rng.Shuffle(len(working), func(i, j int) {
		working[i], working[j] = working[j], working[i]
	})
	return working
}

// snapshot builds the renderable view of a session. Callers must hold the
// service mutex.
func (svc *SessionService) snapshot(s *session, v VocabSnapshot) Snapshot {
	snap := Snapshot{
		SessionID:    s.id,
		Mode:         s.mode,
		Tab:          s.tab,
		Title:        v.Title,
		VocabStatus:  v.Status,
		VocabError:   v.LoadError,
		TotalEntries: len(v.Entries),
	}

	switch s.mode {
	case models.ModeStudy:
		snap.StudyIndex = s.studyIndex
		if v.Status == models.VocabStatusLoaded && s.studyIndex < len(s.working) {
			entry := s.working[s.studyIndex]
			snap.StudyEntry = &entry
		}

	case models.ModeQuiz:
		if s.quizIndex < len(s.working) {
			snap.Difficulty = s.difficulty
			snap.QuestionIndex = s.quizIndex
			snap.QuestionTotal = len(s.working)
			snap.Definition = s.working[s.quizIndex].Definition
			snap.Options = append([]string(nil), s.options...)
			snap.Streak = s.tracker.Streak
			snap.AwaitingAdvance = s.awaitingAdvance
			snap.ElapsedMs = s.tracker.Duration(svc.now())
		}

	case models.ModeResults:
		snap.Difficulty = s.difficulty
		snap.Summary = s.summary
	}

	return snap
}

// finishSnapshot fills the store-backed fields of a snapshot. Runs after the
// session lock is released, so a slow record store never stalls other
// sessions.
func (svc *SessionService) finishSnapshot(snap Snapshot) Snapshot {
	if snap.Mode == models.ModeDifficultySelect {
		snap.BestTimes = svc.records.BestTimes()
	}
	return snap
}

// letterDiff compares a wrong free-text attempt to the correct word
// position by position, case-insensitively
func letterDiff(attempt, correct string) []LetterDiff {
	attemptRunes := []rune(attempt)
	correctRunes := []rune(correct)

	n := len(attemptRunes)
	if len(correctRunes) > n {
		n = len(correctRunes)
	}

	diff := make([]LetterDiff, 0, n)
	for i := 0; i < n; i++ {
		var a, c string
		if i < len(attemptRunes) {
			a = string(attemptRunes[i])
		}
		if i < len(correctRunes) {
			c = string(correctRunes[i])
		}

		expected := c
		if expected == "" {
			expected = "?"
		}
		diff = append(diff, LetterDiff{
			Expected: expected,
			Match:    c != "" && strings.EqualFold(a, c),
		})
	}
	return diff
}

// resultMessage maps a final percentage to the results-screen copy
func resultMessage(percentage int) (title, message string, celebrate bool) {
	switch {
	case percentage == 100:
		return "Finished!", "Perfect score!", true
	case percentage >= 80:
		return "Finished!", "Awesome work!", true
	case percentage >= 60:
		return "Finished!", "Not bad!", true
	default:
		return "Keep Practicing", "Time to study more.", false
	}
}
