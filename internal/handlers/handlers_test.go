package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vocabquest/internal/models"
	"vocabquest/internal/security"
	"vocabquest/internal/service"
)

type stubSource struct {
	list *models.VocabList
}

func (s *stubSource) Load() (*models.VocabList, error) {
	return s.list, nil
}

type stubRecordStore struct {
	times map[models.Difficulty]int64
}

func (s *stubRecordStore) GetBestTime(d models.Difficulty) (int64, error) {
	ms, ok := s.times[d]
	if !ok {
		return 0, sql.ErrNoRows
	}
	return ms, nil
}

func (s *stubRecordStore) UpsertBestTime(d models.Difficulty, durationMs int64) error {
	s.times[d] = durationMs
	return nil
}

type stubResultStore struct {
	results []models.QuizResult
}

func (s *stubResultStore) SaveResult(r *models.QuizResult) error {
	r.ID = int64(len(s.results) + 1)
	s.results = append(s.results, *r)
	return nil
}

func (s *stubResultStore) RecentResults(limit int) ([]models.QuizResult, error) {
	if limit > len(s.results) {
		limit = len(s.results)
	}
	out := make([]models.QuizResult, 0, limit)
	for i := len(s.results) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.results[i])
	}
	return out, nil
}

type stubPreferences struct {
	darkMode bool
}

func (s *stubPreferences) DarkMode() bool {
	return s.darkMode
}

func (s *stubPreferences) SetDarkMode(enabled bool) error {
	s.darkMode = enabled
	return nil
}

// newTestServer wires the full route table the way cmd/server does
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	vocabService := service.NewVocabService(&stubSource{list: &models.VocabList{
		Title: "Week 5",
		Entries: []models.VocabEntry{
			{Word: "ember", Definition: "a glowing coal", Sentence: "An ember drifted up."},
			{Word: "fathom", Definition: "to understand deeply", Sentence: "I cannot fathom it."},
			{Word: "gossamer", Definition: "something delicate", Sentence: "Gossamer threads hung in the air."},
			{Word: "harbinger", Definition: "a sign of things to come", Sentence: "A harbinger of spring."},
			{Word: "inkling", Definition: "a slight idea", Sentence: "She had an inkling."},
		},
	}})
	if err := vocabService.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	recordService := service.NewRecordService(&stubRecordStore{times: map[models.Difficulty]int64{}})
	results := &stubResultStore{}
	sessionService := service.NewSessionService(vocabService, recordService, results, rand.New(rand.NewSource(3)))

	tokens := security.NewTokenManager("test-secret", time.Hour)

	middleware := NewMiddleware(tokens, time.Hour)
	sessionHandler := NewSessionHandler(sessionService, vocabService)
	quizHandler := NewQuizHandler(sessionService)
	recordsHandler := NewRecordsHandler(recordService, results)
	settingsHandler := NewSettingsHandler(&stubPreferences{})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/state", middleware.WithSession(sessionHandler.State))
	mux.HandleFunc("POST /api/tab", middleware.WithSession(sessionHandler.SwitchTab))
	mux.HandleFunc("POST /api/study/next", middleware.WithSession(sessionHandler.StudyNext))
	mux.HandleFunc("POST /api/study/prev", middleware.WithSession(sessionHandler.StudyPrev))
	mux.HandleFunc("POST /api/restart", middleware.WithSession(sessionHandler.Restart))
	mux.HandleFunc("POST /api/quiz/start", middleware.WithSession(quizHandler.Start))
	mux.HandleFunc("POST /api/quiz/answer", middleware.WithSession(quizHandler.Answer))
	mux.HandleFunc("POST /api/quiz/hint", middleware.WithSession(quizHandler.Hint))
	mux.HandleFunc("POST /api/quiz/giveup", middleware.WithSession(quizHandler.GiveUp))
	mux.HandleFunc("GET /api/records", recordsHandler.BestTimes)
	mux.HandleFunc("GET /api/results/recent", recordsHandler.RecentResults)
	mux.HandleFunc("GET /api/preferences/dark-mode", settingsHandler.GetDarkMode)
	mux.HandleFunc("PUT /api/preferences/dark-mode", settingsHandler.SetDarkMode)

	server := httptest.NewServer(Logging(mux))
	t.Cleanup(server.Close)
	return server
}

// client carries the session cookie across requests like a browser would
type client struct {
	t       *testing.T
	base    string
	cookies []*http.Cookie
}

func (c *client) do(method, path string, body interface{}) *http.Response {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		c.t.Fatalf("failed to build request: %v", err)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	if cookies := resp.Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}
	return resp
}

func (c *client) doJSON(method, path string, body, out interface{}) {
	c.t.Helper()

	resp := c.do(method, path, body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.t.Fatalf("%s %s: failed to decode response: %v", method, path, err)
		}
	}
}

func TestStateIssuesSessionCookie(t *testing.T) {
	server := newTestServer(t)
	c := &client{t: t, base: server.URL}

	resp := c.do("GET", "/api/state", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var found bool
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookieName && cookie.Value != "" {
			found = true
			if !cookie.HttpOnly {
				t.Error("session cookie should be HttpOnly")
			}
		}
	}
	if !found {
		t.Fatal("expected a session cookie on first contact")
	}

	var state StateView
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("failed to decode state: %v", err)
	}
	if state.Mode != "study" {
		t.Errorf("expected study mode, got %q", state.Mode)
	}
	if state.Study == nil || state.Study.Word == "" {
		t.Error("expected a study card")
	}
}

func TestStudyFlowAcrossRequests(t *testing.T) {
	server := newTestServer(t)
	c := &client{t: t, base: server.URL}

	var state StateView
	c.doJSON("GET", "/api/state", nil, &state)

	c.doJSON("POST", "/api/study/next", nil, &state)
	if state.Study == nil || state.Study.Index != 1 {
		t.Fatalf("expected index 1, got %+v", state.Study)
	}

	// The cursor persists across a fresh request with the same cookie
	c.doJSON("GET", "/api/state", nil, &state)
	if state.Study == nil || state.Study.Index != 1 {
		t.Fatalf("cursor lost between requests: %+v", state.Study)
	}

	c.doJSON("POST", "/api/study/prev", nil, &state)
	if state.Study == nil || state.Study.Index != 0 {
		t.Fatalf("expected index 0, got %+v", state.Study)
	}
}

func TestQuizFlow(t *testing.T) {
	server := newTestServer(t)
	c := &client{t: t, base: server.URL}

	var state StateView
	c.doJSON("GET", "/api/state", nil, &state)

	c.doJSON("POST", "/api/quiz/start", map[string]string{"difficulty": "easy"}, &state)
	if state.Mode != "quiz" {
		t.Fatalf("expected quiz mode, got %q", state.Mode)
	}
	if state.Quiz == nil || len(state.Quiz.Options) != 4 {
		t.Fatalf("expected 4 options, got %+v", state.Quiz)
	}
	if state.Quiz.FreeText {
		t.Error("easy mode is multiple choice")
	}

	var answered struct {
		State    StateView     `json:"state"`
		Feedback *FeedbackView `json:"feedback"`
	}
	c.doJSON("POST", "/api/quiz/answer", map[string]string{"answer": state.Quiz.Options[0]}, &answered)
	if answered.Feedback == nil {
		t.Fatal("expected feedback")
	}
	if answered.Feedback.CorrectWord == "" {
		t.Error("feedback should reveal the correct word")
	}
	if !answered.State.Quiz.AwaitingAdvance {
		t.Error("expected the feedback window to be open")
	}

	// A second submission inside the window yields no feedback
	answered.Feedback = nil
	c.doJSON("POST", "/api/quiz/answer", map[string]string{"answer": "anything"}, &answered)
	if answered.Feedback != nil {
		t.Error("submission during the feedback window should be ignored")
	}
}

func TestQuizStartRejectsUnknownDifficulty(t *testing.T) {
	server := newTestServer(t)
	c := &client{t: t, base: server.URL}

	resp := c.do("POST", "/api/quiz/start", map[string]string{"difficulty": "impossible"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHintEndpoint(t *testing.T) {
	server := newTestServer(t)
	c := &client{t: t, base: server.URL}

	var state StateView
	c.doJSON("POST", "/api/quiz/start", map[string]string{"difficulty": "hard"}, &state)
	if state.Quiz == nil || !state.Quiz.FreeText {
		t.Fatalf("expected free-text quiz, got %+v", state.Quiz)
	}

	var hint struct {
		Hint      string `json:"hint"`
		Available bool   `json:"available"`
	}
	c.doJSON("POST", "/api/quiz/hint", map[string]string{"current": ""}, &hint)
	if !hint.Available || len(hint.Hint) == 0 {
		t.Fatalf("expected a hint, got %+v", hint)
	}

	c.doJSON("POST", "/api/quiz/hint", map[string]string{"current": "e"}, &hint)
	if hint.Available {
		t.Error("no hint once typing has begun")
	}
}

func TestGiveUpEndpoint(t *testing.T) {
	server := newTestServer(t)
	c := &client{t: t, base: server.URL}

	var state StateView
	c.doJSON("POST", "/api/quiz/start", map[string]string{"difficulty": "hard"}, &state)

	var answered struct {
		State    StateView     `json:"state"`
		Feedback *FeedbackView `json:"feedback"`
	}
	c.doJSON("POST", "/api/quiz/giveup", nil, &answered)
	if answered.Feedback == nil || !answered.Feedback.GaveUp {
		t.Fatalf("expected give-up feedback, got %+v", answered.Feedback)
	}
	if answered.Feedback.CorrectWord == "" {
		t.Error("give-up should reveal the word")
	}
}

func TestTabSwitchEndpoint(t *testing.T) {
	server := newTestServer(t)
	c := &client{t: t, base: server.URL}

	var state StateView
	c.doJSON("POST", "/api/tab", map[string]string{"tab": "quiz"}, &state)
	if state.Mode != "difficulty_select" {
		t.Fatalf("expected difficulty select, got %q", state.Mode)
	}
	if state.Difficulty == nil || len(state.Difficulty.Tiers) != 3 {
		t.Fatalf("expected 3 tiers, got %+v", state.Difficulty)
	}

	resp := c.do("POST", "/api/tab", map[string]string{"tab": "bogus"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown tab, got %d", resp.StatusCode)
	}
}

func TestRecordsEndpoint(t *testing.T) {
	server := newTestServer(t)
	c := &client{t: t, base: server.URL}

	var records struct {
		Tiers []TierView `json:"tiers"`
	}
	c.doJSON("GET", "/api/records", nil, &records)
	if len(records.Tiers) != 3 {
		t.Fatalf("expected 3 tiers, got %d", len(records.Tiers))
	}
	for _, tier := range records.Tiers {
		if tier.BestMs != 0 {
			t.Errorf("expected no best time for %s yet", tier.Difficulty)
		}
	}
}

func TestRecentResultsLimitValidation(t *testing.T) {
	server := newTestServer(t)
	c := &client{t: t, base: server.URL}

	resp := c.do("GET", "/api/results/recent?limit=0", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for limit=0, got %d", resp.StatusCode)
	}

	var history struct {
		Results []ResultHistoryView `json:"results"`
	}
	c.doJSON("GET", "/api/results/recent", nil, &history)
	if len(history.Results) != 0 {
		t.Fatalf("expected no history yet, got %d", len(history.Results))
	}
}

func TestDarkModePreference(t *testing.T) {
	server := newTestServer(t)
	c := &client{t: t, base: server.URL}

	var pref struct {
		DarkMode bool `json:"dark_mode"`
	}
	c.doJSON("GET", "/api/preferences/dark-mode", nil, &pref)
	if pref.DarkMode {
		t.Error("dark mode should default to off")
	}

	c.doJSON("PUT", "/api/preferences/dark-mode", map[string]bool{"dark_mode": true}, &pref)
	if !pref.DarkMode {
		t.Error("expected dark mode on after update")
	}

	c.doJSON("GET", "/api/preferences/dark-mode", nil, &pref)
	if !pref.DarkMode {
		t.Error("dark mode should persist")
	}
}

func TestForgedCookieGetsFreshSession(t *testing.T) {
	server := newTestServer(t)
	c := &client{t: t, base: server.URL}

	c.cookies = []*http.Cookie{{Name: SessionCookieName, Value: "not-a-valid-token"}}

	resp := c.do("GET", "/api/state", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var reissued bool
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookieName && cookie.Value != "not-a-valid-token" {
			reissued = true
		}
	}
	if !reissued {
		t.Fatal("a forged cookie should be replaced with a fresh session")
	}
}
