package repository

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"vocabquest/internal/database"
	"vocabquest/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestRecordRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewRecordRepository(db)

	if _, err := repo.GetBestTime(models.DifficultyEasy); err != sql.ErrNoRows {
		t.Fatalf("GetBestTime on empty table: err = %v, want sql.ErrNoRows", err)
	}

	if err := repo.UpsertBestTime(models.DifficultyEasy, 5000); err != nil {
		t.Fatalf("UpsertBestTime failed: %v", err)
	}
	if ms, err := repo.GetBestTime(models.DifficultyEasy); err != nil || ms != 5000 {
		t.Fatalf("GetBestTime = %d, %v, want 5000, nil", ms, err)
	}

	// Upserting the same tier overwrites instead of adding a row
	if err := repo.UpsertBestTime(models.DifficultyEasy, 4200); err != nil {
		t.Fatalf("UpsertBestTime overwrite failed: %v", err)
	}
	if ms, _ := repo.GetBestTime(models.DifficultyEasy); ms != 4200 {
		t.Errorf("GetBestTime after overwrite = %d, want 4200", ms)
	}

	if err := repo.UpsertBestTime(models.DifficultyHard, 9000); err != nil {
		t.Fatalf("UpsertBestTime failed: %v", err)
	}

	records, err := repo.AllBestTimes()
	if err != nil {
		t.Fatalf("AllBestTimes failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("AllBestTimes returned %d records, want 2", len(records))
	}
	for _, rec := range records {
		if rec.AchievedAt.IsZero() {
			t.Errorf("AllBestTimes record for %s has zero AchievedAt", rec.Difficulty)
		}
	}

	if err := repo.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	records, err = repo.AllBestTimes()
	if err != nil {
		t.Fatalf("AllBestTimes after DeleteAll failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("AllBestTimes after DeleteAll returned %d records, want 0", len(records))
	}
}

func TestSettingsRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewSettingsRepository(db)

	if repo.DarkMode() {
		t.Error("DarkMode should default to off")
	}

	if err := repo.SetDarkMode(true); err != nil {
		t.Fatalf("SetDarkMode failed: %v", err)
	}
	if !repo.DarkMode() {
		t.Error("DarkMode should be on after SetDarkMode(true)")
	}

	if err := repo.SetSetting("accent", "blue"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if value, err := repo.GetSetting("accent"); err != nil || value != "blue" {
		t.Fatalf("GetSetting = %q, %v, want \"blue\", nil", value, err)
	}

	// Setting the same name again replaces the value
	if err := repo.SetSetting("accent", "green"); err != nil {
		t.Fatalf("SetSetting overwrite failed: %v", err)
	}
	if value, _ := repo.GetSetting("accent"); value != "green" {
		t.Errorf("GetSetting after overwrite = %q, want \"green\"", value)
	}

	settings, err := repo.AllSettings()
	if err != nil {
		t.Fatalf("AllSettings failed: %v", err)
	}
	if len(settings) != 2 {
		t.Fatalf("AllSettings returned %d settings, want 2", len(settings))
	}
	if settings[0].Name != "accent" || settings[1].Name != "dark_mode" {
		t.Errorf("AllSettings order = %q, %q, want accent, dark_mode", settings[0].Name, settings[1].Name)
	}
	for _, s := range settings {
		if s.UpdatedAt.IsZero() {
			t.Errorf("AllSettings setting %q has zero UpdatedAt", s.Name)
		}
	}

	if err := repo.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if repo.DarkMode() {
		t.Error("DarkMode should be off after DeleteAll")
	}
}

func TestResultRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewResultRepository(db)

	first := &models.QuizResult{
		Difficulty:     models.DifficultyEasy,
		TotalQuestions: 10,
		CorrectCount:   8,
		SpeedBonuses:   3,
		Percentage:     80,
		DurationMs:     42000,
	}
	if err := repo.SaveResult(first); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	if first.ID == 0 {
		t.Error("SaveResult should fill in the result ID")
	}

	second := &models.QuizResult{
		Difficulty:     models.DifficultyHard,
		TotalQuestions: 10,
		CorrectCount:   10,
		SpeedBonuses:   7,
		Percentage:     100,
		DurationMs:     38000,
	}
	if err := repo.SaveResult(second); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	recent, err := repo.RecentResults(10)
	if err != nil {
		t.Fatalf("RecentResults failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("RecentResults returned %d results, want 2", len(recent))
	}
	if recent[0].ID != second.ID {
		t.Errorf("RecentResults[0].ID = %d, want newest %d", recent[0].ID, second.ID)
	}

	if recent, err = repo.RecentResults(1); err != nil || len(recent) != 1 {
		t.Fatalf("RecentResults(1) returned %d results, %v, want 1, nil", len(recent), err)
	}

	all, err := repo.AllResults()
	if err != nil {
		t.Fatalf("AllResults failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != first.ID {
		t.Errorf("AllResults should be oldest first, got %d results starting at ID %d", len(all), all[0].ID)
	}

	if err := repo.DeleteAll(); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	if all, err = repo.AllResults(); err != nil || len(all) != 0 {
		t.Errorf("AllResults after DeleteAll returned %d results, %v, want 0, nil", len(all), err)
	}
}

func TestRestoreResultKeepsCompletionTime(t *testing.T) {
	db := newTestDB(t)
	repo := NewResultRepository(db)

	completedAt := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	restored := &models.QuizResult{
		Difficulty:     models.DifficultyMedium,
		TotalQuestions: 10,
		CorrectCount:   9,
		SpeedBonuses:   2,
		Percentage:     90,
		DurationMs:     51000,
		CompletedAt:    completedAt,
	}
	if err := repo.RestoreResult(restored); err != nil {
		t.Fatalf("RestoreResult failed: %v", err)
	}
	if restored.ID == 0 {
		t.Error("RestoreResult should fill in the result ID")
	}

	all, err := repo.AllResults()
	if err != nil {
		t.Fatalf("AllResults failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("AllResults returned %d results, want 1", len(all))
	}
	if all[0].CompletedAt.Unix() != completedAt.Unix() {
		t.Errorf("CompletedAt = %v, want original %v", all[0].CompletedAt, completedAt)
	}
}
