package service

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"vocabquest/internal/database"
	"vocabquest/internal/models"
	"vocabquest/internal/repository"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string             `json:"version"`
	ExportedAt   time.Time          `json:"exported_at"`
	DatabaseType string             `json:"database_type"`
	Settings     []SettingBackup    `json:"settings"`
	BestTimes    []BestTimeBackup   `json:"best_times"`
	QuizResults  []QuizResultBackup `json:"quiz_results"`
}

// SettingBackup represents a settings row for backup
type SettingBackup struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BestTimeBackup represents a best-time record for backup
type BestTimeBackup struct {
	Difficulty string    `json:"difficulty"`
	DurationMs int64     `json:"duration_ms"`
	AchievedAt time.Time `json:"achieved_at"`
}

// QuizResultBackup represents a finished quiz attempt for backup
type QuizResultBackup struct {
	ID             int64     `json:"id"`
	Difficulty     string    `json:"difficulty"`
	TotalQuestions int       `json:"total_questions"`
	CorrectCount   int       `json:"correct_count"`
	SpeedBonuses   int       `json:"speed_bonuses"`
	Percentage     int       `json:"percentage"`
	DurationMs     int64     `json:"duration_ms"`
	CompletedAt    time.Time `json:"completed_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database to an io.Writer (useful for HTTP responses)
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	settings, err := repository.NewSettingsRepository(s.db).AllSettings()
	if err != nil {
		return fmt.Errorf("failed to export settings: %w", err)
	}
	for _, setting := range settings {
		backup.Settings = append(backup.Settings, SettingBackup{
			Name:      setting.Name,
			Value:     setting.Value,
			UpdatedAt: setting.UpdatedAt,
		})
	}

	bestTimes, err := repository.NewRecordRepository(s.db).AllBestTimes()
	if err != nil {
		return fmt.Errorf("failed to export best times: %w", err)
	}
	for _, bt := range bestTimes {
		backup.BestTimes = append(backup.BestTimes, BestTimeBackup{
			Difficulty: string(bt.Difficulty),
			DurationMs: bt.DurationMs,
			AchievedAt: bt.AchievedAt,
		})
	}

	results, err := repository.NewResultRepository(s.db).AllResults()
	if err != nil {
		return fmt.Errorf("failed to export quiz results: %w", err)
	}
	for _, res := range results {
		backup.QuizResults = append(backup.QuizResults, QuizResultBackup{
			ID:             res.ID,
			Difficulty:     string(res.Difficulty),
			TotalQuestions: res.TotalQuestions,
			CorrectCount:   res.CorrectCount,
			SpeedBonuses:   res.SpeedBonuses,
			Percentage:     res.Percentage,
			DurationMs:     res.DurationMs,
			CompletedAt:    res.CompletedAt,
		})
	}

	log.Printf("Exported: %d settings, %d best times, %d quiz results",
		len(backup.Settings), len(backup.BestTimes), len(backup.QuizResults))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader. Settings and
// best times merge with existing rows; quiz results append. All three
// imports run in one transaction, so a failed import leaves no partial state.
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	settingsRepo := repository.NewSettingsRepository(tx)
	log.Printf("Importing %d settings...", len(backup.Settings))
	for _, setting := range backup.Settings {
		if err := settingsRepo.SetSetting(setting.Name, setting.Value); err != nil {
			return fmt.Errorf("failed to import setting %s: %w", setting.Name, err)
		}
	}

	recordRepo := repository.NewRecordRepository(tx)
	log.Printf("Importing %d best times...", len(backup.BestTimes))
	for _, bt := range backup.BestTimes {
		if err := recordRepo.UpsertBestTime(models.Difficulty(bt.Difficulty), bt.DurationMs); err != nil {
			return fmt.Errorf("failed to import best time for %s: %w", bt.Difficulty, err)
		}
	}

	resultRepo := repository.NewResultRepository(tx)
	log.Printf("Importing %d quiz results...", len(backup.QuizResults))
	for _, qr := range backup.QuizResults {
		result := &models.QuizResult{
			Difficulty:     models.Difficulty(qr.Difficulty),
			TotalQuestions: qr.TotalQuestions,
			CorrectCount:   qr.CorrectCount,
			SpeedBonuses:   qr.SpeedBonuses,
			Percentage:     qr.Percentage,
			DurationMs:     qr.DurationMs,
			CompletedAt:    qr.CompletedAt,
		}
		if err := resultRepo.RestoreResult(result); err != nil {
			return fmt.Errorf("failed to import quiz result %d: %w", qr.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}
