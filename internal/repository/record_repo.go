package repository

import (
	"vocabquest/internal/database"
	"vocabquest/internal/models"
)

// RecordRepository handles best-completion-time database operations
type RecordRepository struct {
	db database.DBTX
}

// NewRecordRepository creates a new record repository
func NewRecordRepository(db database.DBTX) *RecordRepository {
	return &RecordRepository{db: db}
}

// GetBestTime retrieves the stored best time for a difficulty tier.
// Returns sql.ErrNoRows when no record exists.
func (r *RecordRepository) GetBestTime(difficulty models.Difficulty) (int64, error) {
	var ms int64
	query := `SELECT duration_ms FROM best_times WHERE difficulty = ?`
	err := r.db.QueryRow(query, string(difficulty)).Scan(&ms)
	return ms, err
}

// UpsertBestTime inserts or replaces the best time for a difficulty tier
func (r *RecordRepository) UpsertBestTime(difficulty models.Difficulty, durationMs int64) error {
	query := r.db.GetDialect().UpsertBestTime()
	_, err := r.db.Exec(query, string(difficulty), durationMs)
	return err
}

// AllBestTimes retrieves every stored best time
func (r *RecordRepository) AllBestTimes() ([]models.BestTime, error) {
	query := `SELECT difficulty, duration_ms, achieved_at FROM best_times ORDER BY difficulty`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.BestTime
	for rows.Next() {
		var rec models.BestTime
		var difficulty string
		if err := rows.Scan(&difficulty, &rec.DurationMs, &rec.AchievedAt); err != nil {
			return nil, err
		}
		rec.Difficulty = models.Difficulty(difficulty)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteAll removes every stored best time
func (r *RecordRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM best_times`)
	return err
}
