package repository

import (
	"vocabquest/internal/database"
	"vocabquest/internal/models"
)

// ResultRepository handles finished-quiz history database operations
type ResultRepository struct {
	db database.DBTX
}

// NewResultRepository creates a new result repository
func NewResultRepository(db database.DBTX) *ResultRepository {
	return &ResultRepository{db: db}
}

// SaveResult records a finished quiz attempt and fills in its ID
func (r *ResultRepository) SaveResult(result *models.QuizResult) error {
	query := `
		INSERT INTO quiz_results (difficulty, total_questions, correct_count, speed_bonuses, percentage, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query,
		string(result.Difficulty),
		result.TotalQuestions,
		result.CorrectCount,
		result.SpeedBonuses,
		result.Percentage,
		result.DurationMs,
	)
	if err != nil {
		return err
	}

	result.ID = id
	return nil
}

// RestoreResult inserts a historical attempt keeping its original completion
// time, used when importing a backup
func (r *ResultRepository) RestoreResult(result *models.QuizResult) error {
	query := `
		INSERT INTO quiz_results (difficulty, total_questions, correct_count, speed_bonuses, percentage, duration_ms, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query,
		string(result.Difficulty),
		result.TotalQuestions,
		result.CorrectCount,
		result.SpeedBonuses,
		result.Percentage,
		result.DurationMs,
		result.CompletedAt,
	)
	if err != nil {
		return err
	}

	result.ID = id
	return nil
}

// RecentResults retrieves the most recent finished quizzes, newest first
func (r *ResultRepository) RecentResults(limit int) ([]models.QuizResult, error) {
	query := `
		SELECT id, difficulty, total_questions, correct_count, speed_bonuses, percentage, duration_ms, completed_at
		FROM quiz_results
		ORDER BY completed_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResults(rows)
}

// AllResults retrieves the full quiz history, oldest first
func (r *ResultRepository) AllResults() ([]models.QuizResult, error) {
	query := `
		SELECT id, difficulty, total_questions, correct_count, speed_bonuses, percentage, duration_ms, completed_at
		FROM quiz_results
		ORDER BY completed_at ASC, id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResults(rows)
}

// DeleteAll removes the full quiz history
func (r *ResultRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM quiz_results`)
	return err
}

type resultRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanResults(rows resultRows) ([]models.QuizResult, error) {
	var results []models.QuizResult
	for rows.Next() {
		var res models.QuizResult
		var difficulty string
		if err := rows.Scan(
			&res.ID,
			&difficulty,
			&res.TotalQuestions,
			&res.CorrectCount,
			&res.SpeedBonuses,
			&res.Percentage,
			&res.DurationMs,
			&res.CompletedAt,
		); err != nil {
			return nil, err
		}
		res.Difficulty = models.Difficulty(difficulty)
		results = append(results, res)
	}
	return results, rows.Err()
}
