package repository

import (
	"context"
	"time"

	"jurisai-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GenerationRunRepository records each call to the generative model
type GenerationRunRepository struct {
	db *pgxpool.Pool
}

// NewGenerationRunRepository creates a new generation run repository
func NewGenerationRunRepository(db *pgxpool.Pool) *GenerationRunRepository {
	return &GenerationRunRepository{db: db}
}

// Create records a run that has started
func (r *GenerationRunRepository) Create(ctx context.Context, run *models.GenerationRun) error {
	query := `
		INSERT INTO generation_runs (
			task, matter_id, session_id, status, prompt_chars
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return r.db.QueryRow(
		ctx, query,
		run.Task,
		run.MatterID,
		run.SessionID,
		run.Status,
		run.PromptChars,
	).Scan(&run.ID, &run.CreatedAt)
}

// Finish settles a run as succeeded, failed or discarded
func (r *GenerationRunRepository) Finish(ctx context.Context, id uuid.UUID, status models.GenerationRunStatus, errorMessage *string) error {
	query := `
		UPDATE generation_runs SET
			status = $2,
			error_message = $3,
			completed_at = $4
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status, errorMessage, time.Now())
	return err
}

// ListRecent returns the latest runs, newest first
func (r *GenerationRunRepository) ListRecent(ctx context.Context, limit int) ([]*models.GenerationRun, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, task, matter_id, session_id, status, prompt_chars, error_message, created_at, completed_at
		FROM generation_runs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*models.GenerationRun, 0)
	for rows.Next() {
		run := &models.GenerationRun{}
		err := rows.Scan(
			&run.ID,
			&run.Task,
			&run.MatterID,
			&run.SessionID,
			&run.Status,
			&run.PromptChars,
			&run.ErrorMessage,
			&run.CreatedAt,
			&run.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
