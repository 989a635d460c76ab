package repository

import (
	"context"

	"jurisai-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ArgumentRepository handles database operations for argument versions.
// Versions are append-only; there is no update.
type ArgumentRepository struct {
	db *pgxpool.Pool
}

// NewArgumentRepository creates a new argument repository
func NewArgumentRepository(db *pgxpool.Pool) *ArgumentRepository {
	return &ArgumentRepository{db: db}
}

const argumentColumns = `id, matter_id, version_number, position, fact_pattern, fact_expansions,
	argument_text, authority_ids, status, parent_version_id, created_at`

func scanArgument(row pgx.Row) (*models.Argument, error) {
	a := &models.Argument{}
	err := row.Scan(
		&a.ID,
		&a.MatterID,
		&a.VersionNumber,
		&a.Position,
		&a.FactPattern,
		&a.FactExpansions,
		&a.ArgumentText,
		&a.Authorities,
		&a.Status,
		&a.ParentVersionID,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.Authorities == nil {
		a.Authorities = []uuid.UUID{}
	}
	return a, nil
}

// Create inserts a new version. A duplicate (matter_id, version_number)
// returns ErrVersionConflict.
func (r *ArgumentRepository) Create(ctx context.Context, a *models.Argument) error {
	query := `
		INSERT INTO arguments (
			matter_id, version_number, position, fact_pattern, fact_expansions,
			argument_text, authority_ids, status, parent_version_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	authorities := a.Authorities
	if authorities == nil {
		authorities = []uuid.UUID{}
	}

	err := r.db.QueryRow(
		ctx, query,
		a.MatterID,
		a.VersionNumber,
		a.Position,
		a.FactPattern,
		a.FactExpansions,
		a.ArgumentText,
		authorities,
		a.Status,
		a.ParentVersionID,
	).Scan(&a.ID, &a.CreatedAt)
	if isUniqueViolation(err) {
		return ErrVersionConflict
	}
	return err
}

// Latest returns the highest version for a matter
func (r *ArgumentRepository) Latest(ctx context.Context, matterID uuid.UUID) (*models.Argument, error) {
	query := `SELECT ` + argumentColumns + ` FROM arguments
		WHERE matter_id = $1
		ORDER BY version_number DESC
		LIMIT 1`
	a, err := scanArgument(r.db.QueryRow(ctx, query, matterID))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// ListByMatter returns every version for a matter, newest first
func (r *ArgumentRepository) ListByMatter(ctx context.Context, matterID uuid.UUID) ([]*models.Argument, error) {
	rows, err := r.db.Query(ctx, `SELECT `+argumentColumns+` FROM arguments WHERE matter_id = $1 ORDER BY version_number DESC`, matterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	arguments := make([]*models.Argument, 0)
	for rows.Next() {
		a, err := scanArgument(rows)
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, a)
	}
	return arguments, rows.Err()
}
