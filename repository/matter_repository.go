package repository

import (
	"context"
	"fmt"

	"jurisai-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MatterRepository handles database operations for matters
type MatterRepository struct {
	db *pgxpool.Pool
}

// NewMatterRepository creates a new matter repository
func NewMatterRepository(db *pgxpool.Pool) *MatterRepository {
	return &MatterRepository{db: db}
}

const matterColumns = `id, matter_reference, matter_name, client_name, court, matter_type, status, description, created_at, updated_at`

func scanMatter(row pgx.Row) (*models.Matter, error) {
	m := &models.Matter{}
	err := row.Scan(
		&m.ID,
		&m.Reference,
		&m.Name,
		&m.Client,
		&m.Court,
		&m.MatterType,
		&m.Status,
		&m.Description,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create creates a new matter
func (r *MatterRepository) Create(ctx context.Context, m *models.Matter) error {
	query := `
		INSERT INTO matters (
			matter_reference, matter_name, client_name, court, matter_type, status, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		m.Reference,
		m.Name,
		m.Client,
		m.Court,
		m.MatterType,
		m.Status,
		m.Description,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID retrieves a matter by ID
func (r *MatterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Matter, error) {
	query := `SELECT ` + matterColumns + ` FROM matters WHERE id = $1`
	m, err := scanMatter(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return m, nil
}

// Update updates a matter
func (r *MatterRepository) Update(ctx context.Context, m *models.Matter) error {
	query := `
		UPDATE matters SET
			matter_reference = $2,
			matter_name = $3,
			client_name = $4,
			court = $5,
			matter_type = $6,
			status = $7,
			description = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		m.ID,
		m.Reference,
		m.Name,
		m.Client,
		m.Court,
		m.MatterType,
		m.Status,
		m.Description,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	return notFound(err)
}

// List returns matters most recently updated first
func (r *MatterRepository) List(ctx context.Context, filter models.MatterFilter) ([]*models.Matter, error) {
	query := `SELECT ` + matterColumns + ` FROM matters WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.MatterType != nil {
		query += fmt.Sprintf(" AND matter_type = $%d", argIndex)
		args = append(args, *filter.MatterType)
		argIndex++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (matter_name ILIKE $%d OR client_name ILIKE $%d OR matter_reference ILIKE $%d)", argIndex, argIndex, argIndex)
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argIndex++
	}

	query += " ORDER BY updated_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matters := make([]*models.Matter, 0)
	for rows.Next() {
		m, err := scanMatter(rows)
		if err != nil {
			return nil, err
		}
		matters = append(matters, m)
	}
	return matters, rows.Err()
}

// CountByStatus counts matters in one status
func (r *MatterRepository) CountByStatus(ctx context.Context, status models.MatterStatus) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM matters WHERE status = $1`, status).Scan(&n)
	return n, err
}

// escapeLike escapes ILIKE wildcards in user input
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
