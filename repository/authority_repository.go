package repository

import (
	"context"
	"fmt"

	"jurisai-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuthorityRepository handles database operations for legal authorities
type AuthorityRepository struct {
	db *pgxpool.Pool
}

// NewAuthorityRepository creates a new authority repository
func NewAuthorityRepository(db *pgxpool.Pool) *AuthorityRepository {
	return &AuthorityRepository{db: db}
}

const authorityColumns = `id, matter_id, title, citation, court, year, authority_type,
	legal_principle, relevance, key_quotes, tags, validity, url, created_at`

func scanAuthority(row pgx.Row) (*models.LegalAuthority, error) {
	a := &models.LegalAuthority{}
	err := row.Scan(
		&a.ID,
		&a.MatterID,
		&a.Title,
		&a.Citation,
		&a.Court,
		&a.Year,
		&a.AuthorityType,
		&a.LegalPrinciple,
		&a.Relevance,
		&a.KeyQuotes,
		&a.Tags,
		&a.Validity,
		&a.URL,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.KeyQuotes == nil {
		a.KeyQuotes = []string{}
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	return a, nil
}

// Create creates a new authority
func (r *AuthorityRepository) Create(ctx context.Context, a *models.LegalAuthority) error {
	query := `
		INSERT INTO legal_authorities (
			matter_id, title, citation, court, year, authority_type,
			legal_principle, relevance, key_quotes, tags, validity, url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	a.Validity = a.Validity.OrDefault()
	return r.db.QueryRow(
		ctx, query,
		a.MatterID,
		a.Title,
		a.Citation,
		a.Court,
		a.Year,
		a.AuthorityType,
		a.LegalPrinciple,
		a.Relevance,
		nonNil(a.KeyQuotes),
		nonNil(a.Tags),
		a.Validity,
		a.URL,
	).Scan(&a.ID, &a.CreatedAt)
}

// GetByID retrieves an authority by ID
func (r *AuthorityRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LegalAuthority, error) {
	query := `SELECT ` + authorityColumns + ` FROM legal_authorities WHERE id = $1`
	a, err := scanAuthority(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// ListByMatter returns the authorities linked to a matter, newest first
func (r *AuthorityRepository) ListByMatter(ctx context.Context, matterID uuid.UUID) ([]*models.LegalAuthority, error) {
	query := `SELECT ` + authorityColumns + ` FROM legal_authorities WHERE matter_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, matterID)
}

// List returns all authorities newest first. A limit of zero returns every row.
func (r *AuthorityRepository) List(ctx context.Context, limit int) ([]*models.LegalAuthority, error) {
	query := `SELECT ` + authorityColumns + ` FROM legal_authorities ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return r.list(ctx, query)
}

func (r *AuthorityRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.LegalAuthority, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authorities := make([]*models.LegalAuthority, 0)
	for rows.Next() {
		a, err := scanAuthority(rows)
		if err != nil {
			return nil, err
		}
		authorities = append(authorities, a)
	}
	return authorities, rows.Err()
}
