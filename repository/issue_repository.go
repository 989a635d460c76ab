package repository

import (
	"context"

	"jurisai-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IssueRepository handles database operations for legal issues
type IssueRepository struct {
	db *pgxpool.Pool
}

// NewIssueRepository creates a new issue repository
func NewIssueRepository(db *pgxpool.Pool) *IssueRepository {
	return &IssueRepository{db: db}
}

const issueColumns = `id, matter_id, question, summary, status, created_at, updated_at`

func scanIssue(row pgx.Row) (*models.LegalIssue, error) {
	issue := &models.LegalIssue{}
	err := row.Scan(
		&issue.ID,
		&issue.MatterID,
		&issue.Question,
		&issue.Summary,
		&issue.Status,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return issue, nil
}

// Create creates a new issue
func (r *IssueRepository) Create(ctx context.Context, issue *models.LegalIssue) error {
	query := `
		INSERT INTO legal_issues (matter_id, question, summary, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		issue.MatterID,
		issue.Question,
		issue.Summary,
		issue.Status,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
}

// Update updates the summary and status of an issue
func (r *IssueRepository) Update(ctx context.Context, issue *models.LegalIssue) error {
	query := `
		UPDATE legal_issues SET
			summary = $2,
			status = $3,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query, issue.ID, issue.Summary, issue.Status).Scan(&issue.UpdatedAt)
	return notFound(err)
}

// GetByID retrieves an issue by ID
func (r *IssueRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LegalIssue, error) {
	issue, err := scanIssue(r.db.QueryRow(ctx, `SELECT `+issueColumns+` FROM legal_issues WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return issue, nil
}

// FindByQuestion finds the issue on a matter with the same question, ignoring case
func (r *IssueRepository) FindByQuestion(ctx context.Context, matterID uuid.UUID, question string) (*models.LegalIssue, error) {
	query := `SELECT ` + issueColumns + ` FROM legal_issues
		WHERE matter_id = $1 AND LOWER(question) = LOWER($2)
		ORDER BY updated_at DESC
		LIMIT 1`
	issue, err := scanIssue(r.db.QueryRow(ctx, query, matterID, question))
	if err != nil {
		return nil, notFound(err)
	}
	return issue, nil
}

// ListByMatter returns the issues on a matter, most recently updated first
func (r *IssueRepository) ListByMatter(ctx context.Context, matterID uuid.UUID) ([]*models.LegalIssue, error) {
	rows, err := r.db.Query(ctx, `SELECT `+issueColumns+` FROM legal_issues WHERE matter_id = $1 ORDER BY updated_at DESC`, matterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	issues := make([]*models.LegalIssue, 0)
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}
