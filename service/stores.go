package service

import (
	"context"

	"jurisai-backend/models"

	"github.com/google/uuid"
)

// The repository package satisfies these; tests use in-memory fakes.

// MatterStore persists matters
type MatterStore interface {
	Create(ctx context.Context, m *models.Matter) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Matter, error)
	Update(ctx context.Context, m *models.Matter) error
	List(ctx context.Context, filter models.MatterFilter) ([]*models.Matter, error)
	CountByStatus(ctx context.Context, status models.MatterStatus) (int, error)
}

// AuthorityStore persists legal authorities
type AuthorityStore interface {
	Create(ctx context.Context, a *models.LegalAuthority) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.LegalAuthority, error)
	ListByMatter(ctx context.Context, matterID uuid.UUID) ([]*models.LegalAuthority, error)
	List(ctx context.Context, limit int) ([]*models.LegalAuthority, error)
}

// IssueStore persists legal issues
type IssueStore interface {
	Create(ctx context.Context, issue *models.LegalIssue) error
	Update(ctx context.Context, issue *models.LegalIssue) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.LegalIssue, error)
	FindByQuestion(ctx context.Context, matterID uuid.UUID, question string) (*models.LegalIssue, error)
	ListByMatter(ctx context.Context, matterID uuid.UUID) ([]*models.LegalIssue, error)
}

// ArgumentStore persists append-only argument versions
type ArgumentStore interface {
	Create(ctx context.Context, a *models.Argument) error
	Latest(ctx context.Context, matterID uuid.UUID) (*models.Argument, error)
	ListByMatter(ctx context.Context, matterID uuid.UUID) ([]*models.Argument, error)
}

// DocumentStore persists generated documents
type DocumentStore interface {
	Create(ctx context.Context, d *models.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	ListByMatter(ctx context.Context, matterID uuid.UUID) ([]*models.Document, error)
	List(ctx context.Context, limit int) ([]*models.Document, error)
}

// FileStore persists uploaded file records
type FileStore interface {
	Create(ctx context.Context, f *models.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
	ListByMatter(ctx context.Context, matterID uuid.UUID) ([]*models.File, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RunStore records generation runs
type RunStore interface {
	Create(ctx context.Context, run *models.GenerationRun) error
	Finish(ctx context.Context, id uuid.UUID, status models.GenerationRunStatus, errorMessage *string) error
}

// TextSource returns the extracted text of an uploaded file
type TextSource interface {
	ExtractText(ctx context.Context, fileID uuid.UUID) (filename string, text string, err error)
}
