package service

import (
	"context"
	"errors"
	"strings"

	"jurisai-backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatterService handles business logic for matters
type MatterService struct {
	matterRepo    MatterStore
	authorityRepo AuthorityStore
	issueRepo     IssueStore
	argumentRepo  ArgumentStore
	documentRepo  DocumentStore
	logger        *zap.Logger
}

// MatterServiceOption is a functional option for MatterService
type MatterServiceOption func(*MatterService)

// WithMatterRepository sets the matter repository
func WithMatterRepository(repo MatterStore) MatterServiceOption {
	return func(s *MatterService) {
		s.matterRepo = repo
	}
}

// WithAuthorityRepository sets the authority repository
func WithAuthorityRepository(repo AuthorityStore) MatterServiceOption {
	return func(s *MatterService) {
		s.authorityRepo = repo
	}
}

// WithIssueRepository sets the issue repository
func WithIssueRepository(repo IssueStore) MatterServiceOption {
	return func(s *MatterService) {
		s.issueRepo = repo
	}
}

// WithArgumentRepository sets the argument repository
func WithArgumentRepository(repo ArgumentStore) MatterServiceOption {
	return func(s *MatterService) {
		s.argumentRepo = repo
	}
}

// WithDocumentRepository sets the document repository
func WithDocumentRepository(repo DocumentStore) MatterServiceOption {
	return func(s *MatterService) {
		s.documentRepo = repo
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) MatterServiceOption {
	return func(s *MatterService) {
		s.logger = logger
	}
}

// NewMatterService creates a new matter service
func NewMatterService(opts ...MatterServiceOption) *MatterService {
	s := &MatterService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MatterInput holds the editable fields of a matter
type MatterInput struct {
	Reference   string
	Name        string
	Client      string
	Court       string
	MatterType  string
	Status      string
	Description string
}

func (in MatterInput) apply(m *models.Matter) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return invalid("matter_name", "is required")
	}
	m.Reference = strings.TrimSpace(in.Reference)
	m.Name = name
	m.Client = strings.TrimSpace(in.Client)
	m.Court = strings.TrimSpace(in.Court)
	m.Description = in.Description

	m.MatterType = models.MatterTypeOther
	if in.MatterType != "" {
		t, err := models.ParseMatterType(in.MatterType)
		if err != nil {
			return invalid("matter_type", err.Error())
		}
		m.MatterType = t
	}

	m.Status = models.MatterStatusActive
	if in.Status != "" {
		st, err := models.ParseMatterStatus(in.Status)
		if err != nil {
			return invalid("status", err.Error())
		}
		m.Status = st
	}
	return nil
}

// CreateMatterRequest represents a request to create a matter
type CreateMatterRequest struct {
	Input MatterInput
}

// CreateMatterResult represents the result of creating a matter
type CreateMatterResult struct {
	Matter *models.Matter
}

// CreateMatter validates and stores a new matter
func (s *MatterService) CreateMatter(ctx context.Context, req CreateMatterRequest) (*CreateMatterResult, error) {
	if s.matterRepo == nil {
		return nil, errors.New("matter repository not set")
	}

	matter := &models.Matter{}
	if err := req.Input.apply(matter); err != nil {
		return nil, err
	}
	if err := s.matterRepo.Create(ctx, matter); err != nil {
		return nil, err
	}

	return &CreateMatterResult{Matter: matter}, nil
}

// GetMatterRequest represents a request to get a matter
type GetMatterRequest struct {
	ID uuid.UUID
}

// GetMatterResult represents the result of getting a matter
type GetMatterResult struct {
	Matter *models.Matter
}

// GetMatter retrieves a matter by ID
func (s *MatterService) GetMatter(ctx context.Context, req GetMatterRequest) (*GetMatterResult, error) {
	if s.matterRepo == nil {
		return nil, errors.New("matter repository not set")
	}

	matter, err := s.matterRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, matterError(err)
	}

	return &GetMatterResult{Matter: matter}, nil
}

// UpdateMatterRequest represents a request to update a matter
type UpdateMatterRequest struct {
	ID    uuid.UUID
	Input MatterInput
}

// UpdateMatterResult represents the result of updating a matter
type UpdateMatterResult struct {
	Matter *models.Matter
}

// UpdateMatter replaces the editable fields of a matter
func (s *MatterService) UpdateMatter(ctx context.Context, req UpdateMatterRequest) (*UpdateMatterResult, error) {
	if s.matterRepo == nil {
		return nil, errors.New("matter repository not set")
	}

	matter, err := s.matterRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, matterError(err)
	}
	if err := req.Input.apply(matter); err != nil {
		return nil, err
	}
	if err := s.matterRepo.Update(ctx, matter); err != nil {
		return nil, matterError(err)
	}

	return &UpdateMatterResult{Matter: matter}, nil
}

// ListMattersRequest represents a request to list matters
type ListMattersRequest struct {
	Status     string
	MatterType string
	Search     string
	Limit      int
}

// ListMattersResult represents the result of listing matters
type ListMattersResult struct {
	Matters []*models.Matter
}

// ListMatters lists matters most recently updated first
func (s *MatterService) ListMatters(ctx context.Context, req ListMattersRequest) (*ListMattersResult, error) {
	if s.matterRepo == nil {
		return nil, errors.New("matter repository not set")
	}

	filter := models.MatterFilter{Search: strings.TrimSpace(req.Search), Limit: req.Limit}
	if req.Status != "" {
		st, err := models.ParseMatterStatus(req.Status)
		if err != nil {
			return nil, invalid("status", err.Error())
		}
		filter.Status = &st
	}
	if req.MatterType != "" {
		t, err := models.ParseMatterType(req.MatterType)
		if err != nil {
			return nil, invalid("matter_type", err.Error())
		}
		filter.MatterType = &t
	}

	matters, err := s.matterRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListMattersResult{Matters: matters}, nil
}

// MatterDetail is a matter with everything linked to it
type MatterDetail struct {
	Matter      *models.Matter           `json:"matter"`
	Authorities []*models.LegalAuthority `json:"authorities"`
	Issues      []*models.LegalIssue     `json:"issues"`
	Arguments   []*models.Argument       `json:"arguments"`
	Documents   []*models.Document       `json:"documents"`
}

// GetMatterDetail loads a matter and its linked records. Linked lists that
// fail to load are returned empty.
func (s *MatterService) GetMatterDetail(ctx context.Context, id uuid.UUID) (*MatterDetail, error) {
	if s.matterRepo == nil {
		return nil, errors.New("matter repository not set")
	}

	matter, err := s.matterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, matterError(err)
	}

	log := s.logger.With(zap.String("matter_id", id.String()))
	detail := &MatterDetail{
		Matter:      matter,
		Authorities: []*models.LegalAuthority{},
		Issues:      []*models.LegalIssue{},
		Arguments:   []*models.Argument{},
		Documents:   []*models.Document{},
	}

	if s.authorityRepo != nil {
		if rows, err := s.authorityRepo.ListByMatter(ctx, id); err != nil {
			log.Warn("failed to load authorities", zap.Error(err))
		} else {
			detail.Authorities = rows
		}
	}
	if s.issueRepo != nil {
		if rows, err := s.issueRepo.ListByMatter(ctx, id); err != nil {
			log.Warn("failed to load issues", zap.Error(err))
		} else {
			detail.Issues = rows
		}
	}
	if s.argumentRepo != nil {
		if rows, err := s.argumentRepo.ListByMatter(ctx, id); err != nil {
			log.Warn("failed to load arguments", zap.Error(err))
		} else {
			detail.Arguments = rows
		}
	}
	if s.documentRepo != nil {
		if rows, err := s.documentRepo.ListByMatter(ctx, id); err != nil {
			log.Warn("failed to load documents", zap.Error(err))
		} else {
			detail.Documents = rows
		}
	}

	return detail, nil
}

// matterExists reports a missing matter as ErrMatterNotFound
func matterExists(ctx context.Context, repo MatterStore, id uuid.UUID) error {
	if repo == nil {
		return errors.New("matter repository not set")
	}
	if _, err := repo.GetByID(ctx, id); err != nil {
		return matterError(err)
	}
	return nil
}
