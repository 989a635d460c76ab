package service

import (
	"context"
	"errors"
	"strings"

	"jurisai-backend/models"

	"github.com/google/uuid"
)

// AuthorityService handles manually entered and listed authorities
type AuthorityService struct {
	authorityRepo AuthorityStore
	matterRepo    MatterStore
}

// AuthorityServiceOption is a functional option for AuthorityService
type AuthorityServiceOption func(*AuthorityService)

// AuthorityWithRepository sets the authority repository
func AuthorityWithRepository(repo AuthorityStore) AuthorityServiceOption {
	return func(s *AuthorityService) {
		s.authorityRepo = repo
	}
}

// AuthorityWithMatterRepository sets the matter repository used to check links
func AuthorityWithMatterRepository(repo MatterStore) AuthorityServiceOption {
	return func(s *AuthorityService) {
		s.matterRepo = repo
	}
}

// NewAuthorityService creates a new authority service
func NewAuthorityService(opts ...AuthorityServiceOption) *AuthorityService {
	s := &AuthorityService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAuthorityRequest represents a request to add an authority by hand
type CreateAuthorityRequest struct {
	MatterID       *uuid.UUID
	Title          string
	Citation       string
	Court          string
	Year           string
	AuthorityType  string
	LegalPrinciple string
	Relevance      string
	KeyQuotes      []string
	Tags           []string
	Validity       string
	URL            *string
}

// CreateAuthority validates and stores an authority
func (s *AuthorityService) CreateAuthority(ctx context.Context, req CreateAuthorityRequest) (*models.LegalAuthority, error) {
	if s.authorityRepo == nil {
		return nil, errors.New("authority repository not set")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title", "is required")
	}
	validity, err := models.ParseValidityStatus(req.Validity)
	if err != nil {
		return nil, invalid("validity", err.Error())
	}
	if req.MatterID != nil && s.matterRepo != nil {
		if err := matterExists(ctx, s.matterRepo, *req.MatterID); err != nil {
			return nil, err
		}
	}

	authority := &models.LegalAuthority{
		MatterID:       req.MatterID,
		Title:          title,
		Citation:       strings.TrimSpace(req.Citation),
		Court:          strings.TrimSpace(req.Court),
		Year:           strings.TrimSpace(req.Year),
		AuthorityType:  models.AuthorityTypeFromSource(req.AuthorityType),
		LegalPrinciple: req.LegalPrinciple,
		Relevance:      req.Relevance,
		KeyQuotes:      nonEmpty(req.KeyQuotes),
		Tags:           nonEmpty(req.Tags),
		Validity:       validity,
		URL:            req.URL,
	}
	if err := s.authorityRepo.Create(ctx, authority); err != nil {
		return nil, err
	}
	return authority, nil
}

// ListAuthorities returns a matter's authorities, or every authority when
// matterID is nil
func (s *AuthorityService) ListAuthorities(ctx context.Context, matterID *uuid.UUID, limit int) ([]*models.LegalAuthority, error) {
	if s.authorityRepo == nil {
		return nil, errors.New("authority repository not set")
	}
	if matterID != nil {
		return s.authorityRepo.ListByMatter(ctx, *matterID)
	}
	return s.authorityRepo.List(ctx, limit)
}

// nonEmpty drops blank entries and never returns nil
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
