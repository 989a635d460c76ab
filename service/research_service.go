package service

import (
	"context"
	"errors"
	"strings"

	"jurisai-backend/models"
	"jurisai-backend/prompt"
	"jurisai-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResearchService runs legal research queries and saves suggested authorities
type ResearchService struct {
	assembler     *ContextAssembler
	generator     *Generator
	issueRepo     IssueStore
	authorityRepo AuthorityStore
	logger        *zap.Logger
}

// ResearchServiceOption is a functional option for ResearchService
type ResearchServiceOption func(*ResearchService)

// ResearchWithAssembler sets the context assembler
func ResearchWithAssembler(a *ContextAssembler) ResearchServiceOption {
	return func(s *ResearchService) {
		s.assembler = a
	}
}

// ResearchWithGenerator sets the generator
func ResearchWithGenerator(g *Generator) ResearchServiceOption {
	return func(s *ResearchService) {
		s.generator = g
	}
}

// ResearchWithIssueRepository sets the issue repository
func ResearchWithIssueRepository(repo IssueStore) ResearchServiceOption {
	return func(s *ResearchService) {
		s.issueRepo = repo
	}
}

// ResearchWithAuthorityRepository sets the authority repository
func ResearchWithAuthorityRepository(repo AuthorityStore) ResearchServiceOption {
	return func(s *ResearchService) {
		s.authorityRepo = repo
	}
}

// ResearchWithLogger sets the logger
func ResearchWithLogger(logger *zap.Logger) ResearchServiceOption {
	return func(s *ResearchService) {
		s.logger = logger
	}
}

// NewResearchService creates a new research service
func NewResearchService(opts ...ResearchServiceOption) *ResearchService {
	s := &ResearchService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ResearchRequest represents a research query
type ResearchRequest struct {
	Query    string
	MatterID *uuid.UUID
}

// ResearchResult represents the outcome of a research query
type ResearchResult struct {
	Research *models.ResearchResult
	// Issue is the tracked issue for the query, when a matter was selected
	Issue *models.LegalIssue
	RunID *uuid.UUID
}

// Research asks the model for authorities on a question of law. With a matter
// selected the query is also tracked as a legal issue; issue tracking failures
// are logged and do not fail the query.
func (s *ResearchService) Research(ctx context.Context, req ResearchRequest) (*ResearchResult, error) {
	if s.assembler == nil {
		return nil, errors.New("context assembler not set")
	}
	if s.generator == nil {
		return nil, errors.New("generator not set")
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, invalid("query", "enter a legal issue to research")
	}

	c, err := s.assembler.Assemble(ctx, AssembleRequest{
		Task:     models.TaskResearch,
		MatterID: req.MatterID,
		Input:    prompt.Context{Query: query},
	})
	if err != nil {
		return nil, err
	}

	out, err := s.generator.Generate(ctx, models.TaskResearch, c, RunMeta{MatterID: req.MatterID})
	if err != nil {
		return nil, err
	}
	research, err := ProjectResearch(out.Result)
	if err != nil {
		return nil, err
	}

	result := &ResearchResult{Research: research, RunID: out.RunID}
	if req.MatterID != nil {
		result.Issue = s.trackIssue(ctx, *req.MatterID, query, research.Summary)
	}
	return result, nil
}

// trackIssue creates or refreshes the issue for query
func (s *ResearchService) trackIssue(ctx context.Context, matterID uuid.UUID, query, summary string) *models.LegalIssue {
	if s.issueRepo == nil {
		return nil
	}
	log := s.logger.With(zap.String("matter_id", matterID.String()))
	question := DeriveTitle(query, 0)

	issue, err := s.issueRepo.FindByQuestion(ctx, matterID, question)
	switch {
	case err == nil:
		issue.Summary = summary
		issue.Status = models.IssueStatusResearched
		if err := s.issueRepo.Update(ctx, issue); err != nil {
			log.Warn("failed to update legal issue", zap.Error(err))
			return nil
		}
		return issue
	case errors.Is(err, repository.ErrNotFound):
		issue = &models.LegalIssue{
			MatterID: matterID,
			Question: question,
			Summary:  summary,
			Status:   models.IssueStatusResearched,
		}
		if err := s.issueRepo.Create(ctx, issue); err != nil {
			log.Warn("failed to create legal issue", zap.Error(err))
			return nil
		}
		return issue
	default:
		log.Warn("failed to look up legal issue", zap.Error(err))
		return nil
	}
}

// SaveAuthorityRequest saves one authority from a research result
type SaveAuthorityRequest struct {
	Authority models.ResearchAuthority
	MatterID  *uuid.UUID
}

// SaveAuthority stores a suggested authority. The matter link is left empty
// when research ran without a matter.
func (s *ResearchService) SaveAuthority(ctx context.Context, req SaveAuthorityRequest) (*models.LegalAuthority, error) {
	if s.authorityRepo == nil {
		return nil, errors.New("authority repository not set")
	}
	if strings.TrimSpace(req.Authority.Title) == "" && strings.TrimSpace(req.Authority.Citation) == "" {
		return nil, invalid("authority", "title or citation is required")
	}

	authority := AuthorityFromResearch(req.Authority, req.MatterID)
	if err := s.authorityRepo.Create(ctx, authority); err != nil {
		return nil, err
	}
	return authority, nil
}
