package service

import (
	"context"
	"errors"

	"jurisai-backend/models"
	"jurisai-backend/prompt"
	"jurisai-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextAssembler gathers everything a template needs from the stores
type ContextAssembler struct {
	matters         MatterStore
	authorities     AuthorityStore
	issues          IssueStore
	arguments       ArgumentStore
	texts           TextSource
	documentCharCap int
	logger          *zap.Logger
}

// AssemblerOption is a functional option for ContextAssembler
type AssemblerOption func(*ContextAssembler)

// AssemblerWithMatterRepository sets the matter repository
func AssemblerWithMatterRepository(repo MatterStore) AssemblerOption {
	return func(a *ContextAssembler) {
		a.matters = repo
	}
}

// AssemblerWithAuthorityRepository sets the authority repository
func AssemblerWithAuthorityRepository(repo AuthorityStore) AssemblerOption {
	return func(a *ContextAssembler) {
		a.authorities = repo
	}
}

// AssemblerWithIssueRepository sets the issue repository
func AssemblerWithIssueRepository(repo IssueStore) AssemblerOption {
	return func(a *ContextAssembler) {
		a.issues = repo
	}
}

// AssemblerWithArgumentRepository sets the argument repository
func AssemblerWithArgumentRepository(repo ArgumentStore) AssemblerOption {
	return func(a *ContextAssembler) {
		a.arguments = repo
	}
}

// AssemblerWithTextSource sets where uploaded document text comes from
func AssemblerWithTextSource(src TextSource) AssemblerOption {
	return func(a *ContextAssembler) {
		a.texts = src
	}
}

// AssemblerWithDocumentCharCap sets the per-document character cap
func AssemblerWithDocumentCharCap(n int) AssemblerOption {
	return func(a *ContextAssembler) {
		if n > 0 {
			a.documentCharCap = n
		}
	}
}

// AssemblerWithLogger sets the logger
func AssemblerWithLogger(logger *zap.Logger) AssemblerOption {
	return func(a *ContextAssembler) {
		a.logger = logger
	}
}

// NewContextAssembler creates a new context assembler
func NewContextAssembler(opts ...AssemblerOption) *ContextAssembler {
	a := &ContextAssembler{
		documentCharCap: prompt.DefaultDocumentCharCap,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AssembleRequest selects what to load for one generation
type AssembleRequest struct {
	Task     models.Task
	MatterID *uuid.UUID
	IssueID  *uuid.UUID
	// AuthorityIDs narrows the matter's authorities to a selection. Empty keeps all.
	AuthorityIDs []uuid.UUID
	FileIDs      []uuid.UUID
	// Input carries the free text fields and is copied into the result
	Input prompt.Context
}

func isArgumentTask(t models.Task) bool {
	return t == models.TaskArgument || t == models.TaskArgumentStructure || t == models.TaskCorrectFacts
}

// Assemble builds a prompt context. Only the matter fetch is required; every
// other lookup degrades to an absent slot and is logged.
func (a *ContextAssembler) Assemble(ctx context.Context, req AssembleRequest) (*prompt.Context, error) {
	c := req.Input
	log := a.logger.With(zap.String("task", string(req.Task)))

	if req.MatterID != nil {
		if a.matters == nil {
			return nil, errors.New("matter repository not set")
		}
		matter, err := a.matters.GetByID(ctx, *req.MatterID)
		if err != nil {
			return nil, matterError(err)
		}
		c.Matter = matter
		log = log.With(zap.String("matter_id", matter.ID.String()))

		c.Authorities = a.loadAuthorities(ctx, log, matter.ID, req.AuthorityIDs)
		c.Issues = a.loadIssues(ctx, log, matter.ID)
		if isArgumentTask(req.Task) {
			c.LatestArgument = a.latestArgument(ctx, log, matter.ID)
		}
	}

	if req.IssueID != nil && a.issues != nil {
		issue, err := a.issues.GetByID(ctx, *req.IssueID)
		if err != nil {
			log.Warn("failed to load issue", zap.String("issue_id", req.IssueID.String()), zap.Error(err))
		} else {
			c.Issue = issue
		}
	}

	docs := append([]prompt.SourceDocument{}, c.Documents...)
	docs = append(docs, a.loadDocuments(ctx, log, req.FileIDs)...)
	c.Documents = prompt.CapDocuments(docs, a.documentCharCap)

	return &c, nil
}

func (a *ContextAssembler) loadAuthorities(ctx context.Context, log *zap.Logger, matterID uuid.UUID, only []uuid.UUID) []models.LegalAuthority {
	if a.authorities == nil {
		return nil
	}
	rows, err := a.authorities.ListByMatter(ctx, matterID)
	if err != nil {
		log.Warn("failed to load authorities", zap.Error(err))
		return nil
	}

	keep := make(map[uuid.UUID]bool, len(only))
	for _, id := range only {
		keep[id] = true
	}
	out := make([]models.LegalAuthority, 0, len(rows))
	for _, row := range rows {
		if len(keep) > 0 && !keep[row.ID] {
			continue
		}
		out = append(out, *row)
	}
	return out
}

func (a *ContextAssembler) loadIssues(ctx context.Context, log *zap.Logger, matterID uuid.UUID) []models.LegalIssue {
	if a.issues == nil {
		return nil
	}
	rows, err := a.issues.ListByMatter(ctx, matterID)
	if err != nil {
		log.Warn("failed to load issues", zap.Error(err))
		return nil
	}
	out := make([]models.LegalIssue, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out
}

func (a *ContextAssembler) latestArgument(ctx context.Context, log *zap.Logger, matterID uuid.UUID) *models.Argument {
	if a.arguments == nil {
		return nil
	}
	latest, err := a.arguments.Latest(ctx, matterID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn("failed to load latest argument", zap.Error(err))
		}
		return nil
	}
	return latest
}

func (a *ContextAssembler) loadDocuments(ctx context.Context, log *zap.Logger, fileIDs []uuid.UUID) []prompt.SourceDocument {
	if a.texts == nil || len(fileIDs) == 0 {
		return nil
	}
	docs := make([]prompt.SourceDocument, 0, len(fileIDs))
	for _, id := range fileIDs {
		name, text, err := a.texts.ExtractText(ctx, id)
		if err != nil {
			log.Warn("failed to extract document", zap.String("file_id", id.String()), zap.Error(err))
			continue
		}
		docs = append(docs, prompt.SourceDocument{Name: name, Text: text})
	}
	return docs
}

// ArgumentPreload is the draft content a matter selection writes
type ArgumentPreload struct {
	Matter      *models.Matter
	Latest      *models.Argument
	Position    models.Position
	FactPattern string
	Expansions  models.FactExpansions
}

// Preload loads the latest saved argument for a matter, falling back to
// defaults derived from the matter itself
func (a *ContextAssembler) Preload(ctx context.Context, matterID uuid.UUID) (*ArgumentPreload, error) {
	if a.matters == nil {
		return nil, errors.New("matter repository not set")
	}
	matter, err := a.matters.GetByID(ctx, matterID)
	if err != nil {
		return nil, matterError(err)
	}

	log := a.logger.With(zap.String("matter_id", matterID.String()))
	if latest := a.latestArgument(ctx, log, matterID); latest != nil {
		position := latest.Position
		if position == "" {
			position = models.PositionClaimant
		}
		return &ArgumentPreload{
			Matter:      matter,
			Latest:      latest,
			Position:    position,
			FactPattern: latest.FactPattern,
			Expansions:  latest.FactExpansions,
		}, nil
	}

	return &ArgumentPreload{
		Matter:      matter,
		Position:    models.PositionClaimant,
		FactPattern: matter.Description,
	}, nil
}
