package service

import (
	"context"
	"errors"
	"strings"

	"jurisai-backend/generation"
	"jurisai-backend/models"
	"jurisai-backend/prompt"
	"jurisai-backend/repository"
	"jurisai-backend/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ArgumentService drives the argument builder for one draft session
type ArgumentService struct {
	assembler    *ContextAssembler
	generator    *Generator
	argumentRepo ArgumentStore
	logger       *zap.Logger
}

// ArgumentServiceOption is a functional option for ArgumentService
type ArgumentServiceOption func(*ArgumentService)

// ArgumentWithAssembler sets the context assembler
func ArgumentWithAssembler(a *ContextAssembler) ArgumentServiceOption {
	return func(s *ArgumentService) {
		s.assembler = a
	}
}

// ArgumentWithGenerator sets the generator
func ArgumentWithGenerator(g *Generator) ArgumentServiceOption {
	return func(s *ArgumentService) {
		s.generator = g
	}
}

// ArgumentWithRepository sets the argument repository
func ArgumentWithRepository(repo ArgumentStore) ArgumentServiceOption {
	return func(s *ArgumentService) {
		s.argumentRepo = repo
	}
}

// ArgumentWithLogger sets the logger
func ArgumentWithLogger(logger *zap.Logger) ArgumentServiceOption {
	return func(s *ArgumentService) {
		s.logger = logger
	}
}

// NewArgumentService creates a new argument service
func NewArgumentService(opts ...ArgumentServiceOption) *ArgumentService {
	s := &ArgumentService{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionResult is the session after a generation settled
type SessionResult struct {
	Session session.View `json:"session"`
	// Applied is false when a newer request on the same slot superseded this one
	Applied bool       `json:"applied"`
	RunID   *uuid.UUID `json:"run_id,omitempty"`
}

// SelectMatter points the draft at a matter and overwrites its fact pattern,
// position and expansions from the latest saved version, or from the matter
// itself when nothing has been saved yet
func (s *ArgumentService) SelectMatter(ctx context.Context, sess *session.Session, matterID uuid.UUID) (*session.View, error) {
	if s.assembler == nil {
		return nil, errors.New("context assembler not set")
	}

	preload, err := s.assembler.Preload(ctx, matterID)
	if err != nil {
		return nil, err
	}

	// results still running for the previous matter must not land here
	sess.Edit(func(d *session.Drafts) []session.Slot {
		id := matterID
		d.Argument = session.ArgumentDraft{
			MatterID:     &id,
			Position:     preload.Position,
			FactPattern:  preload.FactPattern,
			Expansions:   preload.Expansions,
			AuthorityIDs: []uuid.UUID{},
			FileIDs:      d.Argument.FileIDs,
		}
		if preload.Latest != nil {
			latestID := preload.Latest.ID
			d.Argument.ArgumentText = preload.Latest.ArgumentText
			d.Argument.AuthorityIDs = append([]uuid.UUID{}, preload.Latest.Authorities...)
			d.Argument.LastSavedID = &latestID
		}
		return []session.Slot{session.SlotArgumentText, session.SlotCoaching}
	})

	view := sess.View()
	return &view, nil
}

// ArgumentDraftUpdate carries user edits. Nil fields are left unchanged.
type ArgumentDraftUpdate struct {
	Position     *string
	FactPattern  *string
	Expansions   *models.FactExpansions
	ArgumentText *string
	AuthorityIDs []uuid.UUID
	FileIDs      []uuid.UUID
}

// UpdateDraft applies user edits to the argument draft
func (s *ArgumentService) UpdateDraft(sess *session.Session, req ArgumentDraftUpdate) (*session.View, error) {
	var position models.Position
	if req.Position != nil {
		p, err := models.ParsePosition(*req.Position)
		if err != nil {
			return nil, invalid("position", err.Error())
		}
		position = p
	}

	sess.Edit(func(d *session.Drafts) []session.Slot {
		var superseded []session.Slot
		a := &d.Argument
		if position != "" {
			a.Position = position
		}
		if req.FactPattern != nil {
			a.FactPattern = *req.FactPattern
		}
		if req.Expansions != nil {
			a.Expansions = *req.Expansions
		}
		if req.ArgumentText != nil {
			a.ArgumentText = *req.ArgumentText
			superseded = append(superseded, session.SlotArgumentText)
		}
		if req.AuthorityIDs != nil {
			a.AuthorityIDs = append([]uuid.UUID{}, req.AuthorityIDs...)
		}
		if req.FileIDs != nil {
			a.FileIDs = append([]uuid.UUID{}, req.FileIDs...)
		}
		return superseded
	})

	view := sess.View()
	return &view, nil
}

// Generate drafts the full argument as markdown
func (s *ArgumentService) Generate(ctx context.Context, sess *session.Session) (*SessionResult, error) {
	return s.run(ctx, sess, session.ArgumentGenerate, models.TaskArgument, "", func(r *generation.Result) (func(*session.Drafts), error) {
		return func(d *session.Drafts) {
			d.Argument.ArgumentText = r.Text
			d.Argument.Structure = nil
		}, nil
	})
}

// GenerateStructure drafts the argument as a structured outline. The full
// markdown, when returned, replaces the draft text.
func (s *ArgumentService) GenerateStructure(ctx context.Context, sess *session.Session) (*SessionResult, error) {
	return s.run(ctx, sess, session.ArgumentStructure, models.TaskArgumentStructure, "", func(r *generation.Result) (func(*session.Drafts), error) {
		structure, err := ProjectArgumentStructure(r)
		if err != nil {
			return nil, err
		}
		return func(d *session.Drafts) {
			d.Argument.Structure = structure
			if strings.TrimSpace(structure.FullArgumentMarkdown) != "" {
				d.Argument.ArgumentText = structure.FullArgumentMarkdown
			}
		}, nil
	})
}

// CorrectFacts revises the current draft against fact corrections
func (s *ArgumentService) CorrectFacts(ctx context.Context, sess *session.Session, corrections string) (*SessionResult, error) {
	if strings.TrimSpace(corrections) == "" {
		return nil, invalid("corrections", "describe the facts to correct")
	}
	return s.run(ctx, sess, session.ArgumentCorrectFacts, models.TaskCorrectFacts, corrections, func(r *generation.Result) (func(*session.Drafts), error) {
		return func(d *session.Drafts) {
			d.Argument.ArgumentText = r.Text
		}, nil
	})
}

// Coach asks for feedback on the draft. It needs a fact pattern or argument.
func (s *ArgumentService) Coach(ctx context.Context, sess *session.Session) (*SessionResult, error) {
	return s.run(ctx, sess, session.ArgumentCoach, models.TaskCoaching, "", func(r *generation.Result) (func(*session.Drafts), error) {
		feedback, err := ProjectCoaching(r)
		if err != nil {
			return nil, err
		}
		return func(d *session.Drafts) {
			d.Argument.Coaching = feedback
		}, nil
	})
}

// projection turns a model result into a draft edit
type projection func(*generation.Result) (func(*session.Drafts), error)

func (s *ArgumentService) run(
	ctx context.Context,
	sess *session.Session,
	control session.Control,
	task models.Task,
	corrections string,
	project projection,
) (*SessionResult, error) {
	if s.assembler == nil {
		return nil, errors.New("context assembler not set")
	}
	if s.generator == nil {
		return nil, errors.New("generator not set")
	}

	ticket, err := sess.BeginGeneration(control)
	if err != nil {
		return nil, err
	}
	log := s.logger.With(zap.String("control", control.Name), zap.String("session_id", sess.ID.String()))

	draft := sess.View().Drafts.Argument
	c, err := s.assembler.Assemble(ctx, AssembleRequest{
		Task:         task,
		MatterID:     draft.MatterID,
		AuthorityIDs: draft.AuthorityIDs,
		FileIDs:      draft.FileIDs,
		Input: prompt.Context{
			Position:     draft.Position,
			FactPattern:  draft.FactPattern,
			Expansions:   draft.Expansions,
			ArgumentText: draft.ArgumentText,
			Corrections:  corrections,
		},
	})
	if err != nil {
		sess.Fail(ticket, err)
		return nil, err
	}

	sessionID := sess.ID
	out, err := s.generator.Generate(ctx, task, c, RunMeta{MatterID: draft.MatterID, SessionID: &sessionID})
	if err != nil {
		sess.Fail(ticket, err)
		return nil, err
	}

	apply, err := project(out.Result)
	if err != nil {
		sess.Fail(ticket, err)
		return nil, err
	}

	applied := sess.CompleteGeneration(ticket, apply)
	if !applied {
		log.Info("discarded stale generation result")
		s.generator.MarkDiscarded(ctx, out.RunID)
	}

	return &SessionResult{Session: sess.View(), Applied: applied, RunID: out.RunID}, nil
}

// SaveArgumentRequest represents a request to save the draft as a new version
type SaveArgumentRequest struct {
	Status string
}

// SaveArgumentResult represents the saved version and the session after it
type SaveArgumentResult struct {
	Argument *models.Argument `json:"argument"`
	Session  session.View     `json:"session"`
}

// Save appends a new version for the draft's matter. The version number is
// one past the latest stored version; a concurrent save of the same number
// fails with repository.ErrVersionConflict.
func (s *ArgumentService) Save(ctx context.Context, sess *session.Session, req SaveArgumentRequest) (*SaveArgumentResult, error) {
	if s.argumentRepo == nil {
		return nil, errors.New("argument repository not set")
	}

	status := models.ArgumentStatusDraft
	switch models.ArgumentStatus(req.Status) {
	case "", models.ArgumentStatusDraft:
	case models.ArgumentStatusFinal:
		status = models.ArgumentStatusFinal
	default:
		return nil, invalid("status", "must be Draft or Final")
	}

	ticket, drafts, err := sess.BeginSave(session.ArgumentSave)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*SaveArgumentResult, error) {
		sess.Fail(ticket, err)
		return nil, err
	}

	d := drafts.Argument
	if d.MatterID == nil {
		return fail(invalid("matter_id", "select a matter first"))
	}
	if strings.TrimSpace(d.ArgumentText) == "" {
		return fail(ErrNothingToSave)
	}

	latest, err := s.argumentRepo.Latest(ctx, *d.MatterID)
	if errors.Is(err, repository.ErrNotFound) {
		latest, err = nil, nil
	}
	if err != nil {
		return fail(err)
	}
	version, parent := NextVersion(latest)

	authorities := d.AuthorityIDs
	if authorities == nil {
		authorities = []uuid.UUID{}
	}
	argument := &models.Argument{
		MatterID:        *d.MatterID,
		VersionNumber:   version,
		Position:        d.Position,
		FactPattern:     d.FactPattern,
		FactExpansions:  d.Expansions,
		ArgumentText:    d.ArgumentText,
		Authorities:     authorities,
		Status:          status,
		ParentVersionID: parent,
	}
	if err := s.argumentRepo.Create(ctx, argument); err != nil {
		s.logger.Warn("failed to save argument version",
			zap.String("matter_id", d.MatterID.String()),
			zap.Int("version_number", version),
			zap.Error(err),
		)
		return fail(err)
	}

	sess.CompleteSave(ticket, func(d *session.Drafts) {
		id := argument.ID
		d.Argument.LastSavedID = &id
	})

	return &SaveArgumentResult{Argument: argument, Session: sess.View()}, nil
}
