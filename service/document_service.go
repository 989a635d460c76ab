package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"jurisai-backend/generation"
	"jurisai-backend/models"
	"jurisai-backend/prompt"
	"jurisai-backend/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DocumentService drives the document generator for one draft session
type DocumentService struct {
	assembler    *ContextAssembler
	generator    *Generator
	documentRepo DocumentStore
	now          func() time.Time
	logger       *zap.Logger
}

// DocumentServiceOption is a functional option for DocumentService
type DocumentServiceOption func(*DocumentService)

// DocumentWithAssembler sets the context assembler
func DocumentWithAssembler(a *ContextAssembler) DocumentServiceOption {
	return func(s *DocumentService) {
		s.assembler = a
	}
}

// DocumentWithGenerator sets the generator
func DocumentWithGenerator(g *Generator) DocumentServiceOption {
	return func(s *DocumentService) {
		s.generator = g
	}
}

// DocumentWithRepository sets the document repository
func DocumentWithRepository(repo DocumentStore) DocumentServiceOption {
	return func(s *DocumentService) {
		s.documentRepo = repo
	}
}

// DocumentWithClock sets the clock used for default titles
func DocumentWithClock(now func() time.Time) DocumentServiceOption {
	return func(s *DocumentService) {
		s.now = now
	}
}

// DocumentWithLogger sets the logger
func DocumentWithLogger(logger *zap.Logger) DocumentServiceOption {
	return func(s *DocumentService) {
		s.logger = logger
	}
}

// NewDocumentService creates a new document service
func NewDocumentService(opts ...DocumentServiceOption) *DocumentService {
	s := &DocumentService{now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DocumentDraftUpdate carries user edits. Nil fields are left unchanged.
type DocumentDraftUpdate struct {
	MatterID      *uuid.UUID
	DocumentType  *string
	Title         *string
	BriefingNotes *string
	Content       *string
	FileIDs       []uuid.UUID
}

// UpdateDraft applies user edits to the document draft
func (s *DocumentService) UpdateDraft(sess *session.Session, req DocumentDraftUpdate) (*session.View, error) {
	var docType models.DocumentType
	if req.DocumentType != nil {
		t, err := models.ParseDocumentType(*req.DocumentType)
		if err != nil {
			return nil, invalid("document_type", err.Error())
		}
		docType = t
	}

	sess.Edit(func(d *session.Drafts) []session.Slot {
		var superseded []session.Slot
		doc := &d.Document
		if req.MatterID != nil {
			if doc.MatterID == nil || *doc.MatterID != *req.MatterID {
				superseded = append(superseded, session.SlotDocument)
			}
			id := *req.MatterID
			doc.MatterID = &id
		}
		if docType != "" {
			doc.DocumentType = docType
		}
		if req.Title != nil {
			doc.Title = *req.Title
		}
		if req.BriefingNotes != nil {
			doc.BriefingNotes = *req.BriefingNotes
		}
		if req.Content != nil {
			doc.Content = *req.Content
			superseded = append(superseded, session.SlotDocument)
		}
		if req.FileIDs != nil {
			doc.FileIDs = append([]uuid.UUID{}, req.FileIDs...)
		}
		return superseded
	})

	view := sess.View()
	return &view, nil
}

// Generate drafts the document from the briefing notes. A matter is required
// so that the saved record has an owner.
func (s *DocumentService) Generate(ctx context.Context, sess *session.Session) (*SessionResult, error) {
	if s.assembler == nil {
		return nil, errors.New("context assembler not set")
	}
	if s.generator == nil {
		return nil, errors.New("generator not set")
	}

	ticket, err := sess.BeginGeneration(session.DocumentGenerate)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*SessionResult, error) {
		sess.Fail(ticket, err)
		return nil, err
	}

	draft := sess.View().Drafts.Document
	if draft.MatterID == nil {
		return fail(invalid("matter_id", "select a matter first"))
	}

	c, err := s.assembler.Assemble(ctx, AssembleRequest{
		Task:     models.TaskDocument,
		MatterID: draft.MatterID,
		FileIDs:  draft.FileIDs,
		Input: prompt.Context{
			DocumentType:  draft.DocumentType,
			BriefingNotes: draft.BriefingNotes,
		},
	})
	if err != nil {
		return fail(err)
	}

	sessionID := sess.ID
	out, err := s.generator.Generate(ctx, models.TaskDocument, c, RunMeta{MatterID: draft.MatterID, SessionID: &sessionID})
	if err != nil {
		return fail(err)
	}

	applied := sess.CompleteGeneration(ticket, func(d *session.Drafts) {
		d.Document.Content = out.Result.Text
	})
	if !applied {
		s.generator.MarkDiscarded(ctx, out.RunID)
	}

	return &SessionResult{Session: sess.View(), Applied: applied, RunID: out.RunID}, nil
}

// SaveDocumentRequest represents a request to save the generated document
type SaveDocumentRequest struct {
	Status string
}

// SaveDocumentResult represents the saved document and the session after it
type SaveDocumentResult struct {
	Document *models.Document `json:"document"`
	Session  session.View     `json:"session"`
}

// Save stores the generated document as a new record. Without a title the
// document type and today's date are used.
func (s *DocumentService) Save(ctx context.Context, sess *session.Session, req SaveDocumentRequest) (*SaveDocumentResult, error) {
	if s.documentRepo == nil {
		return nil, errors.New("document repository not set")
	}

	status := models.DocumentStatusDraft
	switch models.DocumentStatus(req.Status) {
	case "", models.DocumentStatusDraft:
	case models.DocumentStatusReview, models.DocumentStatusFinal:
		status = models.DocumentStatus(req.Status)
	default:
		return nil, invalid("status", "must be Draft, Review or Final")
	}

	ticket, drafts, err := sess.BeginSave(session.DocumentSave)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*SaveDocumentResult, error) {
		sess.Fail(ticket, err)
		return nil, err
	}

	d := drafts.Document
	if d.MatterID == nil {
		return fail(invalid("matter_id", "select a matter first"))
	}
	if strings.TrimSpace(d.Content) == "" {
		return fail(ErrNothingToSave)
	}

	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = DefaultDocumentTitle(d.DocumentType, s.now())
	}

	doc := &models.Document{
		MatterID:     *d.MatterID,
		DocumentType: d.DocumentType,
		Title:        title,
		Content:      d.Content,
		Status:       status,
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		s.logger.Warn("failed to save document",
			zap.String("matter_id", d.MatterID.String()),
			zap.Error(err),
		)
		return fail(err)
	}

	sess.CompleteSave(ticket, func(d *session.Drafts) {
		id := doc.ID
		d.Document.LastSavedID = &id
	})

	return &SaveDocumentResult{Document: doc, Session: sess.View()}, nil
}

// DraftDocumentRequest drafts a document without a session or a stored matter
type DraftDocumentRequest struct {
	DocumentType  models.DocumentType
	BriefingNotes string
	Documents     []prompt.SourceDocument
}

// DraftDocument generates document text directly. It backs the command line.
func (s *DocumentService) DraftDocument(ctx context.Context, req DraftDocumentRequest) (*generation.Result, error) {
	if s.generator == nil {
		return nil, errors.New("generator not set")
	}
	c := &prompt.Context{
		DocumentType:  req.DocumentType,
		BriefingNotes: req.BriefingNotes,
		Documents:     prompt.CapDocuments(req.Documents, prompt.DefaultDocumentCharCap),
	}
	out, err := s.generator.Generate(ctx, models.TaskDocument, c, RunMeta{})
	if err != nil {
		return nil, err
	}
	return out.Result, nil
}
