package handlers

import (
	"context"
	"net/http"
	"strconv"

	"jurisai-backend/models"
	"jurisai-backend/service"
	"jurisai-backend/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler handles the argument builder and document generator sessions
type SessionHandler struct {
	sessions        *session.Manager
	argumentService *service.ArgumentService
	documentService *service.DocumentService
	logger          *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Manager, arguments *service.ArgumentService, documents *service.DocumentService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:        sessions,
		argumentService: arguments,
		documentService: documents,
		logger:          logger,
	}
}

// session resolves the :id path parameter to a live session
func (h *SessionHandler) session(c *gin.Context) (*session.Session, bool) {
	id, ok := parseID(c, "id", "session")
	if !ok {
		return nil, false
	}
	sess, err := h.sessions.Get(id)
	if err != nil {
		respondErr(c, h.logger, err)
		return nil, false
	}
	return sess, true
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	sess := h.sessions.Create()
	respondOK(c, http.StatusCreated, sess.View())
}

// GetSession handles GET /api/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	respondOK(c, http.StatusOK, sess.View())
}

// CloseSession handles DELETE /api/sessions/:id. Unsaved results block the
// close unless force=true.
func (h *SessionHandler) CloseSession(c *gin.Context) {
	id, ok := parseID(c, "id", "session")
	if !ok {
		return
	}
	force, _ := strconv.ParseBool(c.Query("force"))
	if err := h.sessions.Close(id, force); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id, "closed": true})
}

// SelectMatterRequest represents the matter chosen in the argument builder
type SelectMatterRequest struct {
	MatterID string `json:"matter_id" binding:"required"`
}

// SelectArgumentMatter handles POST /api/sessions/:id/argument/matter
func (h *SessionHandler) SelectArgumentMatter(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req SelectMatterRequest
	if !bindJSON(c, &req) {
		return
	}
	matterID, ok := parseOptionalID(c, &req.MatterID, "matter_id")
	if !ok {
		return
	}

	view, err := h.argumentService.SelectMatter(c.Request.Context(), sess, *matterID)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, view)
}

// UpdateArgumentRequest represents edits to the argument draft. Omitted fields are kept.
type UpdateArgumentRequest struct {
	Position     *string                `json:"position"`
	FactPattern  *string                `json:"fact_pattern"`
	Expansions   *models.FactExpansions `json:"fact_expansions"`
	ArgumentText *string                `json:"argument_text"`
	AuthorityIDs []string               `json:"authority_ids"`
	FileIDs      []string               `json:"file_ids"`
}

// UpdateArgument handles PUT /api/sessions/:id/argument
func (h *SessionHandler) UpdateArgument(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req UpdateArgumentRequest
	if !bindJSON(c, &req) {
		return
	}
	authorityIDs, ok := parseIDs(c, req.AuthorityIDs, "authority_ids")
	if !ok {
		return
	}
	fileIDs, ok := parseIDs(c, req.FileIDs, "file_ids")
	if !ok {
		return
	}

	view, err := h.argumentService.UpdateDraft(sess, service.ArgumentDraftUpdate{
		Position:     req.Position,
		FactPattern:  req.FactPattern,
		Expansions:   req.Expansions,
		ArgumentText: req.ArgumentText,
		AuthorityIDs: authorityIDs,
		FileIDs:      fileIDs,
	})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, view)
}

// GenerateArgument handles POST /api/sessions/:id/argument/generate
func (h *SessionHandler) GenerateArgument(c *gin.Context) {
	h.generate(c, h.argumentService.Generate)
}

// StructureArgument handles POST /api/sessions/:id/argument/structure
func (h *SessionHandler) StructureArgument(c *gin.Context) {
	h.generate(c, h.argumentService.GenerateStructure)
}

// CoachArgument handles POST /api/sessions/:id/argument/coach
func (h *SessionHandler) CoachArgument(c *gin.Context) {
	h.generate(c, h.argumentService.Coach)
}

// GenerateDocument handles POST /api/sessions/:id/document/generate
func (h *SessionHandler) GenerateDocument(c *gin.Context) {
	h.generate(c, h.documentService.Generate)
}

// CorrectFactsRequest represents the user's factual corrections
type CorrectFactsRequest struct {
	Corrections string `json:"corrections"`
}

// CorrectFacts handles POST /api/sessions/:id/argument/correct-facts
func (h *SessionHandler) CorrectFacts(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req CorrectFactsRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.argumentService.CorrectFacts(c.Request.Context(), sess, req.Corrections)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

func (h *SessionHandler) generate(c *gin.Context, run func(ctx context.Context, sess *session.Session) (*service.SessionResult, error)) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	result, err := run(c.Request.Context(), sess)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// SaveRequest represents the status to save a draft with
type SaveRequest struct {
	Status string `json:"status"`
}

// SaveArgument handles POST /api/sessions/:id/argument/save
func (h *SessionHandler) SaveArgument(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req SaveRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.argumentService.Save(c.Request.Context(), sess, service.SaveArgumentRequest{Status: req.Status})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, result)
}

// UpdateDocumentRequest represents edits to the document draft. Omitted fields are kept.
type UpdateDocumentRequest struct {
	MatterID      *string  `json:"matter_id"`
	DocumentType  *string  `json:"document_type"`
	Title         *string  `json:"title"`
	BriefingNotes *string  `json:"briefing_notes"`
	Content       *string  `json:"content"`
	FileIDs       []string `json:"file_ids"`
}

// UpdateDocument handles PUT /api/sessions/:id/document
func (h *SessionHandler) UpdateDocument(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req UpdateDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	matterID, ok := parseOptionalID(c, req.MatterID, "matter_id")
	if !ok {
		return
	}
	fileIDs, ok := parseIDs(c, req.FileIDs, "file_ids")
	if !ok {
		return
	}

	view, err := h.documentService.UpdateDraft(sess, service.DocumentDraftUpdate{
		MatterID:      matterID,
		DocumentType:  req.DocumentType,
		Title:         req.Title,
		BriefingNotes: req.BriefingNotes,
		Content:       req.Content,
		FileIDs:       fileIDs,
	})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, view)
}

// SaveDocument handles POST /api/sessions/:id/document/save
func (h *SessionHandler) SaveDocument(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req SaveRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.documentService.Save(c.Request.Context(), sess, service.SaveDocumentRequest{Status: req.Status})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, result)
}
