package handlers

import (
	"net/http"

	"jurisai-backend/models"
	"jurisai-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResearchHandler handles legal research and judgment analysis
type ResearchHandler struct {
	researchService *service.ResearchService
	judgmentService *service.JudgmentService
	logger          *zap.Logger
}

// NewResearchHandler creates a new research handler
func NewResearchHandler(research *service.ResearchService, judgments *service.JudgmentService, logger *zap.Logger) *ResearchHandler {
	return &ResearchHandler{
		researchService: research,
		judgmentService: judgments,
		logger:          logger,
	}
}

// ResearchRequest represents the request body for a research query
type ResearchRequest struct {
	Query    string  `json:"query"`
	MatterID *string `json:"matter_id"`
}

// Research handles POST /api/research
func (h *ResearchHandler) Research(c *gin.Context) {
	var req ResearchRequest
	if !bindJSON(c, &req) {
		return
	}
	matterID, ok := parseOptionalID(c, req.MatterID, "matter_id")
	if !ok {
		return
	}

	result, err := h.researchService.Research(c.Request.Context(), service.ResearchRequest{
		Query:    req.Query,
		MatterID: matterID,
	})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"summary":     result.Research.Summary,
		"authorities": result.Research.Authorities,
		"issue":       result.Issue,
		"run_id":      result.RunID,
	})
}

// SaveAuthorityRequest represents one suggested authority to keep
type SaveAuthorityRequest struct {
	MatterID  *string                  `json:"matter_id"`
	Authority models.ResearchAuthority `json:"authority"`
}

// SaveAuthority handles POST /api/research/authorities
func (h *ResearchHandler) SaveAuthority(c *gin.Context) {
	var req SaveAuthorityRequest
	if !bindJSON(c, &req) {
		return
	}
	matterID, ok := parseOptionalID(c, req.MatterID, "matter_id")
	if !ok {
		return
	}

	authority, err := h.researchService.SaveAuthority(c.Request.Context(), service.SaveAuthorityRequest{
		Authority: req.Authority,
		MatterID:  matterID,
	})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, authority)
}

// AnalyzeJudgmentRequest represents pasted judgment text or an uploaded file
type AnalyzeJudgmentRequest struct {
	Text     string  `json:"text"`
	FileID   *string `json:"file_id"`
	MatterID *string `json:"matter_id"`
}

// AnalyzeJudgment handles POST /api/judgments/analyze
func (h *ResearchHandler) AnalyzeJudgment(c *gin.Context) {
	var req AnalyzeJudgmentRequest
	if !bindJSON(c, &req) {
		return
	}
	fileID, ok := parseOptionalID(c, req.FileID, "file_id")
	if !ok {
		return
	}
	matterID, ok := parseOptionalID(c, req.MatterID, "matter_id")
	if !ok {
		return
	}

	result, err := h.judgmentService.Analyze(c.Request.Context(), service.AnalyzeJudgmentRequest{
		Text:     req.Text,
		FileID:   fileID,
		MatterID: matterID,
	})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{
		"analysis": result.Analysis,
		"run_id":   result.RunID,
	})
}
