package handlers

import (
	"net/http"
	"strconv"

	"jurisai-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MatterHandler handles HTTP requests for matters, authorities and insights
type MatterHandler struct {
	matterService    *service.MatterService
	authorityService *service.AuthorityService
	analyticsService *service.AnalyticsService
	logger           *zap.Logger
}

// NewMatterHandler creates a new matter handler
func NewMatterHandler(matters *service.MatterService, authorities *service.AuthorityService, analytics *service.AnalyticsService, logger *zap.Logger) *MatterHandler {
	return &MatterHandler{
		matterService:    matters,
		authorityService: authorities,
		analyticsService: analytics,
		logger:           logger,
	}
}

// MatterRequest represents the request body for creating or replacing a matter
type MatterRequest struct {
	Reference   string `json:"matter_reference"`
	Name        string `json:"matter_name"`
	Client      string `json:"client_name"`
	Court       string `json:"court"`
	MatterType  string `json:"matter_type"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

func (r MatterRequest) input() service.MatterInput {
	return service.MatterInput{
		Reference:   r.Reference,
		Name:        r.Name,
		Client:      r.Client,
		Court:       r.Court,
		MatterType:  r.MatterType,
		Status:      r.Status,
		Description: r.Description,
	}
}

// CreateMatter handles POST /api/matters
func (h *MatterHandler) CreateMatter(c *gin.Context) {
	var req MatterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.matterService.CreateMatter(c.Request.Context(), service.CreateMatterRequest{Input: req.input()})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, result.Matter)
}

// ListMatters handles GET /api/matters
func (h *MatterHandler) ListMatters(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a number")
		return
	}

	result, err := h.matterService.ListMatters(c.Request.Context(), service.ListMattersRequest{
		Status:     c.Query("status"),
		MatterType: c.Query("type"),
		Search:     c.Query("q"),
		Limit:      limit,
	})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, result.Matters)
}

// GetMatter handles GET /api/matters/:id
func (h *MatterHandler) GetMatter(c *gin.Context) {
	id, ok := parseID(c, "id", "matter")
	if !ok {
		return
	}

	result, err := h.matterService.GetMatter(c.Request.Context(), service.GetMatterRequest{ID: id})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, result.Matter)
}

// UpdateMatter handles PUT /api/matters/:id
func (h *MatterHandler) UpdateMatter(c *gin.Context) {
	id, ok := parseID(c, "id", "matter")
	if !ok {
		return
	}
	var req MatterRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.matterService.UpdateMatter(c.Request.Context(), service.UpdateMatterRequest{ID: id, Input: req.input()})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, result.Matter)
}

// GetMatterDetail handles GET /api/matters/:id/detail
func (h *MatterHandler) GetMatterDetail(c *gin.Context) {
	id, ok := parseID(c, "id", "matter")
	if !ok {
		return
	}

	detail, err := h.matterService.GetMatterDetail(c.Request.Context(), id)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, detail)
}

// CreateAuthorityRequest represents the request body for adding an authority by hand
type CreateAuthorityRequest struct {
	MatterID       *string  `json:"matter_id"`
	Title          string   `json:"title"`
	Citation       string   `json:"citation"`
	Court          string   `json:"court"`
	Year           string   `json:"year"`
	AuthorityType  string   `json:"authority_type"`
	LegalPrinciple string   `json:"legal_principle"`
	Relevance      string   `json:"relevance"`
	KeyQuotes      []string `json:"key_quotes"`
	Tags           []string `json:"tags"`
	Validity       string   `json:"validity"`
	URL            *string  `json:"url"`
}

// CreateAuthority handles POST /api/authorities
func (h *MatterHandler) CreateAuthority(c *gin.Context) {
	var req CreateAuthorityRequest
	if !bindJSON(c, &req) {
		return
	}
	matterID, ok := parseOptionalID(c, req.MatterID, "matter_id")
	if !ok {
		return
	}

	authority, err := h.authorityService.CreateAuthority(c.Request.Context(), service.CreateAuthorityRequest{
		MatterID:       matterID,
		Title:          req.Title,
		Citation:       req.Citation,
		Court:          req.Court,
		Year:           req.Year,
		AuthorityType:  req.AuthorityType,
		LegalPrinciple: req.LegalPrinciple,
		Relevance:      req.Relevance,
		KeyQuotes:      req.KeyQuotes,
		Tags:           req.Tags,
		Validity:       req.Validity,
		URL:            req.URL,
	})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusCreated, authority)
}

// ListAuthorities handles GET /api/authorities
func (h *MatterHandler) ListAuthorities(c *gin.Context) {
	raw := c.Query("matter_id")
	matterID, ok := parseOptionalID(c, &raw, "matter_id")
	if !ok {
		return
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a number")
		return
	}

	authorities, err := h.authorityService.ListAuthorities(c.Request.Context(), matterID, limit)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, authorities)
}

// Dashboard handles GET /api/dashboard
func (h *MatterHandler) Dashboard(c *gin.Context) {
	d, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, d)
}

// Analytics handles GET /api/analytics
func (h *MatterHandler) Analytics(c *gin.Context) {
	a, err := h.analyticsService.Analytics(c.Request.Context())
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, a)
}

func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
