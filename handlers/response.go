// Package handlers exposes the JurisAI services over HTTP with gin.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"jurisai-backend/generation"
	"jurisai-backend/repository"
	"jurisai-backend/service"
	"jurisai-backend/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondOK writes the success envelope
func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError writes the failure envelope
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondErr maps a service error onto a status and error code
func respondErr(c *gin.Context, logger *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error())
	case errors.Is(err, service.ErrNothingToSave):
		respondError(c, http.StatusBadRequest, "NOTHING_TO_SAVE", err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, service.ErrFileTypeDenied):
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", err.Error())
	case errors.Is(err, service.ErrMatterNotFound):
		respondError(c, http.StatusNotFound, "MATTER_NOT_FOUND", "Matter not found")
	case errors.Is(err, service.ErrFileNotFound):
		respondError(c, http.StatusNotFound, "FILE_NOT_FOUND", "File not found")
	case errors.Is(err, session.ErrNotFound):
		respondError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found or expired")
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
	case errors.Is(err, session.ErrInFlight):
		respondError(c, http.StatusConflict, "IN_FLIGHT", err.Error())
	case errors.Is(err, session.ErrUnsavedChanges):
		respondError(c, http.StatusConflict, "UNSAVED_CHANGES", err.Error())
	case errors.Is(err, repository.ErrVersionConflict):
		respondError(c, http.StatusConflict, "VERSION_CONFLICT", "Another version was saved first; save again")
	case errors.Is(err, generation.ErrGenerationFailed):
		logger.Warn("generation failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusBadGateway, "GENERATION_FAILED", err.Error())
	case errors.Is(err, service.ErrExtractionFailed):
		respondError(c, http.StatusBadGateway, "EXTRACTION_FAILED", err.Error())
	default:
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

// parseID reads a uuid path parameter, writing a 400 when malformed
func parseID(c *gin.Context, param, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+what+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// parseOptionalID parses an optional uuid from a body or query field
func parseOptionalID(c *gin.Context, raw *string, field string) (*uuid.UUID, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+field+" format")
		return nil, false
	}
	return &id, true
}

// parseIDs parses a list of uuids from a body field
func parseIDs(c *gin.Context, raw []string, field string) ([]uuid.UUID, bool) {
	if raw == nil {
		return nil, true
	}
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+field+" format")
			return nil, false
		}
		out = append(out, id)
	}
	return out, true
}

// bindJSON binds the request body, writing a 400 on malformed input
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints where the body may be empty
func bindOptionalJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return false
	}
	return true
}
