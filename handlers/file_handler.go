package handlers

import (
	"fmt"
	"net/http"

	"jurisai-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FileHandler handles HTTP requests for file operations
type FileHandler struct {
	ingestionService *service.IngestionService
	logger           *zap.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(ingestion *service.IngestionService, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		ingestionService: ingestion,
		logger:           logger,
	}
}

// UploadFile handles POST /api/files/upload
func (h *FileHandler) UploadFile(c *gin.Context) {
	raw := c.PostForm("matter_id")
	matterID, ok := parseOptionalID(c, &raw, "matter_id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return
	}
	defer file.Close()

	record, err := h.ingestionService.Upload(c.Request.Context(), service.UploadRequest{
		MatterID: matterID,
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Size:     fileHeader.Size,
		Body:     file,
	})
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}

	respondOK(c, http.StatusCreated, gin.H{
		"id":         record.ID,
		"matter_id":  record.MatterID,
		"filename":   record.Filename,
		"mime_type":  record.MimeType,
		"size":       record.Size,
		"created_at": record.CreatedAt,
	})
}

// GetFile handles GET /api/files/:id
func (h *FileHandler) GetFile(c *gin.Context) {
	id, ok := parseID(c, "id", "file")
	if !ok {
		return
	}

	file, reader, err := h.ingestionService.Open(c.Request.Context(), id)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, file.Size, file.MimeType, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.Filename),
	})
}

// ExtractFile handles POST /api/files/:id/extract
func (h *FileHandler) ExtractFile(c *gin.Context) {
	id, ok := parseID(c, "id", "file")
	if !ok {
		return
	}

	result, err := h.ingestionService.Extract(c.Request.Context(), id)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// ListMatterFiles handles GET /api/matters/:id/files
func (h *FileHandler) ListMatterFiles(c *gin.Context) {
	id, ok := parseID(c, "id", "matter")
	if !ok {
		return
	}

	files, err := h.ingestionService.ListFiles(c.Request.Context(), id)
	if err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, files)
}

// DeleteFile handles DELETE /api/files/:id
func (h *FileHandler) DeleteFile(c *gin.Context) {
	id, ok := parseID(c, "id", "file")
	if !ok {
		return
	}

	if err := h.ingestionService.DeleteFile(c.Request.Context(), id); err != nil {
		respondErr(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}
