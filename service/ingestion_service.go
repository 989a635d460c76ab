package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"jurisai-backend/extract"
	"jurisai-backend/models"
	"jurisai-backend/repository"
	"jurisai-backend/storage"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const (
	// DefaultMaxFileSize bounds one upload
	DefaultMaxFileSize int64 = 10 * 1024 * 1024
	// DefaultTextCacheSize is how many extracted texts are kept in memory
	DefaultTextCacheSize = 256
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrFileTypeDenied  = errors.New("file type not allowed")
	ErrStorageNotReady = errors.New("file storage not set")
)

// IngestionService uploads source documents and extracts their text
type IngestionService struct {
	fileRepo    FileStore
	matterRepo  MatterStore
	storage     storage.Storage
	extractor   *extract.Extractor
	maxFileSize int64
	texts       *lru.Cache[uuid.UUID, extractedText]
	logger      *zap.Logger
}

type extractedText struct {
	filename string
	text     string
}

// IngestionServiceOption is a functional option for IngestionService
type IngestionServiceOption func(*IngestionService)

// IngestionWithFileRepository sets the file repository
func IngestionWithFileRepository(repo FileStore) IngestionServiceOption {
	return func(s *IngestionService) {
		s.fileRepo = repo
	}
}

// IngestionWithMatterRepository sets the matter repository used to check links
func IngestionWithMatterRepository(repo MatterStore) IngestionServiceOption {
	return func(s *IngestionService) {
		s.matterRepo = repo
	}
}

// IngestionWithStorage sets the file storage backend
func IngestionWithStorage(st storage.Storage) IngestionServiceOption {
	return func(s *IngestionService) {
		s.storage = st
	}
}

// IngestionWithExtractor sets the text extractor
func IngestionWithExtractor(e *extract.Extractor) IngestionServiceOption {
	return func(s *IngestionService) {
		s.extractor = e
	}
}

// IngestionWithMaxFileSize sets the upload size limit
func IngestionWithMaxFileSize(n int64) IngestionServiceOption {
	return func(s *IngestionService) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// IngestionWithTextCacheSize sets how many extracted texts are cached
func IngestionWithTextCacheSize(n int) IngestionServiceOption {
	return func(s *IngestionService) {
		if n > 0 {
			s.texts, _ = lru.New[uuid.UUID, extractedText](n)
		}
	}
}

// IngestionWithLogger sets the logger
func IngestionWithLogger(logger *zap.Logger) IngestionServiceOption {
	return func(s *IngestionService) {
		s.logger = logger
	}
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(opts ...IngestionServiceOption) *IngestionService {
	cache, _ := lru.New[uuid.UUID, extractedText](DefaultTextCacheSize)
	s := &IngestionService{
		extractor:   extract.NewExtractor(),
		maxFileSize: DefaultMaxFileSize,
		texts:       cache,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadRequest represents one uploaded file
type UploadRequest struct {
	MatterID *uuid.UUID
	Filename string
	MimeType string
	Size     int64
	Body     io.Reader
}

// Upload stores the file and records it. Only formats the extractor can read
// are accepted.
func (s *IngestionService) Upload(ctx context.Context, req UploadRequest) (*models.File, error) {
	if s.fileRepo == nil {
		return nil, errors.New("file repository not set")
	}
	if s.storage == nil {
		return nil, ErrStorageNotReady
	}

	filename := filepath.Base(strings.TrimSpace(req.Filename))
	if filename == "" || filename == "." || filename == "/" {
		return nil, invalid("file", "a file name is required")
	}
	if req.Size > s.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, s.maxFileSize)
	}
	if !s.extractor.Supported(filename, req.MimeType) {
		return nil, fmt.Errorf("%w: allowed types are PDF, DOCX, XLSX, TXT and MD", ErrFileTypeDenied)
	}
	if req.MatterID != nil && s.matterRepo != nil {
		if err := matterExists(ctx, s.matterRepo, *req.MatterID); err != nil {
			return nil, err
		}
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	fileID := uuid.New()
	storagePath, err := s.storage.Upload(ctx, fileID, filename, req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	record := &models.File{
		ID:          fileID,
		MatterID:    req.MatterID,
		Filename:    filename,
		MimeType:    mimeType,
		Size:        req.Size,
		StoragePath: storagePath,
	}
	if err := s.fileRepo.Create(ctx, record); err != nil {
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up uploaded file", zap.String("storage_path", storagePath), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save file record: %w", err)
	}

	s.logger.Info("file uploaded",
		zap.String("file_id", fileID.String()),
		zap.String("filename", filename),
		zap.Int64("size", req.Size),
	)
	return record, nil
}

// GetFile returns a file record
func (s *IngestionService) GetFile(ctx context.Context, id uuid.UUID) (*models.File, error) {
	if s.fileRepo == nil {
		return nil, errors.New("file repository not set")
	}
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return file, nil
}

// ListFiles returns the files uploaded against a matter
func (s *IngestionService) ListFiles(ctx context.Context, matterID uuid.UUID) ([]*models.File, error) {
	if s.fileRepo == nil {
		return nil, errors.New("file repository not set")
	}
	return s.fileRepo.ListByMatter(ctx, matterID)
}

// Open returns the stored bytes of a file. The caller closes the reader.
func (s *IngestionService) Open(ctx context.Context, id uuid.UUID) (*models.File, io.ReadCloser, error) {
	if s.storage == nil {
		return nil, nil, ErrStorageNotReady
	}
	file, err := s.GetFile(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	reader, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download file: %w", err)
	}
	return file, reader, nil
}

// ExtractText returns the text of an uploaded file. Results are cached by file ID.
func (s *IngestionService) ExtractText(ctx context.Context, id uuid.UUID) (string, string, error) {
	if cached, ok := s.texts.Get(id); ok {
		return cached.filename, cached.text, nil
	}

	file, reader, err := s.Open(ctx, id)
	if err != nil {
		return "", "", err
	}
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(reader, s.maxFileSize+1)); err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	text, err := s.extractor.Extract(file.Filename, file.MimeType, buf.Bytes())
	if err != nil {
		s.logger.Warn("text extraction failed", zap.String("file_id", id.String()), zap.Error(err))
		return "", "", fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	s.texts.Add(id, extractedText{filename: file.Filename, text: text})
	return file.Filename, text, nil
}

// Extract reports extraction as a status envelope rather than an error, so a
// failed extraction can be shown next to the upload
func (s *IngestionService) Extract(ctx context.Context, id uuid.UUID) (*models.ExtractionResult, error) {
	_, text, err := s.ExtractText(ctx, id)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			return nil, err
		}
		return &models.ExtractionResult{
			Status:  models.ExtractionError,
			Output:  models.ExtractionOutput{FullText: ""},
			Details: err.Error(),
		}, nil
	}
	return &models.ExtractionResult{
		Status: models.ExtractionSuccess,
		Output: models.ExtractionOutput{FullText: text},
	}, nil
}

// DeleteFile removes a file and its stored bytes
func (s *IngestionService) DeleteFile(ctx context.Context, id uuid.UUID) error {
	if s.storage == nil {
		return ErrStorageNotReady
	}
	file, err := s.GetFile(ctx, id)
	if err != nil {
		return err
	}
	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.texts.Remove(id)
	if err := s.storage.Delete(ctx, file.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored file", zap.String("storage_path", file.StoragePath), zap.Error(err))
	}
	return nil
}
