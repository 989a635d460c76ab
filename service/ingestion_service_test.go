package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"jurisai-backend/models"
	"jurisai-backend/repository"
	"jurisai-backend/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFiles struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*models.File
	createErr error
}

func newMemFiles() *memFiles {
	return &memFiles{rows: make(map[uuid.UUID]*models.File)}
}

func (m *memFiles) Create(_ context.Context, f *models.File) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()
	cp := *f
	m.rows[f.ID] = &cp
	return nil
}

func (m *memFiles) GetByID(_ context.Context, id uuid.UUID) (*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (m *memFiles) ListByMatter(_ context.Context, matterID uuid.UUID) ([]*models.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.File{}
	for _, row := range m.rows {
		if row.MatterID != nil && *row.MatterID == matterID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memFiles) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type ingestionFixture struct {
	files   *memFiles
	storage *storage.LocalStorage
	svc     *IngestionService
}

func newIngestionFixture(t *testing.T, matters ...*models.Matter) *ingestionFixture {
	t.Helper()
	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	f := &ingestionFixture{files: newMemFiles(), storage: st}
	f.svc = NewIngestionService(
		IngestionWithFileRepository(f.files),
		IngestionWithMatterRepository(newMemMatters(matters...)),
		IngestionWithStorage(st),
		IngestionWithMaxFileSize(1024),
		IngestionWithTextCacheSize(8),
	)
	return f
}

func upload(t *testing.T, svc *IngestionService, matterID *uuid.UUID, name, body string) *models.File {
	t.Helper()
	file, err := svc.Upload(context.Background(), UploadRequest{
		MatterID: matterID,
		Filename: name,
		MimeType: "text/plain",
		Size:     int64(len(body)),
		Body:     strings.NewReader(body),
	})
	require.NoError(t, err)
	return file
}

func TestUploadAndExtract(t *testing.T) {
	matter := highCourtMatter()
	f := newIngestionFixture(t, matter)
	ctx := context.Background()

	file := upload(t, f.svc, &matter.ID, "../notes/attendance note.txt", "  Client attended on 3 May.\n")
	assert.Equal(t, "attendance note.txt", file.Filename)
	assert.True(t, strings.HasPrefix(file.StoragePath, file.ID.String()[:2]+"/"))

	name, text, err := f.svc.ExtractText(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "attendance note.txt", name)
	assert.Equal(t, "Client attended on 3 May.", text)

	require.NoError(t, f.storage.Delete(ctx, file.StoragePath))
	_, text, err = f.svc.ExtractText(ctx, file.ID)
	require.NoError(t, err, "a cached text survives the stored bytes going away")
	assert.Equal(t, "Client attended on 3 May.", text)

	files, err := f.svc.ListFiles(ctx, matter.ID)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	got, reader, err := f.svc.Open(ctx, upload(t, f.svc, nil, "second.md", "# Heading").ID)
	require.NoError(t, err)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "# Heading", string(body))
	assert.Nil(t, got.MatterID)
}

func TestUpload_Rejections(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := context.Background()
	missing := uuid.New()

	tests := []struct {
		name string
		req  UploadRequest
		want error
	}{
		{"too large", UploadRequest{Filename: "bundle.pdf", Size: 4096, Body: strings.NewReader("")}, ErrFileTooLarge},
		{"wrong type", UploadRequest{Filename: "photo.jpg", MimeType: "image/jpeg", Size: 10, Body: strings.NewReader("")}, ErrFileTypeDenied},
		{"no name", UploadRequest{Filename: " ", Size: 10, Body: strings.NewReader("")}, ErrValidation},
		{"unknown matter", UploadRequest{MatterID: &missing, Filename: "a.txt", Size: 1, Body: strings.NewReader("a")}, ErrMatterNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Upload(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.files.rows)
}

func TestUpload_RecordFailureRemovesStoredBytes(t *testing.T) {
	f := newIngestionFixture(t)
	f.files.createErr = errors.New("insert failed")

	_, err := f.svc.Upload(context.Background(), UploadRequest{
		Filename: "statement.txt",
		Size:     5,
		Body:     strings.NewReader("hello"),
	})
	require.Error(t, err)
	assert.Empty(t, f.files.rows)
}

func TestExtract_Envelope(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := context.Background()

	ok := upload(t, f.svc, nil, "skeleton.txt", "Skeleton argument for the appellant")
	res, err := f.svc.Extract(ctx, ok.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExtractionSuccess, res.Status)
	assert.Equal(t, "Skeleton argument for the appellant", res.Output.FullText)

	broken, err := f.svc.Upload(ctx, UploadRequest{
		Filename: "judgment.pdf",
		MimeType: "application/pdf",
		Size:     9,
		Body:     strings.NewReader("not a pdf"),
	})
	require.NoError(t, err)
	res, err = f.svc.Extract(ctx, broken.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExtractionError, res.Status)
	assert.Empty(t, res.Output.FullText)
	assert.NotEmpty(t, res.Details)

	_, _, err = f.svc.ExtractText(ctx, broken.ID)
	assert.ErrorIs(t, err, ErrExtractionFailed)

	_, err = f.svc.Extract(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDeleteFile(t *testing.T) {
	f := newIngestionFixture(t)
	ctx := context.Background()
	file := upload(t, f.svc, nil, "draft.txt", "draft")

	require.NoError(t, f.svc.DeleteFile(ctx, file.ID))
	_, err := f.svc.GetFile(ctx, file.ID)
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = f.storage.Download(ctx, file.StoragePath)
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)

	assert.ErrorIs(t, f.svc.DeleteFile(ctx, file.ID), ErrFileNotFound)
}
