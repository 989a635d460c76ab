package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectPath(t *testing.T) {
	id := uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000001")

	p := objectPath(id, "../Witness Statement.PDF")

	assert.Equal(t, "3f/3f2a9c1e-0000-4000-8000-000000000001_Witness_Statement.pdf", p)
	assert.NotContains(t, p, "..")
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", contentType("judgment.PDF"))
	assert.Equal(t, "text/markdown", contentType("notes.md"))
	assert.Equal(t, "application/octet-stream", contentType("archive.zip"))
}

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	st, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	id := uuid.New()
	storagePath, err := st.Upload(ctx, id, "particulars.txt", strings.NewReader("The Claimant claims damages."))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(storagePath, id.String()[:2]+"/"))

	r, err := st.Download(ctx, storagePath)
	require.NoError(t, err)
	body, err := io.ReadAll(r)
	require.NoError(t, r.Close())
	require.NoError(t, err)
	assert.Equal(t, "The Claimant claims damages.", string(body))

	require.NoError(t, st.Delete(ctx, storagePath))
	require.NoError(t, st.Delete(ctx, storagePath), "deleting twice is not an error")

	_, err = st.Download(ctx, storagePath)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	st, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = st.Download(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrObjectNotFound)
}

func TestNewStorageRequiresBucketForS3(t *testing.T) {
	_, err := NewStorage(context.Background(), StorageConfig{Type: StorageTypeS3})
	assert.Error(t, err)

	_, err = NewStorage(context.Background(), StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}
