package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("files", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, header, err := req.FormFile("files")
	require.NoError(t, err)
	return header
}

func TestSaveWritesUnderTenantDirectory(t *testing.T) {
	store := &Store{Root: t.TempDir()}

	path, err := store.Save(7, CategoryAugmentation, fileHeader(t, "faq.pdf", "content"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Root, "7", CategoryAugmentation, "faq.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestSaveStripsDirectoryComponents(t *testing.T) {
	store := &Store{Root: t.TempDir()}

	// A crafted filename must not climb out of the tenant directory.
	path, err := store.Save(7, CategoryBotConfig, fileHeader(t, "../../../etc/passwd", "x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Root, "7", CategoryBotConfig, "passwd"), path)
}

func TestDocumentType(t *testing.T) {
	assert.Equal(t, "pdf", DocumentType("faq.pdf"))
	assert.Equal(t, "pdf", DocumentType("FAQ.PDF"))
	assert.Equal(t, "csv", DocumentType("export.data.csv"))
	assert.Equal(t, "unknown", DocumentType("README"))
}
