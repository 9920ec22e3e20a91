// Package storage writes uploaded files under a tenant-scoped directory so
// one tenant can never overwrite another tenant's files.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// Categories group uploads under the tenant directory.
const (
	CategoryBotConfig    = "botconfig"
	CategoryAugmentation = "dataaugmentation"
)

// Store saves uploads below a configured root directory.
type Store struct {
	Root string
}

// Save writes the uploaded file to <root>/<tenant_id>/<category>/<name> and
// returns the stored path. The base of the client-supplied filename is used
// so a crafted name cannot escape the tenant directory.
func (s *Store) Save(tenantID uint, category string, file *multipart.FileHeader) (string, error) {
	name := filepath.Base(file.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("invalid file name %q", file.Filename)
	}

	dir := filepath.Join(s.Root, fmt.Sprintf("%d", tenantID), category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return path, nil
}

// DocumentType derives the document type from the file extension, lower
// cased, or "unknown" when the name has none.
func DocumentType(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "unknown"
	}
	return strings.ToLower(ext)
}
