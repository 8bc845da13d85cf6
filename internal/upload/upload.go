// Package upload stores listing images and returns retrievable URLs. The
// contract is bytes in, public URL out; callers never see storage mechanics.
package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store saves image bytes under the given name and returns a publicly
// retrievable URL for them.
type Store interface {
	Save(ctx context.Context, name, contentType string, data io.Reader) (string, error)
}

// FileName builds a unique object name from an upload's original filename:
// millisecond timestamp plus a short random suffix, original extension
// preserved.
func FileName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), suffix, ext)
}

// DirStore writes uploads to a local directory that the server exposes as
// static files under baseURL.
type DirStore struct {
	dir     string
	baseURL string
}

func NewDirStore(dir, baseURL string) *DirStore {
	return &DirStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *DirStore) Save(ctx context.Context, name, contentType string, data io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}

	return s.baseURL + "/" + name, nil
}
