package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tempnest/tempnest/internal/upload"
)

func multipartImage(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	dir := t.TempDir()
	h := NewUploadHandler(upload.NewDirStore(dir, "http://localhost:8080/uploads"), slog.Default())

	content := []byte("fake jpeg bytes")
	body, contentType := multipartImage(t, "image", "photo.JPG", content)

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	url := resp["url"]
	if !strings.HasPrefix(url, "http://localhost:8080/uploads/") {
		t.Fatalf("url = %q, want uploads prefix", url)
	}
	if !strings.HasSuffix(url, ".jpg") {
		t.Errorf("url = %q, want lowercased extension", url)
	}

	// The returned name must map to a file on disk with the same bytes.
	name := url[strings.LastIndex(url, "/")+1:]
	got, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("stored bytes do not match upload")
	}
}

func TestUploadMissingFile(t *testing.T) {
	dir := t.TempDir()
	h := NewUploadHandler(upload.NewDirStore(dir, "http://localhost:8080/uploads"), slog.Default())

	body, contentType := multipartImage(t, "attachment", "photo.jpg", []byte("x"))

	req := httptest.NewRequest("POST", "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
