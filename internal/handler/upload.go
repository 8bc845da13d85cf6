package handler

import (
	"log/slog"
	"net/http"

	"github.com/tempnest/tempnest/internal/upload"
)

// maxUploadSize caps listing photos at 10 MB.
const maxUploadSize = 10 << 20

type UploadHandler struct {
	store  upload.Store
	logger *slog.Logger
}

func NewUploadHandler(store upload.Store, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{store: store, logger: logger}
}

// Upload accepts a multipart form with an `image` file field, stores the
// bytes, and returns the retrievable URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	name := upload.FileName(header.Filename)
	url, err := h.store.Save(r.Context(), name, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.Error("save upload", "error", err, "name", name)
		writeError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
