package http

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/hadir-app/hadir-backend/internal/handler/http/response"
	"github.com/hadir-app/hadir-backend/internal/pkg/storage"
)

// FileHandler serves stored uploads under the public storage base URL.
type FileHandler interface {
	Serve(w http.ResponseWriter, r *http.Request)
}

type fileHandlerImpl struct {
	storage storage.FileStorage
}

func NewFileHandler(fileStorage storage.FileStorage) FileHandler {
	return &fileHandlerImpl{storage: fileStorage}
}

func (h *fileHandlerImpl) Serve(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")

	rc, err := h.storage.Download(r.Context(), path)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			response.NotFound(w, "File not found")
			return
		}
		slog.Error("Failed to open stored file", "path", path, "error", err)
		response.InternalServerError(w, "Failed to read file")
		return
	}
	defer rc.Close()

	if contentType := mime.TypeByExtension(filepath.Ext(path)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Debug("Failed to stream stored file", "path", path, "error", err)
	}
}
