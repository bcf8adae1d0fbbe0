package handlers

import (
	"net/http"

	"roadweave-backend/internal/media"
	"roadweave-backend/internal/storage"

	"github.com/go-chi/chi/v5"
)

// UploadsHandler serves stored entry files back to blog readers
type UploadsHandler struct {
	store storage.Store
}

// NewUploadsHandler creates a new uploads handler
func NewUploadsHandler(store storage.Store) *UploadsHandler {
	return &UploadsHandler{store: store}
}

// Serve handles GET /uploads/{filename}
func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" {
		respondError(w, "filename required", http.StatusBadRequest)
		return
	}

	data, err := h.store.Read(r.Context(), filename)
	if err != nil {
		respondError(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", media.MimeType(filename))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}
