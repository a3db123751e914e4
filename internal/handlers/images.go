package handlers

import (
	"errors"
	"net/http"

	"github.com/coffeelog/apiserver/internal/images"
	"github.com/go-chi/chi/v5"
)

// 10 MB cap on the multipart form, matching typical upload proxies.
const maxUploadBytes = 10 << 20

// ImageHandler accepts image uploads and returns the URL posts may
// reference.
type ImageHandler struct {
	store *images.Store
}

func NewImageHandler(store *images.Store) *ImageHandler {
	return &ImageHandler{store: store}
}

// ImageRouter registers the upload route on the given router.
func ImageRouter(r chi.Router, store *images.Store) {
	handler := NewImageHandler(store)

	r.Post("/", handler.Upload)
}

// Upload reads the "image" part of a multipart form and returns the
// resulting URL.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if _, err := userIDFromContext(r.Context()); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	url, err := h.store.Upload(header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, images.ErrUnsupportedType) {
			writeError(w, http.StatusBadRequest, "file must be an image")
			return
		}
		writeInternalError(w, r, err, "failed to store image")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
