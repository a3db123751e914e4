package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coffeelog/apiserver/internal/services"
	"github.com/coffeelog/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
)

// CommentHandler serves edits and deletes addressed by comment id.
// Listing and creation live under the post routes.
type CommentHandler struct {
	commentService *services.CommentService
}

func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CommentRouter registers comment routes on the given router.
func CommentRouter(r chi.Router, commentService *services.CommentService) {
	handler := NewCommentHandler(commentService)

	r.Put("/{commentID}", handler.Update)
	r.Delete("/{commentID}", handler.Delete)
}

// Update edits a comment the caller owns.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	commentID, err := parseIDParam(r, "commentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := validateCommentContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.commentService.Update(r.Context(), commentID, userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "comment not found")
		case errors.Is(err, services.ErrForbidden):
			writeError(w, http.StatusForbidden, "not your comment")
		default:
			writeInternalError(w, r, err, "failed to update comment")
		}
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

// Delete removes a comment the caller owns.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	commentID, err := parseIDParam(r, "commentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.commentService.Delete(r.Context(), commentID, userID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "comment not found")
		case errors.Is(err, services.ErrForbidden):
			writeError(w, http.StatusForbidden, "not your comment")
		default:
			writeInternalError(w, r, err, "failed to delete comment")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}
