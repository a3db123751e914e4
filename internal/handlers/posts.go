package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/coffeelog/apiserver/internal/services"
	"github.com/coffeelog/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
)

const (
	maxPostContentLength    = 280
	maxCommentContentLength = 500
)

// PostHandler serves the feed, single-post CRUD, likes, and the comment
// endpoints nested under a post.
type PostHandler struct {
	postService    *services.PostService
	commentService *services.CommentService
}

func NewPostHandler(postService *services.PostService, commentService *services.CommentService) *PostHandler {
	return &PostHandler{
		postService:    postService,
		commentService: commentService,
	}
}

// PostRouter registers post routes on the given router.
func PostRouter(r chi.Router, postService *services.PostService, commentService *services.CommentService) {
	handler := NewPostHandler(postService, commentService)

	r.Get("/", handler.List)
	r.Post("/", handler.Create)
	r.Route("/{postID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.Put("/", handler.Update)
		r.Delete("/", handler.Delete)
		r.Post("/like", handler.ToggleLike)
		r.Get("/comments", handler.ListComments)
		r.Post("/comments", handler.CreateComment)
	})
}

// FeedRouter registers the feed alias, which serves the same listing as
// GET /posts.
func FeedRouter(r chi.Router, postService *services.PostService, commentService *services.CommentService) {
	handler := NewPostHandler(postService, commentService)

	r.Get("/", handler.List)
}

type CreatePostRequest struct {
	Content  string   `json:"content"`
	ImageURL string   `json:"imageUrl"`
	Hashtags []string `json:"hashtags"`
	IsPublic *bool    `json:"isPublic"`
}

type UpdatePostRequest struct {
	Content  *string  `json:"content"`
	ImageURL *string  `json:"imageUrl"`
	Hashtags []string `json:"hashtags"`
	IsPublic *bool    `json:"isPublic"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

// List serves the public feed, or a single author's public posts when
// the userId query parameter is present.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	viewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, cursor, err := parseCursorPagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var page services.PostPage
	if raw := strings.TrimSpace(r.URL.Query().Get("userId")); raw != "" {
		targetID, err := parsePositiveInt(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid userId")
			return
		}
		page, err = h.postService.UserPosts(r.Context(), targetID, viewerID, limit, cursor)
		if err != nil {
			writeInternalError(w, r, err, "failed to list posts")
			return
		}
	} else {
		page, err = h.postService.Feed(r.Context(), viewerID, limit, cursor)
		if err != nil {
			writeInternalError(w, r, err, "failed to list posts")
			return
		}
	}

	writeJSON(w, http.StatusOK, page)
}

// Create stores a new post for the caller.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := validatePostContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	post, err := h.postService.Create(r.Context(), userID, services.CreatePostParams{
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Hashtags: req.Hashtags,
		IsPublic: isPublic,
	})
	if err != nil {
		writeInternalError(w, r, err, "failed to create post")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	postID, err := parseIDParam(r, "postID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.postService.Get(r.Context(), postID, viewerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeInternalError(w, r, err, "failed to get post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// Update patches a post the caller owns.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	postID, err := parseIDParam(r, "postID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Content != nil {
		if err := validatePostContent(*req.Content); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	post, err := h.postService.Update(r.Context(), postID, userID, services.UpdatePostParams{
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Hashtags: req.Hashtags,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "post not found")
		case errors.Is(err, services.ErrForbidden):
			writeError(w, http.StatusForbidden, "not your post")
		default:
			writeInternalError(w, r, err, "failed to update post")
		}
		return
	}

	writeJSON(w, http.StatusOK, post)
}

// Delete removes a post the caller owns.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	postID, err := parseIDParam(r, "postID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.postService.Delete(r.Context(), postID, userID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "post not found")
		case errors.Is(err, services.ErrForbidden):
			writeError(w, http.StatusForbidden, "not your post")
		default:
			writeInternalError(w, r, err, "failed to delete post")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "post deleted"})
}

// ToggleLike flips the caller's like and reports the resulting state.
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	postID, err := parseIDParam(r, "postID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	liked, err := h.postService.ToggleLike(r.Context(), postID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeInternalError(w, r, err, "failed to toggle like")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// ListComments serves one page of a post's comments.
func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	if _, err := userIDFromContext(r.Context()); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	postID, err := parseIDParam(r, "postID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit, cursor, err := parseCursorPagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.commentService.List(r.Context(), postID, limit, cursor)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeInternalError(w, r, err, "failed to list comments")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// CreateComment adds a comment to a post.
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	postID, err := parseIDParam(r, "postID")
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

	comment, err := h.commentService.Create(r.Context(), postID, userID, req.Content)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		writeInternalError(w, r, err, "failed to create comment")
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func validatePostContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content is required")
	}
	if utf8.RuneCountInString(content) > maxPostContentLength {
		return errors.New("content must be at most 280 characters")
	}
	return nil
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentContentLength {
		return errors.New("content must be at most 500 characters")
	}
	return nil
}
