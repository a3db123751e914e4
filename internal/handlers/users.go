package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coffeelog/apiserver/internal/services"
	"github.com/coffeelog/apiserver/internal/store"
	"github.com/coffeelog/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// UserHandler serves public profile pages, follows, and the caller's own
// profile edits.
type UserHandler struct {
	userService   *services.UserService
	followService *services.FollowService
}

func NewUserHandler(userService *services.UserService, followService *services.FollowService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		followService: followService,
	}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, userService *services.UserService, followService *services.FollowService) {
	handler := NewUserHandler(userService, followService)

	r.Get("/{userID}", handler.Get)
	r.Post("/{userID}/follow", handler.ToggleFollow)
}

// ProfileRouter registers the caller's own profile routes.
func ProfileRouter(r chi.Router, userService *services.UserService) {
	handler := NewUserHandler(userService, nil)

	r.Get("/", handler.OwnProfile)
	r.Put("/", handler.UpdateProfile)
}

// ProfilePage is the public view of a user: account basics, profile
// fields, engagement counters, and whether the viewer follows them.
type ProfilePage struct {
	User        types.UserSummary `json:"user"`
	Profile     types.Profile     `json:"profile"`
	Stats       types.UserStats   `json:"stats"`
	IsFollowing bool              `json:"isFollowing"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatarUrl"`
}

// Get serves a user's public profile page.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeInternalError(w, r, err, "failed to get user")
		return
	}

	profile, err := h.userService.Profile(r.Context(), userID)
	if err != nil {
		writeInternalError(w, r, err, "failed to get profile")
		return
	}

	stats, err := h.followService.Stats(r.Context(), userID)
	if err != nil {
		writeInternalError(w, r, err, "failed to get stats")
		return
	}

	isFollowing := false
	if viewerID != userID {
		isFollowing, err = h.followService.IsFollowing(r.Context(), viewerID, userID)
		if err != nil {
			writeInternalError(w, r, err, "failed to get follow state")
			return
		}
	}

	writeJSON(w, http.StatusOK, ProfilePage{
		User:        types.UserSummary{ID: user.ID, Name: user.Name},
		Profile:     profile,
		Stats:       stats,
		IsFollowing: isFollowing,
	})
}

// ToggleFollow flips the caller's follow on a user and reports the
// resulting state.
func (h *UserHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	callerID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	following, err := h.followService.Toggle(r.Context(), callerID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfFollow):
			writeError(w, http.StatusBadRequest, "cannot follow yourself")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			writeInternalError(w, r, err, "failed to toggle follow")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"following": following})
}

// OwnProfile serves the caller's own profile fields.
func (h *UserHandler) OwnProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	profile, err := h.userService.Profile(r.Context(), userID)
	if err != nil {
		writeInternalError(w, r, err, "failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile upserts the caller's profile fields.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	profile, err := h.userService.UpsertProfile(r.Context(), userID, services.UpdateProfileParams{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		writeInternalError(w, r, err, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
