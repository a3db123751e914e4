package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/coffeelog/apiserver/internal/services"
	"github.com/coffeelog/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
)

// NotificationHandler serves the caller's notification list and
// read-state updates.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// NotificationRouter registers notification routes on the given router.
func NotificationRouter(r chi.Router, notificationService *services.NotificationService) {
	handler := NewNotificationHandler(notificationService)

	r.Get("/", handler.List)
	r.Put("/{notificationID}/read", handler.MarkRead)
	r.Put("/read-all", handler.MarkAllRead)
}

// List serves the caller's notifications, newest first. unread=true
// restricts the list to unread rows.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	unreadOnly := false
	if raw := strings.TrimSpace(r.URL.Query().Get("unread")); raw != "" {
		unreadOnly, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid unread flag")
			return
		}
	}

	notifications, err := h.notificationService.List(r.Context(), userID, unreadOnly)
	if err != nil {
		writeInternalError(w, r, err, "failed to list notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}

// MarkRead marks one of the caller's notifications read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	notificationID, err := parseIDParam(r, "notificationID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), notificationID, userID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "notification not found")
		case errors.Is(err, services.ErrForbidden):
			writeError(w, http.StatusForbidden, "not your notification")
		default:
			writeInternalError(w, r, err, "failed to mark notification read")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "notification read"})
}

// MarkAllRead marks every unread notification of the caller read.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.notificationService.MarkAllRead(r.Context(), userID); err != nil {
		writeInternalError(w, r, err, "failed to mark notifications read")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "all notifications read"})
}
