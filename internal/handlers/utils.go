package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

type contextKey string

const contextUserKey contextKey = "user_id"

// ErrorResponse is a simple error payload. Clients branch on the HTTP
// status; the message is prose, not a stable contract.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func userIDFromContext(ctx context.Context) (int, error) {
	value := ctx.Value(contextUserKey)
	userID, ok := value.(int)
	if !ok || userID < 1 {
		return 0, errors.New("missing user id")
	}
	return userID, nil
}

func withUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, contextUserKey, userID)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeInternalError logs the underlying error with request context and
// returns only a generic message to the client.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	logrus.WithError(err).
		WithField("request_id", middleware.GetReqID(r.Context())).
		WithField("path", r.URL.Path).
		Error(message)
	writeError(w, http.StatusInternalServerError, message)
}

func parsePositiveInt(raw string) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, errors.New("invalid number")
	}
	return value, nil
}

func parseIDParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid " + strings.ReplaceAll(name, "ID", " id"))
	}
	return id, nil
}

// parseCursorPagination reads the limit and cursor query parameters of
// a cursor-paginated listing. A zero cursor means the first page.
func parseCursorPagination(r *http.Request) (limit, cursor int, err error) {
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, errors.New("invalid limit")
		}
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("cursor")); raw != "" {
		cursor, err = strconv.Atoi(raw)
		if err != nil || cursor < 1 {
			return 0, 0, errors.New("invalid cursor")
		}
	}
	return limit, cursor, nil
}
