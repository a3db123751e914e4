package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coffeelog/apiserver/internal/services"
	"github.com/coffeelog/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
)

// CoffeeHandler serves coffee records, aggregate stats, the daily
// status check, and per-user thresholds.
type CoffeeHandler struct {
	coffeeService *services.CoffeeService
}

func NewCoffeeHandler(coffeeService *services.CoffeeService) *CoffeeHandler {
	return &CoffeeHandler{coffeeService: coffeeService}
}

// CoffeeRouter registers coffee routes on the given router.
func CoffeeRouter(r chi.Router, coffeeService *services.CoffeeService) {
	handler := NewCoffeeHandler(coffeeService)

	r.Get("/", handler.List)
	r.Post("/", handler.Add)
	r.Delete("/{recordID}", handler.Delete)
	r.Get("/stats", handler.Stats)
	r.Get("/status", handler.Status)
	r.Get("/settings", handler.Settings)
	r.Put("/settings", handler.UpdateSettings)
}

type AddRecordRequest struct {
	Date       string `json:"date"`
	Cups       int    `json:"cups"`
	Timestamp  string `json:"timestamp"`
	CoffeeType string `json:"coffeeType"`
	Size       string `json:"size"`
	Location   string `json:"location"`
	Notes      string `json:"notes"`
}

type UpdateSettingsRequest struct {
	DailyLimit         int `json:"dailyLimit"`
	WarningThreshold   int `json:"warningThreshold"`
	MinIntervalMinutes int `json:"minIntervalMinutes"`
}

// Add logs cups against a day. The date is a calendar day ("2006-01-02");
// the optional timestamp is the exact RFC 3339 moment and defaults to now.
func (h *CoffeeHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AddRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	var timestamp time.Time
	if req.Timestamp != "" {
		timestamp, err = time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid timestamp")
			return
		}
	}

	record, err := h.coffeeService.Add(r.Context(), userID, services.AddRecordParams{
		Date:       date,
		Cups:       req.Cups,
		Timestamp:  timestamp,
		CoffeeType: req.CoffeeType,
		Size:       req.Size,
		Location:   req.Location,
		Notes:      req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCups):
			writeError(w, http.StatusBadRequest, "cups must be at least 1")
		case errors.Is(err, services.ErrFutureDate):
			writeError(w, http.StatusBadRequest, "date must not be in the future")
		default:
			writeInternalError(w, r, err, "failed to add record")
		}
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// List serves one month of records when the month query parameter
// ("2006-01") is present, otherwise the most recent records.
func (h *CoffeeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	month := strings.TrimSpace(r.URL.Query().Get("month"))
	records, err := h.coffeeService.Records(r.Context(), userID, month)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMonth) {
			writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
			return
		}
		writeInternalError(w, r, err, "failed to list records")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// Delete removes a record the caller owns. Records the caller does not
// own are reported as missing.
func (h *CoffeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	recordID, err := parseIDParam(r, "recordID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.coffeeService.Delete(r.Context(), recordID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		writeInternalError(w, r, err, "failed to delete record")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "record deleted"})
}

// Stats aggregates the caller's records over a trailing window of days
// (default 30, capped at 365).
func (h *CoffeeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	days := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		days, err = parsePositiveInt(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid days")
			return
		}
	}

	stats, err := h.coffeeService.Stats(r.Context(), userID, days)
	if err != nil {
		writeInternalError(w, r, err, "failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Status reports today's consumption against the caller's thresholds.
func (h *CoffeeHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	status, err := h.coffeeService.Status(r.Context(), userID)
	if err != nil {
		writeInternalError(w, r, err, "failed to compute status")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (h *CoffeeHandler) Settings(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	settings, err := h.coffeeService.Settings(r.Context(), userID)
	if err != nil {
		writeInternalError(w, r, err, "failed to get settings")
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

func (h *CoffeeHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	settings, err := h.coffeeService.UpdateSettings(r.Context(), userID, services.UpdateSettingsParams{
		DailyLimit:         req.DailyLimit,
		WarningThreshold:   req.WarningThreshold,
		MinIntervalMinutes: req.MinIntervalMinutes,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidSettings) {
			writeError(w, http.StatusBadRequest, "settings values must be at least 1")
			return
		}
		writeInternalError(w, r, err, "failed to update settings")
		return
	}

	writeJSON(w, http.StatusOK, settings)
}
