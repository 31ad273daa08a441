package api

import (
	"encoding/json"
	"net/http"
	"time"

	"parkshare/internal/auth"
	"parkshare/internal/service"
)

type InterestHandler struct {
	Service *service.MatcherService
}

func NewInterestHandler(svc *service.MatcherService) *InterestHandler {
	return &InterestHandler{Service: svc}
}

func (h *InterestHandler) RegisterInterest(w http.ResponseWriter, r *http.Request) {
	var req RegisterInterestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	start, err := atTime(date, req.StartTime)
	if err != nil {
		http.Error(w, "Invalid start_time, expected HH:MM", http.StatusBadRequest)
		return
	}
	end, err := atTime(date, req.EndTime)
	if err != nil {
		http.Error(w, "Invalid end_time, expected HH:MM", http.StatusBadRequest)
		return
	}
	if !start.Before(end) {
		http.Error(w, "start_time must be before end_time", http.StatusBadRequest)
		return
	}

	interest, err := h.Service.RegisterInterest(auth.UserIDFromContext(r.Context()), req.SpotID, date, start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"interest_id": interest.ID})
}

// PendingMatches exposes undelivered interest matches to the operator-driven
// delivery step.
func (h *InterestHandler) PendingMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.Service.ListPendingMatches()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// DeliverMatches pushes all pending matches out through the messaging sink.
func (h *InterestHandler) DeliverMatches(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeliverPendingMatches(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Delivery pass finished"})
}

// atTime anchors an HH:MM clock time on the given date.
func atTime(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
