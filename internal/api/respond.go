package api

import (
	"encoding/json"
	"net/http"
	"time"

	"parkshare/internal/apperrors"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperrors.HTTPStatus(err), map[string]string{"error": err.Error()})
}

// parseTime accepts RFC 3339 timestamps, the only format the API speaks.
func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
