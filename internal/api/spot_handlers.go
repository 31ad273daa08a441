package api

import (
	"encoding/json"
	"net/http"

	"parkshare/internal/auth"
	"parkshare/internal/service"
)

type SpotHandler struct {
	Service *service.SpotService
}

func NewSpotHandler(svc *service.SpotService) *SpotHandler {
	return &SpotHandler{Service: svc}
}

func (h *SpotHandler) CreateSpot(w http.ResponseWriter, r *http.Request) {
	var req CreateSpotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	spot, err := h.Service.CreateSpot(
		auth.UserIDFromContext(r.Context()),
		req.SpotNumber, req.Address, req.Description,
		req.PricePerHour, req.PartialAllowed,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, spot)
}

func (h *SpotHandler) MySpots(w http.ResponseWriter, r *http.Request) {
	spots, err := h.Service.ListSupplierSpots(auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"spots": spots})
}

func (h *SpotHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	spotID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid spot id", http.StatusBadRequest)
		return
	}
	var req UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Service.SetPrice(spotID, auth.UserIDFromContext(r.Context()), req.PricePerHour); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Price updated"})
}

func (h *SpotHandler) UpdateVisibility(w http.ResponseWriter, r *http.Request) {
	spotID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid spot id", http.StatusBadRequest)
		return
	}
	var req UpdateVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Service.SetVisibility(spotID, auth.UserIDFromContext(r.Context()), req.Visible); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Visibility updated"})
}

// AddWindow publishes a new availability window for the supplier's spot.
func (h *SpotHandler) AddWindow(w http.ResponseWriter, r *http.Request) {
	spotID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid spot id", http.StatusBadRequest)
		return
	}
	var req AddWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	start, err := parseTime(req.StartTime)
	if err != nil {
		http.Error(w, "Invalid start_time", http.StatusBadRequest)
		return
	}
	end, err := parseTime(req.EndTime)
	if err != nil {
		http.Error(w, "Invalid end_time", http.StatusBadRequest)
		return
	}

	window, err := h.Service.AddWindow(spotID, auth.UserIDFromContext(r.Context()), start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, window)
}
