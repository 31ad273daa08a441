package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"parkshare/internal/auth"
	"parkshare/internal/entities"
	"parkshare/internal/service"
)

type BookingHandler struct {
	Service *service.ReservationService
}

func NewBookingHandler(svc *service.ReservationService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// FreeWindows lists bookable windows for a calendar day, optionally narrowed
// to one spot via ?spot_id=. Public endpoint; the result is a snapshot.
func (h *BookingHandler) FreeWindows(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "Invalid or missing date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	var spotID *int
	if raw := r.URL.Query().Get("spot_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid spot_id", http.StatusBadRequest)
			return
		}
		spotID = &id
	}

	windows, err := h.Service.FreeWindows(spotID, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"windows": windows})
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
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

	result, err := h.Service.CreateBooking(entities.BookingRequest{
		CustomerID:        auth.UserIDFromContext(r.Context()),
		SpotID:            req.SpotID,
		WindowID:          req.WindowID,
		StartTime:         start,
		EndTime:           end,
		WithOnlinePayment: req.OnlinePayment,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	booking, err := h.Service.GetBookingByCode(code)
	if err != nil {
		writeError(w, err)
		return
	}
	if booking.CustomerID != auth.UserIDFromContext(r.Context()) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Service.ListCustomerBookings(auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bookings": bookings})
}

func (h *BookingHandler) SupplierBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Service.ListSupplierBookings(auth.UserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bookings": bookings})
}

func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	if err := h.Service.CancelBooking(bookingID, auth.UserIDFromContext(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Booking cancelled"})
}

func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	if err := h.Service.ConfirmBooking(bookingID, auth.UserIDFromContext(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Booking confirmed"})
}

func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid booking id", http.StatusBadRequest)
		return
	}
	if err := h.Service.RejectBooking(bookingID, auth.UserIDFromContext(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Booking rejected"})
}

func pathID(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}
