package api

import (
	"net/http"
	"strconv"

	"parkshare/internal/service"
)

type AdminHandler struct {
	Admin *service.AdminService
	Users *service.UserAdminService
}

func NewAdminHandler(admin *service.AdminService, users *service.UserAdminService) *AdminHandler {
	return &AdminHandler{Admin: admin, Users: users}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")
	bookings, err := h.Admin.ListBookings(date, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *AdminHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := h.Admin.CancelBooking(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Booking cancelled"})
}

func (h *AdminHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Admin.Statistics()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	users, err := h.Users.ListUsers(limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *AdminHandler) BlockUser(w http.ResponseWriter, r *http.Request) {
	h.setUserActive(w, r, h.Users.BlockUser, "User blocked")
}

func (h *AdminHandler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	h.setUserActive(w, r, h.Users.UnblockUser, "User unblocked")
}

func (h *AdminHandler) PromoteToAdmin(w http.ResponseWriter, r *http.Request) {
	h.setUserActive(w, r, h.Users.PromoteToAdmin, "User promoted to admin")
}

func (h *AdminHandler) setUserActive(w http.ResponseWriter, r *http.Request, apply func(int) error, message string) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := apply(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}
