package service

import (
	"parkshare/internal/entities"
	"parkshare/internal/repository"
)

type AdminService struct {
	adminRepo    *repository.AdminRepository
	reservations *ReservationService
}

func NewAdminService(adminRepo *repository.AdminRepository, reservations *ReservationService) *AdminService {
	return &AdminService{
		adminRepo:    adminRepo,
		reservations: reservations,
	}
}

func (s *AdminService) ListBookings(date, status string) ([]entities.BookingView, error) {
	return s.adminRepo.ListBookings(date, status)
}

// CancelBooking force-cancels any pending or confirmed booking, reopening its
// window. Admin action, so no ownership check.
func (s *AdminService) CancelBooking(bookingID int) error {
	booking, err := s.reservations.Bookings.GetBooking(bookingID)
	if err != nil {
		return err
	}
	return s.reservations.cancel(booking)
}

func (s *AdminService) Statistics() (*entities.Statistics, error) {
	return s.adminRepo.Statistics()
}
