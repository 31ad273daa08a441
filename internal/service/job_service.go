package service

import (
	"fmt"
	"log"
	"time"

	"parkshare/internal/repository"
)

// JobService runs the scheduled sweeps the engine itself does not perform:
// completing confirmed bookings whose end time has passed and expiring
// pending bookings nobody acted on.
type JobService struct {
	Repo         *repository.JobRepository
	Reservations *ReservationService
}

func NewJobService(repo *repository.JobRepository, reservations *ReservationService) *JobService {
	return &JobService{Repo: repo, Reservations: reservations}
}

// CompleteElapsedBookings marks confirmed bookings past their end time as
// completed, one at a time through the engine so the guarded transition
// protects a booking cancelled between the id query and the update. The
// consumed windows stay booked; their intervals elapsed as scheduled.
func (s *JobService) CompleteElapsedBookings() error {
	bookingIDs, err := s.Repo.GetConfirmedBookingIDsPastEndTime()
	if err != nil {
		return fmt.Errorf("sweep: failed to find elapsed bookings: %w", err)
	}
	if len(bookingIDs) == 0 {
		return nil
	}

	log.Printf("Sweep: completing %d elapsed bookings. IDs: %v", len(bookingIDs), bookingIDs)
	for _, id := range bookingIDs {
		if err := s.Reservations.CompleteBooking(id); err != nil {
			log.Printf("Sweep: could not complete booking %d: %v", id, err)
		}
	}
	return nil
}

// ExpireStalePendingBookings cancels pending bookings older than maxAge, one
// at a time so each cancellation reopens its window atomically.
func (s *JobService) ExpireStalePendingBookings(maxAge time.Duration) error {
	cutoff := time.Now().UTC().Add(-maxAge)
	bookingIDs, err := s.Repo.GetStalePendingBookingIDs(cutoff)
	if err != nil {
		return fmt.Errorf("sweep: failed to find stale pending bookings: %w", err)
	}
	for _, id := range bookingIDs {
		if err := s.Reservations.ExpireBooking(id); err != nil {
			log.Printf("Sweep: could not expire booking %d: %v", id, err)
		}
	}
	return nil
}
