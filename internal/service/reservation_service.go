package service

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"parkshare/internal/apperrors"
	"parkshare/internal/db"
	"parkshare/internal/entities"
	"parkshare/internal/repository"
	"parkshare/internal/utils"
)

// ReservationService drives bookings through their lifecycle on top of the
// spot catalog and the availability store. Every mutation is all-or-nothing:
// the reserve path runs as a single transaction whose compare-and-set on the
// window's booked flag guarantees that of two concurrent attempts on the same
// window exactly one wins and the loser sees ErrSlotUnavailable.
type ReservationService struct {
	DB            *sql.DB
	Spots         *repository.SpotRepository
	Windows       *repository.AvailabilityRepository
	Bookings      *repository.BookingRepository
	Users         repository.UserRepository
	stripeRepo    *repository.StripeRepository
	stripeService *StripeService
	sender        *SenderService
}

func NewReservationService(
	database *sql.DB,
	spots *repository.SpotRepository,
	windows *repository.AvailabilityRepository,
	bookings *repository.BookingRepository,
	users repository.UserRepository,
	stripeRepo *repository.StripeRepository,
	stripeService *StripeService,
	sender *SenderService,
) *ReservationService {
	return &ReservationService{
		DB:            database,
		Spots:         spots,
		Windows:       windows,
		Bookings:      bookings,
		Users:         users,
		stripeRepo:    stripeRepo,
		stripeService: stripeService,
		sender:        sender,
	}
}

// FreeWindows lists the free windows of visible spots on the given calendar
// day. The result is an unsynchronized snapshot: a window shown here may be
// gone by the time the customer books it, which the caller handles by
// re-querying on ErrSlotUnavailable.
func (s *ReservationService) FreeWindows(spotID *int, date time.Time) ([]entities.FreeWindow, error) {
	dayStart, dayEnd := utils.DayBounds(date)
	return s.Windows.FreeWindows(spotID, dayStart, dayEnd)
}

// CreateBooking reserves [req.StartTime, req.EndTime) out of the given window
// and records a pending booking for it, atomically. Validation happens before
// the transaction begins; on any failure no window mutation and no booking
// row persist.
func (s *ReservationService) CreateBooking(req entities.BookingRequest) (*entities.ReservationResult, error) {
	if !req.StartTime.Before(req.EndTime) {
		return nil, apperrors.ErrInvalidInterval
	}

	spot, err := s.Spots.GetSpot(req.SpotID)
	if err != nil {
		return nil, err
	}
	if !spot.IsAvailable {
		return nil, apperrors.ErrSpotNotVisible
	}

	window, err := s.Windows.GetWindow(req.WindowID)
	if err != nil {
		return nil, err
	}
	if window.SpotID != spot.ID {
		return nil, fmt.Errorf("window %d does not belong to spot %d: %w", window.ID, spot.ID, apperrors.ErrNotFound)
	}
	if window.IsBooked {
		return nil, apperrors.ErrSlotUnavailable
	}
	if !utils.Contains(window.StartTime, window.EndTime, req.StartTime, req.EndTime) {
		return nil, apperrors.ErrInvalidInterval
	}
	exact := window.StartTime.Equal(req.StartTime) && window.EndTime.Equal(req.EndTime)
	if !exact && !spot.PartialAllowed {
		return nil, apperrors.ErrPartialNotAllowed
	}

	booking := &db.Booking{
		Code:       fmt.Sprintf("%08X", time.Now().UnixNano()%100000000),
		CustomerID: req.CustomerID,
		SpotID:     spot.ID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		TotalPrice: utils.Price(req.StartTime, req.EndTime, spot.PricePerHour),
		Status:     db.StatusPending,
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return nil, apperrors.Storage("begin reservation", err)
	}
	defer tx.Rollback()

	consumedID, leftoverIDs, err := s.Windows.ReserveSubintervalTx(tx, window, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	booking.WindowID = consumedID
	if err := s.Bookings.CreateBookingTx(tx, booking); err != nil {
		return nil, err
	}
	if err := s.Windows.LinkBookingTx(tx, consumedID, booking.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apperrors.Storage("commit reservation", err)
	}

	result := &entities.ReservationResult{
		BookingID:         booking.ID,
		Code:              booking.Code,
		SpotID:            booking.SpotID,
		WindowID:          booking.WindowID,
		StartTime:         booking.StartTime,
		EndTime:           booking.EndTime,
		TotalPrice:        booking.TotalPrice,
		Status:            booking.Status,
		LeftoverWindowIDs: leftoverIDs,
	}

	if req.WithOnlinePayment && s.stripeService != nil {
		url, sessionID, err := s.stripeService.CreateCheckoutSession(
			utils.Cents(booking.TotalPrice), "eur",
			fmt.Sprintf("Parking spot %s, booking %s", spot.SpotNumber, booking.Code),
		)
		if err != nil {
			log.Printf("Booking %s created but checkout session failed: %v", booking.Code, err)
		} else if err := s.stripeRepo.SetBookingPaymentSession(booking.ID, sessionID, db.PaymentPending); err != nil {
			log.Printf("Booking %s: could not record payment session: %v", booking.Code, err)
		} else {
			result.PaymentURL = url
		}
	}

	s.notifyStatusChange(booking)
	return result, nil
}

// ConfirmBooking moves a pending booking to confirmed. Only the supplier who
// owns the spot may confirm.
func (s *ReservationService) ConfirmBooking(bookingID, supplierID int) error {
	booking, err := s.requireBookingOwnedBySupplier(bookingID, supplierID)
	if err != nil {
		return err
	}
	if booking.Status != db.StatusPending {
		return apperrors.ErrIllegalStateTransition
	}
	if err := s.transition(bookingID, db.StatusConfirmed, []string{db.StatusPending}, false, booking.WindowID); err != nil {
		return err
	}
	booking.Status = db.StatusConfirmed
	s.notifyStatusChange(booking)
	return nil
}

// RejectBooking cancels a pending or confirmed booking on the supplier's
// behalf and reopens the consumed window.
func (s *ReservationService) RejectBooking(bookingID, supplierID int) error {
	booking, err := s.requireBookingOwnedBySupplier(bookingID, supplierID)
	if err != nil {
		return err
	}
	return s.cancel(booking)
}

// CancelBooking cancels the customer's own pending or confirmed booking and
// reopens the consumed window.
func (s *ReservationService) CancelBooking(bookingID, customerID int) error {
	booking, err := s.Bookings.GetBooking(bookingID)
	if err != nil {
		return err
	}
	if booking.CustomerID != customerID {
		return apperrors.ErrForbidden
	}
	return s.cancel(booking)
}

// CompleteBooking moves a confirmed booking whose end time has passed to
// completed. Driven by the scheduled sweep; the consumed window stays booked
// since its interval elapsed as planned.
func (s *ReservationService) CompleteBooking(bookingID int) error {
	booking, err := s.Bookings.GetBooking(bookingID)
	if err != nil {
		return err
	}
	if booking.Status != db.StatusConfirmed {
		return apperrors.ErrIllegalStateTransition
	}
	return s.transition(bookingID, db.StatusCompleted, []string{db.StatusConfirmed}, false, booking.WindowID)
}

// ExpireBooking cancels a stale pending booking on the system's behalf and
// reopens its window, freeing inventory a supplier never acted on.
func (s *ReservationService) ExpireBooking(bookingID int) error {
	booking, err := s.Bookings.GetBooking(bookingID)
	if err != nil {
		return err
	}
	if booking.Status != db.StatusPending {
		return apperrors.ErrIllegalStateTransition
	}
	return s.transition(booking.ID, db.StatusCancelled, []string{db.StatusPending}, true, booking.WindowID)
}

// HandlePaymentSucceeded records a completed checkout session against its
// booking and tells the customer. Called from the payment webhook.
func (s *ReservationService) HandlePaymentSucceeded(sessionID string) error {
	if s.stripeRepo == nil {
		return nil
	}
	if err := s.stripeRepo.UpdatePaymentStatusBySession(sessionID, db.PaymentSucceeded); err != nil {
		return err
	}
	booking, err := s.stripeRepo.GetBookingBySession(sessionID)
	if err != nil {
		return err
	}
	s.notifyStatusChange(booking)
	return nil
}

// HandlePaymentRefunded annotates the booking when the payment provider
// reports a refund. The booking itself was already cancelled by whoever
// triggered the refund.
func (s *ReservationService) HandlePaymentRefunded(sessionID string) error {
	if s.stripeRepo == nil {
		return nil
	}
	return s.stripeRepo.UpdatePaymentStatusBySession(sessionID, db.PaymentRefunded)
}

func (s *ReservationService) GetBookingBySession(sessionID string) (*db.Booking, error) {
	return s.stripeRepo.GetBookingBySession(sessionID)
}

func (s *ReservationService) GetBookingByCode(code string) (*db.Booking, error) {
	return s.Bookings.GetBookingByCode(code)
}

func (s *ReservationService) ListCustomerBookings(customerID int) ([]entities.BookingView, error) {
	return s.Bookings.ListByCustomer(customerID)
}

func (s *ReservationService) ListSupplierBookings(supplierID int) ([]entities.BookingView, error) {
	return s.Bookings.ListBySupplier(supplierID)
}

func (s *ReservationService) cancel(booking *db.Booking) error {
	if booking.Status != db.StatusPending && booking.Status != db.StatusConfirmed {
		return apperrors.ErrIllegalStateTransition
	}
	err := s.transition(booking.ID, db.StatusCancelled, []string{db.StatusPending, db.StatusConfirmed}, true, booking.WindowID)
	if err != nil {
		return err
	}
	s.refundIfPaid(booking)
	booking.Status = db.StatusCancelled
	s.notifyStatusChange(booking)
	return nil
}

// transition updates the booking's status, optionally reopening its consumed
// window, in one transaction.
func (s *ReservationService) transition(bookingID int, newStatus string, fromStatuses []string, reopen bool, windowID int) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return apperrors.Storage("begin transition", err)
	}
	defer tx.Rollback()

	if err := s.Bookings.UpdateStatusTx(tx, bookingID, newStatus, fromStatuses); err != nil {
		return err
	}
	if reopen {
		if _, err := s.Windows.ReopenWindowTx(tx, windowID); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return apperrors.Storage("commit transition", err)
	}
	return nil
}

func (s *ReservationService) requireBookingOwnedBySupplier(bookingID, supplierID int) (*db.Booking, error) {
	booking, err := s.Bookings.GetBooking(bookingID)
	if err != nil {
		return nil, err
	}
	owns, err := s.Spots.IsSupplierOf(supplierID, booking.SpotID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, apperrors.ErrForbidden
	}
	return booking, nil
}

func (s *ReservationService) refundIfPaid(booking *db.Booking) {
	if s.stripeService == nil || s.stripeRepo == nil {
		return
	}
	sessionID, err := s.stripeRepo.PaymentSessionFor(booking.ID)
	if err != nil {
		log.Printf("Booking %s: could not look up payment session: %v", booking.Code, err)
		return
	}
	if sessionID == "" {
		return
	}
	if err := s.stripeService.RefundPaymentBySessionID(sessionID); err != nil {
		log.Printf("Booking %s: refund failed, needs manual follow-up: %v", booking.Code, err)
	}
}

// notifyStatusChange delivers the booking update to its customer, async and
// best-effort. A delivery failure never fails the booking operation.
func (s *ReservationService) notifyStatusChange(booking *db.Booking) {
	if s.sender == nil {
		return
	}
	customer, err := s.Users.GetByID(booking.CustomerID)
	if err != nil {
		log.Printf("Booking %s: could not load customer for notification: %v", booking.Code, err)
		return
	}
	spot, err := s.Spots.GetSpot(booking.SpotID)
	if err != nil {
		log.Printf("Booking %s: could not load spot for notification: %v", booking.Code, err)
		return
	}
	notification := entities.BookingNotification{
		RecipientName:  customer.FullName,
		RecipientPhone: customer.Phone,
		BookingCode:    booking.Code,
		SpotNumber:     spot.SpotNumber,
		Address:        spot.Address,
		StartTime:      booking.StartTime,
		EndTime:        booking.EndTime,
		TotalPrice:     booking.TotalPrice,
		Status:         booking.Status,
	}
	go s.sender.SendBookingSMS(notification)
	if customer.Email != "" {
		go func() {
			if err := s.sender.SendBookingEmail(customer.Email, notification); err != nil {
				log.Printf("Booking %s: status email to %s failed: %v", booking.Code, customer.Email, err)
			}
		}()
	}
}
