package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"parkshare/internal/apperrors"
	"parkshare/internal/db"
)

// StripeRepository tracks the payment side of a booking. Payment state never
// feeds back into the reservation invariants; it only annotates the booking.
type StripeRepository struct {
	DB *sql.DB
}

func NewStripeRepository(database *sql.DB) *StripeRepository {
	return &StripeRepository{DB: database}
}

func (r *StripeRepository) SetBookingPaymentSession(bookingID int, sessionID, paymentStatus string) error {
	query := `
		UPDATE bookings
		SET stripe_session_id = $2, payment_status = $3, updated_at = NOW()
		WHERE id = $1`
	if _, err := r.DB.Exec(query, bookingID, sessionID, paymentStatus); err != nil {
		return apperrors.Storage("set booking payment session", err)
	}
	return nil
}

func (r *StripeRepository) UpdatePaymentStatusBySession(sessionID, paymentStatus string) error {
	result, err := r.DB.Exec(
		`UPDATE bookings SET payment_status = $2, updated_at = NOW() WHERE stripe_session_id = $1`,
		sessionID, paymentStatus,
	)
	if err != nil {
		return apperrors.Storage("update payment status", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("stripe session %q: %w", sessionID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *StripeRepository) GetBookingBySession(sessionID string) (*db.Booking, error) {
	row := r.DB.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE stripe_session_id = $1`, sessionID)
	booking, err := scanBooking(row, fmt.Sprintf("stripe session %q", sessionID))
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// PaymentSessionFor returns the booking's checkout session id, empty when the
// booking was never paid online.
func (r *StripeRepository) PaymentSessionFor(bookingID int) (string, error) {
	var sessionID sql.NullString
	err := r.DB.QueryRow(`SELECT stripe_session_id FROM bookings WHERE id = $1`, bookingID).Scan(&sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("booking %d: %w", bookingID, apperrors.ErrNotFound)
		}
		return "", apperrors.Storage("get payment session", err)
	}
	return sessionID.String, nil
}
