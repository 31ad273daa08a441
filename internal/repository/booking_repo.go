package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"parkshare/internal/apperrors"
	"parkshare/internal/db"
	"parkshare/internal/entities"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

const bookingColumns = `id, code, customer_id, spot_id, window_id, start_time, end_time, total_price, status, created_at, updated_at`

// CreateBookingTx inserts the booking row inside the reservation transaction.
func (r *BookingRepository) CreateBookingTx(tx *sql.Tx, booking *db.Booking) error {
	query := `
		INSERT INTO bookings (code, customer_id, spot_id, window_id, start_time, end_time, total_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`
	err := tx.QueryRow(query,
		booking.Code,
		booking.CustomerID,
		booking.SpotID,
		booking.WindowID,
		booking.StartTime,
		booking.EndTime,
		booking.TotalPrice,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return apperrors.Storage("insert booking", err)
	}
	return nil
}

func (r *BookingRepository) GetBooking(bookingID int) (*db.Booking, error) {
	row := r.DB.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, bookingID)
	return scanBooking(row, fmt.Sprintf("booking %d", bookingID))
}

func (r *BookingRepository) GetBookingByCode(code string) (*db.Booking, error) {
	row := r.DB.QueryRow(`SELECT `+bookingColumns+` FROM bookings WHERE code = $1`, code)
	return scanBooking(row, fmt.Sprintf("booking %q", code))
}

// UpdateStatusTx transitions the booking's status, guarded by the set of
// states the transition is legal from. Zero rows affected means the booking
// was no longer in an eligible state when the update ran.
func (r *BookingRepository) UpdateStatusTx(tx *sql.Tx, bookingID int, newStatus string, fromStatuses []string) error {
	result, err := tx.Exec(
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = ANY($3)`,
		newStatus, bookingID, pq.Array(fromStatuses),
	)
	if err != nil {
		return apperrors.Storage("update booking status", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("rows affected", err)
	}
	if affected == 0 {
		return apperrors.ErrIllegalStateTransition
	}
	return nil
}

func (r *BookingRepository) ListByCustomer(customerID int) ([]entities.BookingView, error) {
	query := `
		SELECT b.` + bookingViewColumns + `
		FROM bookings b
		JOIN parking_spots ps ON b.spot_id = ps.id
		WHERE b.customer_id = $1
		ORDER BY b.created_at DESC`
	return r.queryBookingViews(query, customerID)
}

func (r *BookingRepository) ListBySupplier(supplierID int) ([]entities.BookingView, error) {
	query := `
		SELECT b.` + bookingViewColumns + `
		FROM bookings b
		JOIN parking_spots ps ON b.spot_id = ps.id
		WHERE ps.supplier_id = $1
		ORDER BY b.created_at DESC`
	return r.queryBookingViews(query, supplierID)
}

const bookingViewColumns = `id, b.code, b.customer_id, b.spot_id, b.window_id, b.start_time, b.end_time,
		       b.total_price, b.status, b.created_at, ps.spot_number, ps.address, ps.supplier_id`

func (r *BookingRepository) queryBookingViews(query string, args ...interface{}) ([]entities.BookingView, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, apperrors.Storage("query bookings", err)
	}
	defer rows.Close()

	var views []entities.BookingView
	for rows.Next() {
		var v entities.BookingView
		if err := rows.Scan(
			&v.BookingID, &v.Code, &v.CustomerID, &v.SpotID, &v.WindowID, &v.StartTime, &v.EndTime,
			&v.TotalPrice, &v.Status, &v.CreatedAt, &v.SpotNumber, &v.Address, &v.SupplierID,
		); err != nil {
			return nil, apperrors.Storage("scan booking", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate bookings", err)
	}
	return views, nil
}

func scanBooking(row *sql.Row, what string) (*db.Booking, error) {
	var b db.Booking
	err := row.Scan(
		&b.ID, &b.Code, &b.CustomerID, &b.SpotID, &b.WindowID, &b.StartTime, &b.EndTime,
		&b.TotalPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
		}
		return nil, apperrors.Storage("get booking", err)
	}
	return &b, nil
}
