package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"parkshare/internal/apperrors"
	"parkshare/internal/db"
	"parkshare/internal/entities"
	"parkshare/internal/utils"
)

// AvailabilityRepository owns the spot_windows table. Windows of a spot are
// pairwise non-overlapping; a booked window covers exactly its booking's
// interval. The reserve and reopen primitives run inside a caller-owned
// transaction so the check-then-act sequence is never observable half-done.
type AvailabilityRepository struct {
	DB *sql.DB
}

func NewAvailabilityRepository(database *sql.DB) *AvailabilityRepository {
	return &AvailabilityRepository{DB: database}
}

// AddWindow inserts a free window for the spot after verifying, in the same
// transaction, that it overlaps no existing window of that spot.
func (r *AvailabilityRepository) AddWindow(spotID int, start, end time.Time) (*db.SpotWindow, error) {
	if !start.Before(end) {
		return nil, apperrors.ErrInvalidInterval
	}

	tx, err := r.DB.Begin()
	if err != nil {
		return nil, apperrors.Storage("begin add window", err)
	}
	defer tx.Rollback()

	// Serialize concurrent inserts for the same spot; the COUNT check below
	// is a check-then-act and only holds behind this lock.
	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock($1)`, spotID); err != nil {
		return nil, apperrors.Storage("lock spot windows", err)
	}

	var overlapping int
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM spot_windows WHERE spot_id = $1 AND start_time < $3 AND end_time > $2`,
		spotID, start, end,
	).Scan(&overlapping)
	if err != nil {
		return nil, apperrors.Storage("check window overlap", err)
	}
	if overlapping > 0 {
		return nil, apperrors.ErrOverlappingWindow
	}

	window := &db.SpotWindow{SpotID: spotID, StartTime: start, EndTime: end}
	err = tx.QueryRow(
		`INSERT INTO spot_windows (spot_id, start_time, end_time, is_booked) VALUES ($1, $2, $3, FALSE)
		 RETURNING id, created_at`,
		spotID, start, end,
	).Scan(&window.ID, &window.CreatedAt)
	if err != nil {
		return nil, apperrors.Storage("insert window", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Storage("commit add window", err)
	}
	return window, nil
}

func (r *AvailabilityRepository) GetWindow(windowID int) (*db.SpotWindow, error) {
	var window db.SpotWindow
	err := r.DB.QueryRow(
		`SELECT id, spot_id, start_time, end_time, is_booked, booking_id, created_at
		 FROM spot_windows WHERE id = $1`,
		windowID,
	).Scan(&window.ID, &window.SpotID, &window.StartTime, &window.EndTime,
		&window.IsBooked, &window.BookingID, &window.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("window %d: %w", windowID, apperrors.ErrNotFound)
		}
		return nil, apperrors.Storage("get window", err)
	}
	return &window, nil
}

// FreeWindows returns the free windows of visible spots whose interval
// intersects the calendar day [dayStart, dayEnd), ordered by spot number then
// start time. Always a fresh read: a reported window may be claimed by the
// time the caller books it.
func (r *AvailabilityRepository) FreeWindows(spotID *int, dayStart, dayEnd time.Time) ([]entities.FreeWindow, error) {
	query := `
		SELECT sa.id, sa.spot_id, sa.start_time, sa.end_time,
		       ps.spot_number, ps.address, ps.price_per_hour, ps.partial_allowed, ps.supplier_id
		FROM spot_windows sa
		JOIN parking_spots ps ON sa.spot_id = ps.id
		WHERE ps.is_available = TRUE
		  AND sa.is_booked = FALSE
		  AND sa.start_time < $2
		  AND sa.end_time > $1`
	args := []interface{}{dayStart, dayEnd}
	if spotID != nil {
		query += ` AND sa.spot_id = $3`
		args = append(args, *spotID)
	}
	query += ` ORDER BY ps.spot_number, sa.start_time`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, apperrors.Storage("query free windows", err)
	}
	defer rows.Close()

	var windows []entities.FreeWindow
	for rows.Next() {
		var fw entities.FreeWindow
		if err := rows.Scan(
			&fw.WindowID, &fw.SpotID, &fw.StartTime, &fw.EndTime,
			&fw.SpotNumber, &fw.Address, &fw.PricePerHour, &fw.PartialAllowed, &fw.SupplierID,
		); err != nil {
			return nil, apperrors.Storage("scan free window", err)
		}
		windows = append(windows, fw)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate free windows", err)
	}
	return windows, nil
}

// ReserveSubintervalTx consumes [bookStart, bookEnd) out of the given free
// window. An exact match flips the window's booked flag in place; a strict
// sub-interval replaces the window with up to two leftover free windows plus
// a booked window for the consumed part. Both paths compare-and-set on the
// booked flag: if another transaction claimed the window first, the result is
// ErrSlotUnavailable and the caller rolls back.
func (r *AvailabilityRepository) ReserveSubintervalTx(tx *sql.Tx, window *db.SpotWindow, bookStart, bookEnd time.Time) (int, []int, error) {
	exact := window.StartTime.Equal(bookStart) && window.EndTime.Equal(bookEnd)

	if exact {
		result, err := tx.Exec(
			`UPDATE spot_windows SET is_booked = TRUE WHERE id = $1 AND is_booked = FALSE`,
			window.ID,
		)
		if err != nil {
			return 0, nil, apperrors.Storage("mark window booked", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, nil, apperrors.Storage("rows affected", err)
		}
		if affected == 0 {
			return 0, nil, apperrors.ErrSlotUnavailable
		}
		return window.ID, nil, nil
	}

	// Split: the original window goes away, guarded by the same booked-flag CAS.
	result, err := tx.Exec(
		`DELETE FROM spot_windows WHERE id = $1 AND is_booked = FALSE`,
		window.ID,
	)
	if err != nil {
		return 0, nil, apperrors.Storage("consume window", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil, apperrors.Storage("rows affected", err)
	}
	if affected == 0 {
		return 0, nil, apperrors.ErrSlotUnavailable
	}

	var leftoverIDs []int
	for _, leftover := range utils.SplitLeftovers(window.StartTime, window.EndTime, bookStart, bookEnd) {
		var id int
		err := tx.QueryRow(
			`INSERT INTO spot_windows (spot_id, start_time, end_time, is_booked) VALUES ($1, $2, $3, FALSE)
			 RETURNING id`,
			window.SpotID, leftover.Start, leftover.End,
		).Scan(&id)
		if err != nil {
			return 0, nil, apperrors.Storage("insert leftover window", err)
		}
		leftoverIDs = append(leftoverIDs, id)
	}

	var consumedID int
	err = tx.QueryRow(
		`INSERT INTO spot_windows (spot_id, start_time, end_time, is_booked) VALUES ($1, $2, $3, TRUE)
		 RETURNING id`,
		window.SpotID, bookStart, bookEnd,
	).Scan(&consumedID)
	if err != nil {
		return 0, nil, apperrors.Storage("insert booked window", err)
	}
	return consumedID, leftoverIDs, nil
}

// LinkBookingTx records the booking a consumed window belongs to.
func (r *AvailabilityRepository) LinkBookingTx(tx *sql.Tx, windowID, bookingID int) error {
	if _, err := tx.Exec(`UPDATE spot_windows SET booking_id = $1 WHERE id = $2`, bookingID, windowID); err != nil {
		return apperrors.Storage("link window to booking", err)
	}
	return nil
}

// ReopenWindowTx replaces a booked window with a fresh free window covering
// the same interval. No merging with adjacent free windows is attempted;
// fragmentation is accepted.
func (r *AvailabilityRepository) ReopenWindowTx(tx *sql.Tx, windowID int) (int, error) {
	var spotID int
	var start, end time.Time
	err := tx.QueryRow(
		`DELETE FROM spot_windows WHERE id = $1 AND is_booked = TRUE
		 RETURNING spot_id, start_time, end_time`,
		windowID,
	).Scan(&spotID, &start, &end)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("booked window %d: %w", windowID, apperrors.ErrNotFound)
		}
		return 0, apperrors.Storage("remove booked window", err)
	}

	var reopenedID int
	err = tx.QueryRow(
		`INSERT INTO spot_windows (spot_id, start_time, end_time, is_booked) VALUES ($1, $2, $3, FALSE)
		 RETURNING id`,
		spotID, start, end,
	).Scan(&reopenedID)
	if err != nil {
		return 0, apperrors.Storage("insert reopened window", err)
	}
	return reopenedID, nil
}
