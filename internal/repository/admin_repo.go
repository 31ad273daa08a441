package repository

import (
	"database/sql"
	"strconv"

	"parkshare/internal/apperrors"
	"parkshare/internal/db"
	"parkshare/internal/entities"
)

type AdminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(database *sql.DB) *AdminRepository {
	return &AdminRepository{DB: database}
}

// ListBookings returns all bookings, optionally filtered by calendar date of
// the start time and by status.
func (r *AdminRepository) ListBookings(date, status string) ([]entities.BookingView, error) {
	query := `
	SELECT
		b.id, b.code, b.customer_id, b.spot_id, b.window_id, b.start_time, b.end_time,
		b.total_price, b.status, b.created_at, ps.spot_number, ps.address, ps.supplier_id
	FROM bookings b
	JOIN parking_spots ps ON b.spot_id = ps.id
	WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if date != "" {
		query += " AND DATE(b.start_time) = $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if status != "" {
		query += " AND b.status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	query += " ORDER BY b.start_time DESC"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, apperrors.Storage("admin list bookings", err)
	}
	defer rows.Close()

	var views []entities.BookingView
	for rows.Next() {
		var v entities.BookingView
		err := rows.Scan(
			&v.BookingID, &v.Code, &v.CustomerID, &v.SpotID, &v.WindowID, &v.StartTime, &v.EndTime,
			&v.TotalPrice, &v.Status, &v.CreatedAt, &v.SpotNumber, &v.Address, &v.SupplierID,
		)
		if err != nil {
			return nil, apperrors.Storage("scan admin booking", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate admin bookings", err)
	}
	return views, nil
}

// Statistics gathers the dashboard counters in one pass.
func (r *AdminRepository) Statistics() (*entities.Statistics, error) {
	var stats entities.Statistics
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM parking_spots),
			(SELECT COUNT(*) FROM bookings),
			(SELECT COUNT(*) FROM bookings WHERE status = $1 OR status = $2)`
	err := r.DB.QueryRow(query, db.StatusPending, db.StatusConfirmed).Scan(
		&stats.TotalUsers, &stats.TotalSpots, &stats.TotalBookings, &stats.ActiveBookings,
	)
	if err != nil {
		return nil, apperrors.Storage("query statistics", err)
	}
	return &stats, nil
}
