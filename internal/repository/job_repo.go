package repository

import (
	"database/sql"
	"time"

	"parkshare/internal/apperrors"
	"parkshare/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetConfirmedBookingIDsPastEndTime finds confirmed bookings whose interval
// has fully elapsed.
func (r *JobRepository) GetConfirmedBookingIDsPastEndTime() ([]int, error) {
	query := `SELECT id FROM bookings WHERE status = $1 AND end_time < NOW()`
	rows, err := r.DB.Query(query, db.StatusConfirmed)
	if err != nil {
		return nil, apperrors.Storage("query elapsed bookings", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Storage("scan booking id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate elapsed bookings", err)
	}
	return ids, nil
}

// GetStalePendingBookingIDs finds pending bookings created before the cutoff,
// still waiting for a supplier decision.
func (r *JobRepository) GetStalePendingBookingIDs(before time.Time) ([]int, error) {
	query := `SELECT id FROM bookings WHERE status = $1 AND created_at < $2`
	rows, err := r.DB.Query(query, db.StatusPending, before)
	if err != nil {
		return nil, apperrors.Storage("query stale pending bookings", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Storage("scan booking id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate stale pending bookings", err)
	}
	return ids, nil
}
