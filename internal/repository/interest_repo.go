package repository

import (
	"database/sql"
	"time"

	"parkshare/internal/apperrors"
	"parkshare/internal/db"
	"parkshare/internal/entities"
)

type InterestRepository struct {
	DB *sql.DB
}

func NewInterestRepository(database *sql.DB) *InterestRepository {
	return &InterestRepository{DB: database}
}

func (r *InterestRepository) CreateInterest(interest *db.InterestRequest) error {
	query := `
		INSERT INTO interest_requests (user_id, spot_id, desired_date, desired_start, desired_end, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING id, created_at`
	err := r.DB.QueryRow(query,
		interest.UserID,
		interest.SpotID,
		interest.DesiredDate,
		interest.DesiredStart,
		interest.DesiredEnd,
	).Scan(&interest.ID, &interest.CreatedAt)
	if err != nil {
		return apperrors.Storage("create interest request", err)
	}
	return nil
}

// ActiveInterestsFor returns active interest requests whose desired interval
// overlaps [start, end), optionally narrowed to a spot filter. The half-open
// overlap test runs in SQL so the scan stays one round trip.
func (r *InterestRepository) ActiveInterestsFor(spotID int, start, end time.Time) ([]db.InterestRequest, error) {
	query := `
		SELECT id, user_id, spot_id, desired_date, desired_start, desired_end, is_active, created_at
		FROM interest_requests
		WHERE is_active = TRUE
		  AND (spot_id IS NULL OR spot_id = $1)
		  AND desired_start < $3
		  AND desired_end > $2`
	rows, err := r.DB.Query(query, spotID, start, end)
	if err != nil {
		return nil, apperrors.Storage("query active interests", err)
	}
	defer rows.Close()

	var interests []db.InterestRequest
	for rows.Next() {
		var in db.InterestRequest
		if err := rows.Scan(
			&in.ID, &in.UserID, &in.SpotID, &in.DesiredDate, &in.DesiredStart, &in.DesiredEnd,
			&in.IsActive, &in.CreatedAt,
		); err != nil {
			return nil, apperrors.Storage("scan interest request", err)
		}
		interests = append(interests, in)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate interest requests", err)
	}
	return interests, nil
}

// CreateMatch records that a new window satisfies an interest request. Each
// match row is independent: one failed insert or delivery never touches the
// others.
func (r *InterestRepository) CreateMatch(match *db.InterestMatch) error {
	query := `
		INSERT INTO interest_matches (interest_id, window_id, user_id, spot_id, notified)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, created_at`
	err := r.DB.QueryRow(query,
		match.InterestID,
		match.WindowID,
		match.UserID,
		match.SpotID,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return apperrors.Storage("create interest match", err)
	}
	return nil
}

func (r *InterestRepository) ListPendingMatches() ([]entities.InterestMatchView, error) {
	query := `
		SELECT im.id, im.interest_id, im.user_id, u.full_name, u.phone,
		       im.spot_id, ps.spot_number, ps.address, ps.price_per_hour,
		       im.window_id, sa.start_time, sa.end_time
		FROM interest_matches im
		JOIN users u ON im.user_id = u.id
		JOIN parking_spots ps ON im.spot_id = ps.id
		JOIN spot_windows sa ON im.window_id = sa.id
		WHERE im.notified = FALSE
		ORDER BY im.created_at`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, apperrors.Storage("query pending matches", err)
	}
	defer rows.Close()

	var matches []entities.InterestMatchView
	for rows.Next() {
		var m entities.InterestMatchView
		if err := rows.Scan(
			&m.MatchID, &m.InterestID, &m.UserID, &m.UserName, &m.UserPhone,
			&m.SpotID, &m.SpotNumber, &m.Address, &m.PricePerHour,
			&m.WindowID, &m.StartTime, &m.EndTime,
		); err != nil {
			return nil, apperrors.Storage("scan pending match", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate pending matches", err)
	}
	return matches, nil
}

func (r *InterestRepository) MarkMatchNotified(matchID int) error {
	if _, err := r.DB.Exec(`UPDATE interest_matches SET notified = TRUE WHERE id = $1`, matchID); err != nil {
		return apperrors.Storage("mark match notified", err)
	}
	return nil
}

func (r *InterestRepository) DeactivateInterest(interestID int) error {
	if _, err := r.DB.Exec(`UPDATE interest_requests SET is_active = FALSE WHERE id = $1`, interestID); err != nil {
		return apperrors.Storage("deactivate interest", err)
	}
	return nil
}
