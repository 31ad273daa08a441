package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"parkshare/internal/apperrors"
	"parkshare/internal/db"
)

type SpotRepository struct {
	DB *sql.DB
}

func NewSpotRepository(database *sql.DB) *SpotRepository {
	return &SpotRepository{DB: database}
}

func (r *SpotRepository) CreateSpot(spot *db.ParkingSpot) error {
	query := `
		INSERT INTO parking_spots (supplier_id, spot_number, address, description, price_per_hour, partial_allowed, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := r.DB.QueryRow(query,
		spot.SupplierID,
		spot.SpotNumber,
		spot.Address,
		spot.Description,
		spot.PricePerHour,
		spot.PartialAllowed,
		spot.IsAvailable,
	).Scan(&spot.ID, &spot.CreatedAt)
	if err != nil {
		return apperrors.Storage("create spot", err)
	}
	return nil
}

func (r *SpotRepository) GetSpot(spotID int) (*db.ParkingSpot, error) {
	var spot db.ParkingSpot
	query := `
		SELECT id, supplier_id, spot_number, address, description, price_per_hour, partial_allowed, is_available, created_at
		FROM parking_spots WHERE id = $1`
	err := r.DB.QueryRow(query, spotID).Scan(
		&spot.ID, &spot.SupplierID, &spot.SpotNumber, &spot.Address, &spot.Description,
		&spot.PricePerHour, &spot.PartialAllowed, &spot.IsAvailable, &spot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("spot %d: %w", spotID, apperrors.ErrNotFound)
		}
		return nil, apperrors.Storage("get spot", err)
	}
	return &spot, nil
}

func (r *SpotRepository) UpdatePrice(spotID int, pricePerHour float64) error {
	result, err := r.DB.Exec(`UPDATE parking_spots SET price_per_hour = $1 WHERE id = $2`, pricePerHour, spotID)
	if err != nil {
		return apperrors.Storage("update spot price", err)
	}
	return requireRow(result, spotID)
}

func (r *SpotRepository) UpdateVisibility(spotID int, visible bool) error {
	result, err := r.DB.Exec(`UPDATE parking_spots SET is_available = $1 WHERE id = $2`, visible, spotID)
	if err != nil {
		return apperrors.Storage("update spot visibility", err)
	}
	return requireRow(result, spotID)
}

func (r *SpotRepository) ListBySupplier(supplierID int) ([]db.ParkingSpot, error) {
	query := `
		SELECT id, supplier_id, spot_number, address, description, price_per_hour, partial_allowed, is_available, created_at
		FROM parking_spots WHERE supplier_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.Query(query, supplierID)
	if err != nil {
		return nil, apperrors.Storage("list supplier spots", err)
	}
	defer rows.Close()

	var spots []db.ParkingSpot
	for rows.Next() {
		var spot db.ParkingSpot
		if err := rows.Scan(
			&spot.ID, &spot.SupplierID, &spot.SpotNumber, &spot.Address, &spot.Description,
			&spot.PricePerHour, &spot.PartialAllowed, &spot.IsAvailable, &spot.CreatedAt,
		); err != nil {
			return nil, apperrors.Storage("scan supplier spot", err)
		}
		spots = append(spots, spot)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate supplier spots", err)
	}
	return spots, nil
}

// IsSupplierOf reports whether userID owns the given spot.
func (r *SpotRepository) IsSupplierOf(userID, spotID int) (bool, error) {
	var count int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM parking_spots WHERE id = $1 AND supplier_id = $2`, spotID, userID).Scan(&count)
	if err != nil {
		return false, apperrors.Storage("check spot ownership", err)
	}
	return count > 0, nil
}

func requireRow(result sql.Result, spotID int) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("spot %d: %w", spotID, apperrors.ErrNotFound)
	}
	return nil
}
