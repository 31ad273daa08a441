package service

import (
	"log"
	"math"
	"time"

	"parkshare/internal/apperrors"
	"parkshare/internal/db"
	"parkshare/internal/repository"
)

// SpotService owns the supplier-facing catalog: spots and their availability
// windows.
type SpotService struct {
	Spots   *repository.SpotRepository
	Windows *repository.AvailabilityRepository
	matcher *MatcherService
}

func NewSpotService(spots *repository.SpotRepository, windows *repository.AvailabilityRepository, matcher *MatcherService) *SpotService {
	return &SpotService{Spots: spots, Windows: windows, matcher: matcher}
}

func (s *SpotService) CreateSpot(supplierID int, spotNumber, address, description string, pricePerHour float64, partialAllowed bool) (*db.ParkingSpot, error) {
	if pricePerHour <= 0 {
		return nil, apperrors.ErrInvalidRate
	}
	spot := &db.ParkingSpot{
		SupplierID:     supplierID,
		SpotNumber:     spotNumber,
		Address:        address,
		Description:    description,
		PricePerHour:   math.Round(pricePerHour*100) / 100,
		PartialAllowed: partialAllowed,
		IsAvailable:    true,
	}
	if err := s.Spots.CreateSpot(spot); err != nil {
		return nil, err
	}
	return spot, nil
}

func (s *SpotService) GetSpot(spotID int) (*db.ParkingSpot, error) {
	return s.Spots.GetSpot(spotID)
}

func (s *SpotService) ListSupplierSpots(supplierID int) ([]db.ParkingSpot, error) {
	return s.Spots.ListBySupplier(supplierID)
}

// SetPrice updates the hourly rate; only the owning supplier may change it.
func (s *SpotService) SetPrice(spotID, supplierID int, pricePerHour float64) error {
	if pricePerHour <= 0 {
		return apperrors.ErrInvalidRate
	}
	if err := s.requireOwner(spotID, supplierID); err != nil {
		return err
	}
	return s.Spots.UpdatePrice(spotID, math.Round(pricePerHour*100)/100)
}

// SetVisibility hides or shows the spot. Spots are never deleted; hiding is
// how a supplier retires one.
func (s *SpotService) SetVisibility(spotID, supplierID int, visible bool) error {
	if err := s.requireOwner(spotID, supplierID); err != nil {
		return err
	}
	return s.Spots.UpdateVisibility(spotID, visible)
}

// AddWindow publishes a free window for the supplier's spot, then hands it to
// the interest matcher off the request path.
func (s *SpotService) AddWindow(spotID, supplierID int, start, end time.Time) (*db.SpotWindow, error) {
	if !start.Before(end) {
		return nil, apperrors.ErrInvalidInterval
	}
	if err := s.requireOwner(spotID, supplierID); err != nil {
		return nil, err
	}

	window, err := s.Windows.AddWindow(spotID, start, end)
	if err != nil {
		return nil, err
	}

	if s.matcher != nil {
		go func(w db.SpotWindow) {
			if err := s.matcher.OnWindowAdded(&w); err != nil {
				log.Printf("Interest matching for window %d failed: %v", w.ID, err)
			}
		}(*window)
	}
	return window, nil
}

func (s *SpotService) requireOwner(spotID, supplierID int) error {
	owns, err := s.Spots.IsSupplierOf(supplierID, spotID)
	if err != nil {
		return err
	}
	if !owns {
		// Distinguish a missing spot from someone else's spot.
		if _, err := s.Spots.GetSpot(spotID); err != nil {
			return err
		}
		return apperrors.ErrForbidden
	}
	return nil
}
