package db

import (
	"database/sql"
	"time"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleSupplier = "supplier"
	RoleAdmin    = "admin"
)

// Booking statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Online payment statuses, annotating bookings paid through checkout.
const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
	PaymentRefunded  = "refunded"
)

type User struct {
	ID           int
	FullName     string
	Phone        string
	Email        string
	CardNumber   string
	Bank         string
	Role         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// ParkingSpot never gets deleted; suppliers hide it with IsAvailable=false.
type ParkingSpot struct {
	ID             int
	SupplierID     int
	SpotNumber     string
	Address        string
	Description    string
	PricePerHour   float64
	PartialAllowed bool
	IsAvailable    bool
	CreatedAt      time.Time
}

// SpotWindow is a half-open [StartTime, EndTime) interval of a spot,
// either free or consumed by exactly one booking.
type SpotWindow struct {
	ID        int
	SpotID    int
	StartTime time.Time
	EndTime   time.Time
	IsBooked  bool
	BookingID sql.NullInt64
	CreatedAt time.Time
}

type Booking struct {
	ID         int
	Code       string
	CustomerID int
	SpotID     int
	WindowID   int
	StartTime  time.Time
	EndTime    time.Time
	TotalPrice float64
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// InterestRequest is a standing "tell me when something frees up" record.
type InterestRequest struct {
	ID           int
	UserID       int
	SpotID       sql.NullInt64
	DesiredDate  time.Time
	DesiredStart time.Time
	DesiredEnd   time.Time
	IsActive     bool
	CreatedAt    time.Time
}

// InterestMatch links a new window to an interest request; delivery is a
// separate best-effort step.
type InterestMatch struct {
	ID         int
	InterestID int
	WindowID   int
	UserID     int
	SpotID     int
	Notified   bool
	CreatedAt  time.Time
}
