package entities

import "time"

// BookingRequest is the decoded, typed form of a reservation attempt, built
// once at the API boundary before it enters the engine.
type BookingRequest struct {
	CustomerID        int
	SpotID            int
	WindowID          int
	StartTime         time.Time
	EndTime           time.Time
	WithOnlinePayment bool
}

// InterestMatchView is a pending interest match joined with its spot and
// window, consumed by the delivery step.
type InterestMatchView struct {
	MatchID      int       `json:"match_id"`
	InterestID   int       `json:"interest_id"`
	UserID       int       `json:"user_id"`
	UserName     string    `json:"user_name"`
	UserPhone    string    `json:"user_phone"`
	SpotID       int       `json:"spot_id"`
	SpotNumber   string    `json:"spot_number"`
	Address      string    `json:"address,omitempty"`
	PricePerHour float64   `json:"price_per_hour"`
	WindowID     int       `json:"window_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
}
