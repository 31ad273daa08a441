package entities

import "time"

// BookingNotification is the data a booking status email or SMS is rendered
// from.
type BookingNotification struct {
	RecipientName  string
	RecipientPhone string
	BookingCode    string
	SpotNumber     string
	Address        string
	StartTime      time.Time
	EndTime        time.Time
	TotalPrice     float64
	Status         string
}

// MatchNotification announces a newly added window to a user with a standing
// interest request.
type MatchNotification struct {
	RecipientName  string
	RecipientPhone string
	SpotNumber     string
	Address        string
	PricePerHour   float64
	StartTime      time.Time
	EndTime        time.Time
}
