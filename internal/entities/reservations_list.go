package entities

import "time"

// BookingView is a booking row joined with its spot, for customer, supplier
// and admin listings.
type BookingView struct {
	BookingID  int       `json:"booking_id"`
	Code       string    `json:"code"`
	CustomerID int       `json:"customer_id"`
	SpotID     int       `json:"spot_id"`
	WindowID   int       `json:"window_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	SpotNumber string    `json:"spot_number"`
	Address    string    `json:"address,omitempty"`
	SupplierID int       `json:"supplier_id"`
}

// Statistics is the admin dashboard summary.
type Statistics struct {
	TotalUsers     int `json:"total_users"`
	TotalSpots     int `json:"total_spots"`
	TotalBookings  int `json:"total_bookings"`
	ActiveBookings int `json:"active_bookings"`
}
