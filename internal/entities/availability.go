package entities

import "time"

// FreeWindow is a bookable interval joined with the owning spot's details,
// as returned by the free-windows search. It is a snapshot: the window may be
// claimed by another customer at any moment after the query.
type FreeWindow struct {
	WindowID       int       `json:"window_id"`
	SpotID         int       `json:"spot_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	SpotNumber     string    `json:"spot_number"`
	Address        string    `json:"address,omitempty"`
	PricePerHour   float64   `json:"price_per_hour"`
	PartialAllowed bool      `json:"partial_allowed"`
	SupplierID     int       `json:"supplier_id"`
}

// ReservationResult reports a successful booking along with the leftover free
// windows a partial booking carved out of the original window.
type ReservationResult struct {
	BookingID         int       `json:"booking_id"`
	Code              string    `json:"code"`
	SpotID            int       `json:"spot_id"`
	WindowID          int       `json:"window_id"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	TotalPrice        float64   `json:"total_price"`
	Status            string    `json:"status"`
	LeftoverWindowIDs []int     `json:"leftover_window_ids,omitempty"`
	PaymentURL        string    `json:"payment_url,omitempty"`
}
