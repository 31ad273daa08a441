package api

// Auth
type RegisterRequest struct {
	FullName   string `json:"full_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	CardNumber string `json:"card_number"`
	Bank       string `json:"bank"`
	Role       string `json:"role"`
	Password   string `json:"password"`
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Spots
type CreateSpotRequest struct {
	SpotNumber     string  `json:"spot_number"`
	Address        string  `json:"address,omitempty"`
	Description    string  `json:"description,omitempty"`
	PricePerHour   float64 `json:"price_per_hour"`
	PartialAllowed bool    `json:"partial_allowed"`
}

type UpdatePriceRequest struct {
	PricePerHour float64 `json:"price_per_hour"`
}

type UpdateVisibilityRequest struct {
	Visible bool `json:"visible"`
}

// Windows
type AddWindowRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Bookings
type CreateBookingRequest struct {
	SpotID        int    `json:"spot_id"`
	WindowID      int    `json:"window_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	OnlinePayment bool   `json:"online_payment,omitempty"`
}

// Interest requests
type RegisterInterestRequest struct {
	SpotID    *int   `json:"spot_id,omitempty"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}
