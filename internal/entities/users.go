package entities

import "time"

// UserView is what admin listings expose: no password hash, card number
// masked down to its last four digits.
type UserView struct {
	ID         int       `json:"id"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email,omitempty"`
	CardNumber string    `json:"card_number"`
	Bank       string    `json:"bank,omitempty"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
