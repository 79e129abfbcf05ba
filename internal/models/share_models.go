package models

import "time"

// ShareCode maps an opaque token to an itinerary.
type ShareCode struct {
	ID          int       `json:"id"`
	ItineraryID int       `json:"itinerary_id"`
	Code        string    `json:"code"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateShareCodeRequest optionally carries a recipient to mail the link to.
type CreateShareCodeRequest struct {
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// ShareCodeResponse is returned when a share code is created or fetched.
type ShareCodeResponse struct {
	Code      string `json:"code"`
	ShareURL  string `json:"share_url"`
	EmailSent bool   `json:"email_sent,omitempty"`
}
