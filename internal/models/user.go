package models

import "time"

// User is an operator account. API requests authenticate with a bearer API
// key; the matched user id becomes the actor on recorded activity.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
