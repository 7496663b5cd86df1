package models

import "time"

// Vote is one user's signed endorsement of a gem.
type Vote struct {
	ID        string    `json:"id"`
	GemID     string    `json:"gemId"`
	OwnerID   string    `json:"ownerId"`
	Positive  bool      `json:"positive"`
	CreatedAt time.Time `json:"createdAt"`
}
