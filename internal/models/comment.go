package models

import "time"

type Comment struct {
	ID        string    `json:"id"`
	GemID     string    `json:"gemId"`
	OwnerID   string    `json:"ownerId"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}
