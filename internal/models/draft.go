package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftOrder is a sample design idea captured before a real production order
// exists. It has no stock effect.
type DraftOrder struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"`
	Name      string    `json:"name" db:"name"`
	Note      string    `json:"note" db:"note"`
	Status    string    `json:"status" db:"status"`
	ImageURLs []string  `json:"images"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
