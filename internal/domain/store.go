package domain

import (
	"time"
)

// Store groups items and tags. Store names are unique; deleting a store
// cascades to its items and tags.
type Store struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
