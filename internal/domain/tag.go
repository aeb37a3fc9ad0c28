package domain

import (
	"time"
)

// Tag labels items within a single store. A tag can only be attached to items
// of its own store; tag names are unique per store.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	StoreID   int64     `json:"store_id"`
	CreatedAt time.Time `json:"created_at"`
}
