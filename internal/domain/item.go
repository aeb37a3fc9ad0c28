package domain

import (
	"time"
)

// Item is a priced product belonging to exactly one store.
type Item struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	StoreID   int64     `json:"store_id"`
	CreatedAt time.Time `json:"created_at"`
}
