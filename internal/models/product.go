package models

import "time"

// Product represents an item listed by a creator.
type Product struct {
	ID          int64     `json:"product_id" db:"id"`
	CreatorID   int64     `json:"-" db:"creator_id"`
	Name        string    `json:"product_name" db:"name"`
	Description string    `json:"product_description" db:"description"`
	Price       string    `json:"price" db:"price"`
	Image       string    `json:"image" db:"image"`
	CreatedAt   time.Time `json:"-" db:"created_at"`
}
