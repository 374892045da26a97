package model

import "time"

// ProductImage references a stored image belonging to a product.
// At most one primary image per product is recommended but not enforced.
type ProductImage struct {
	ID        int64
	ProductID int64
	Image     string // storage key
	AltText   string
	IsPrimary bool
	SortOrder int
	CreatedAt time.Time
}

// ProductImageInput is the write payload for product images.
type ProductImageInput struct {
	Image     string `json:"image" validate:"required,max=500"`
	AltText   string `json:"alt_text" validate:"max=200"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"order" validate:"gte=0"`
}
