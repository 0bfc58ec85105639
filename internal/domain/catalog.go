package domain

import "time"

type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	Inventory   int
	CategoryID  string
	Category    *Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductFilter narrows product listings. All fields are optional; nil means
// the dimension is not constrained. Min and max prices are inclusive bounds.
type ProductFilter struct {
	CategoryID *string
	MinPrice   *float64
	MaxPrice   *float64
}
