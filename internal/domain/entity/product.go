package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlaceholderImage is used for products created without an uploaded image.
const PlaceholderImage = "https://via.placeholder.com/400"

// Product is a sellable catalog item.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       float64 // Current unit price, >= 0.
	Image       string  // Public URL of the product image.
	CategoryID  uuid.UUID
	Stock       int // Units on hand, never negative.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct builds a product with a fresh identifier, falling back to the placeholder image.
func NewProduct(name, description string, price float64, categoryID uuid.UUID, stock int, image string) *Product {
	if strings.TrimSpace(image) == "" {
		image = PlaceholderImage
	}

	return &Product{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       price,
		Image:       image,
		CategoryID:  categoryID,
		Stock:       stock,
	}
}

// HasStock reports whether quantity units can be taken from the current stock.
func (p *Product) HasStock(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

// ProductFilter narrows a product listing. Nil or empty fields do not filter; set fields are ANDed.
type ProductFilter struct {
	CategoryID *uuid.UUID
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
}
