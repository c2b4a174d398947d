package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category groups products in the catalog. Its products are looked up at query time, never stored here.
type Category struct {
	ID          uuid.UUID
	Name        string // Unique, trimmed.
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory builds a category with a fresh identifier.
func NewCategory(name, description string) *Category {
	return &Category{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
}
