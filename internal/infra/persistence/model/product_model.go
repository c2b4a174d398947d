package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductModel mirrors the 'products' table. Stock is guarded by a check constraint.
type ProductModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text;not null"`
	Price       float64   `gorm:"type:numeric(12,2);not null;check:chk_products_price,price >= 0"`
	Image       string    `gorm:"type:varchar(1024);not null"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Stock       int       `gorm:"not null;default:0;check:chk_products_stock,stock >= 0"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// BeforeCreate assigns the primary key.
func (m *ProductModel) BeforeCreate(_ *gorm.DB) error {
	return ensureID(&m.ID)
}
