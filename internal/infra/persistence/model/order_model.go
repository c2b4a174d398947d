package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderModel mirrors the 'orders' table. Customer contact details are flattened into columns.
type OrderModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID          *uuid.UUID `gorm:"type:uuid;index:idx_orders_user_status,priority:1"`
	CustomerName    string     `gorm:"type:varchar(200)"`
	CustomerPhone   string     `gorm:"type:varchar(50)"`
	CustomerAddress string     `gorm:"type:text"`
	CustomerNotes   string     `gorm:"type:text"`
	Total           float64    `gorm:"type:numeric(12,2);not null;check:chk_orders_total,total >= 0"`
	Status          string     `gorm:"type:varchar(20);not null;default:pending;index:idx_orders_user_status,priority:2"`
	Source          string     `gorm:"type:varchar(20);not null;default:website"`
	CreatedAt       time.Time  `gorm:"index"`
	UpdatedAt       time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// BeforeCreate assigns the primary key.
func (m *OrderModel) BeforeCreate(_ *gorm.DB) error {
	return ensureID(&m.ID)
}

// OrderItemModel mirrors the 'order_items' table. Price is the unit price when the order was placed.
type OrderItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	Position  int       `gorm:"not null"`
	Quantity  int       `gorm:"not null;check:chk_order_items_quantity,quantity >= 1"`
	Price     float64   `gorm:"type:numeric(12,2);not null"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

// BeforeCreate assigns the primary key.
func (m *OrderItemModel) BeforeCreate(_ *gorm.DB) error {
	return ensureID(&m.ID)
}
