package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Restaurant carries the slice of restaurant state checkout needs: whether it
// is taking orders and what it charges for delivery. Menu and profile CRUD
// live in the catalog subsystem.
type Restaurant struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	IsOpen      bool            `gorm:"not null;default:false" json:"is_open"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"delivery_fee"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Restaurant model
func (Restaurant) TableName() string {
	return "restaurants"
}

// MenuItem is the live catalog entry whose price gets frozen into order
// lines at checkout.
type MenuItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	Name         string          `gorm:"not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Available    bool            `gorm:"not null;default:true" json:"available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}

// Address is a client delivery address. Checkout validates ownership and
// snapshots the fields into the order, so edits here never touch history.
type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID   uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	Street     string    `gorm:"not null" json:"street"`
	City       string    `gorm:"not null" json:"city"`
	PostalCode string    `gorm:"not null" json:"postal_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Address model
func (Address) TableName() string {
	return "addresses"
}
