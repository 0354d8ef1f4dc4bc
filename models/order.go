package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is the closed set of accepted payment methods.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCreditCard  PaymentMethod = "credit_card"
	PaymentDebitCard   PaymentMethod = "debit_card"
	PaymentPix         PaymentMethod = "pix"
	PaymentMealVoucher PaymentMethod = "meal_voucher"
)

var validPaymentMethods = map[PaymentMethod]struct{}{
	PaymentCash:        {},
	PaymentCreditCard:  {},
	PaymentDebitCard:   {},
	PaymentPix:         {},
	PaymentMealVoucher: {},
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	_, ok := validPaymentMethods[m]
	return ok
}

// Order is the priced, immutable record produced by checkout. Total and the
// address snapshot are frozen at checkout time and never recomputed; status
// and deliverer_id change only through the transition and assignment
// services.
type Order struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	RestaurantID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	DelivererID       *uuid.UUID      `gorm:"type:uuid;index" json:"deliverer_id,omitempty"`
	AddressID         uuid.UUID       `gorm:"type:uuid;not null" json:"address_id"`
	AddressStreet     string          `gorm:"not null" json:"address_street"`
	AddressCity       string          `gorm:"not null" json:"address_city"`
	AddressPostalCode string          `gorm:"not null" json:"address_postal_code"`
	Status            OrderStatus     `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	PaymentMethod     PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	DeliveryFee       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"delivery_fee"`
	Total             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Lines             []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderLine is one cart line frozen into an order. UnitPrice and ItemName are
// copies taken from the menu item at checkout, so later catalog changes do
// not rewrite order history.
type OrderLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	MenuItemID uuid.UUID       `gorm:"type:uuid;not null" json:"menu_item_id"`
	ItemName   string          `gorm:"not null" json:"item_name"`
	Quantity   int             `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}

// TableName specifies the table name for the OrderLine model
func (OrderLine) TableName() string {
	return "order_lines"
}

// Subtotal returns unit price times quantity for this line.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
