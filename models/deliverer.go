package models

import (
	"time"

	"github.com/google/uuid"
)

// Availability is the closed set of deliverer availability states.
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityUnavailable Availability = "unavailable"
	AvailabilityOnDelivery  Availability = "on_delivery"
)

// ValidAvailability reports whether a is a known availability state.
func ValidAvailability(a Availability) bool {
	return a == AvailabilityAvailable || a == AvailabilityUnavailable || a == AvailabilityOnDelivery
}

// Deliverer is a courier in the assignment pool. A deliverer that is
// on_delivery has exactly one live order referencing them; availability is
// mutated only by the assignment coordinator and the availability toggle.
type Deliverer struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string       `gorm:"not null" json:"name"`
	Availability Availability `gorm:"type:varchar(20);not null;default:'unavailable'" json:"availability"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TableName specifies the table name for the Deliverer model
func (Deliverer) TableName() string {
	return "deliverers"
}
