package models

import (
	"time"

	"github.com/google/uuid"
)

type Court struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"size:100;not null;unique" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Surface     *string   `gorm:"size:50" json:"surface,omitempty"`

	// Base hourly price per person; peak slots are priced with a multiplier
	// at generation time.
	BasePricePerPerson float64 `gorm:"type:numeric(12,2);not null" json:"base_price_per_person"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
