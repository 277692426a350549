package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSucceeded = "succeeded"
	PaymentStatusFailed    = "failed"
)

// Payment is the online-settlement ledger row for a booking. The unique
// provider transaction id is the idempotency key for webhook replays.
type Payment struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BookingID     uuid.UUID `gorm:"not null;index" json:"booking_id"`
	Provider      string    `gorm:"size:50;not null" json:"provider"`
	ProviderTxnID *string   `gorm:"size:255;unique" json:"provider_txn_id,omitempty"`
	Amount        float64   `gorm:"type:numeric(12,2);not null" json:"amount"`
	Fee           float64   `gorm:"type:numeric(12,2);default:0" json:"fee"`
	Method        string    `gorm:"size:50" json:"method"`
	Status        string    `gorm:"size:20;not null" json:"status"`

	Booking Booking `gorm:"foreignkey:BookingID" json:"booking,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
