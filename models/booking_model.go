package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment/settlement axis.
const (
	BookingStatusPending   = "PENDING"
	BookingStatusPaid      = "PAID"
	BookingStatusCancelled = "CANCELLED"
	BookingStatusExpired   = "EXPIRED"
	BookingStatusRefunded  = "REFUNDED"
)

// Physical-attendance axis, independent from the payment axis.
const (
	SessionStatusUpcoming   = "UPCOMING"
	SessionStatusInProgress = "IN_PROGRESS"
	SessionStatusCompleted  = "COMPLETED"
	SessionStatusCancelled  = "CANCELLED"
)

const (
	RefundStatusCompleted = "COMPLETED"

	RefundTypeFull    = "FULL"
	RefundTypePartial = "PARTIAL"
	RefundTypeNone    = "NONE"
)

type Booking struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Reference string    `gorm:"size:20;not null;unique" json:"reference"`

	CourtID       uuid.UUID `gorm:"not null;index" json:"court_id"`
	Date          time.Time `gorm:"type:date;not null;index" json:"date"`
	StartTime     time.Time `gorm:"not null" json:"start_time"`
	EndTime       time.Time `gorm:"not null" json:"end_time"`
	DurationHours int       `gorm:"not null;default:1" json:"duration_hours"`
	Players       int       `gorm:"not null;default:2" json:"players"`

	CustomerName     string `gorm:"size:255;not null" json:"customer_name"`
	CustomerEmail    string `gorm:"size:255;not null;index" json:"customer_email"`
	CustomerPhone    string `gorm:"size:30;not null" json:"customer_phone"`
	CustomerWhatsApp string `gorm:"size:30" json:"customer_whatsapp"`

	Subtotal       float64 `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	RequireDeposit bool    `gorm:"not null;default:false" json:"require_deposit"`
	DepositAmount  float64 `gorm:"type:numeric(12,2);default:0" json:"deposit_amount"`

	// Amount charged online: deposit_amount when require_deposit, the full
	// subtotal otherwise.
	TotalAmount   float64    `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	PaymentMethod *string    `gorm:"size:50" json:"payment_method,omitempty"`
	PaymentFee    float64    `gorm:"type:numeric(12,2);default:0" json:"payment_fee"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`

	Status        string `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	SessionStatus string `gorm:"size:20;not null;default:'UPCOMING'" json:"session_status"`

	VenuePaymentReceived bool       `gorm:"not null;default:false" json:"venue_payment_received"`
	VenuePaymentAmount   float64    `gorm:"type:numeric(12,2);default:0" json:"venue_payment_amount"`
	VenuePaymentMethod   *string    `gorm:"size:50" json:"venue_payment_method,omitempty"`
	VenuePaymentDate     *time.Time `json:"venue_payment_date,omitempty"`
	VenuePaymentNotes    *string    `gorm:"type:text" json:"venue_payment_notes,omitempty"`
	VenuePaymentExpired  bool       `gorm:"not null;default:false" json:"venue_payment_expired"`

	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
	SessionNotes *string    `gorm:"type:text" json:"session_notes,omitempty"`

	RefundStatus       *string    `gorm:"size:20" json:"refund_status,omitempty"`
	RefundAmount       float64    `gorm:"type:numeric(12,2);default:0" json:"refund_amount"`
	RefundMethod       *string    `gorm:"size:50" json:"refund_method,omitempty"`
	RefundDate         *time.Time `json:"refund_date,omitempty"`
	CancellationReason *string    `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CancelledBy        *string    `gorm:"size:20" json:"cancelled_by,omitempty"`

	Court Court `gorm:"foreignkey:CourtID" json:"court,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OnlineCollected is the amount actually collected through the payment
// provider: the deposit for deposit bookings, the full subtotal otherwise.
func (b *Booking) OnlineCollected() float64 {
	if b.RequireDeposit {
		return b.DepositAmount
	}
	return b.Subtotal
}

func (b *Booking) VenueCollected() float64 {
	if b.VenuePaymentReceived {
		return b.VenuePaymentAmount
	}
	return 0
}

// RemainingBalance is what is still owed at the venue. It is derived from
// subtotal and the online leg, never stored, and never negative.
func (b *Booking) RemainingBalance() float64 {
	balance := b.Subtotal - b.OnlineCollected()
	if balance < 0 {
		return 0
	}
	return balance
}

func (b *Booking) GrossRevenue() float64 {
	return b.OnlineCollected() + b.VenueCollected()
}

// NetRevenue subtracts the processing fee absorbed by the venue from the
// online leg only; the venue leg carries no fee.
func (b *Booking) NetRevenue() float64 {
	return (b.TotalAmount - b.PaymentFee) + b.VenueCollected()
}

var legalSessionStatuses = map[string][]string{
	BookingStatusPending:   {SessionStatusUpcoming},
	BookingStatusPaid:      {SessionStatusUpcoming, SessionStatusInProgress, SessionStatusCompleted},
	BookingStatusCancelled: {SessionStatusCancelled},
	BookingStatusRefunded:  {SessionStatusCancelled},
	BookingStatusExpired:   {SessionStatusCancelled},
}

// ValidStatusPair reports whether the payment axis and the attendance axis
// form a legal combination. Run after every transition.
func ValidStatusPair(status, sessionStatus string) bool {
	allowed, ok := legalSessionStatuses[status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == sessionStatus {
			return true
		}
	}
	return false
}
