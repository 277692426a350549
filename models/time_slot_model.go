package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SlotStatusAvailable = "available"
	SlotStatusBooked    = "booked"
	SlotStatusBlocked   = "blocked"
)

const (
	PeriodPeak    = "peak"
	PeriodOffPeak = "off_peak"
)

type TimeSlot struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CourtID   uuid.UUID `gorm:"not null;index:idx_slot_court_date" json:"court_id"`
	Date      time.Time `gorm:"type:date;not null;index:idx_slot_court_date" json:"date"`
	StartHour int       `gorm:"not null" json:"start_hour"`
	StartTime time.Time `gorm:"not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	PricePerPerson float64 `gorm:"type:numeric(12,2);not null" json:"price_per_person"`
	PeriodType     string  `gorm:"size:20;not null" json:"period_type"`
	Status         string  `gorm:"size:20;not null;default:'available'" json:"status"`

	BookingID *uuid.UUID `json:"booking_id,omitempty"`

	Court Court `gorm:"foreignkey:CourtID" json:"court,omitempty"`
}

func (s *TimeSlot) IsBookable() bool {
	return s.Status == SlotStatusAvailable
}
