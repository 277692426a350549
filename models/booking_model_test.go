package models

import (
	"testing"
	"time"
)

func TestDepositBookingDerivedAmounts(t *testing.T) {
	method := "CASH"
	b := Booking{
		Subtotal:       400000,
		RequireDeposit: true,
		DepositAmount:  200000,
		TotalAmount:    200000,
		Status:         BookingStatusPaid,
		SessionStatus:  SessionStatusUpcoming,
	}

	if got := b.OnlineCollected(); got != 200000 {
		t.Errorf("OnlineCollected = %v, want 200000", got)
	}
	if got := b.RemainingBalance(); got != 200000 {
		t.Errorf("RemainingBalance = %v, want 200000", got)
	}
	if got := b.GrossRevenue(); got != 200000 {
		t.Errorf("GrossRevenue before venue payment = %v, want 200000", got)
	}

	now := time.Now()
	b.VenuePaymentReceived = true
	b.VenuePaymentAmount = 200000
	b.VenuePaymentMethod = &method
	b.VenuePaymentDate = &now

	// The remaining balance is historical: settling it at the venue does not
	// change what was owed.
	if got := b.RemainingBalance(); got != 200000 {
		t.Errorf("RemainingBalance after venue payment = %v, want 200000", got)
	}
	if got := b.GrossRevenue(); got != 400000 {
		t.Errorf("GrossRevenue after venue payment = %v, want 400000", got)
	}
}

func TestFullPaymentBookingDerivedAmounts(t *testing.T) {
	b := Booking{
		Subtotal:    300000,
		TotalAmount: 300000,
		PaymentFee:  2100,
	}

	if got := b.OnlineCollected(); got != 300000 {
		t.Errorf("OnlineCollected = %v, want 300000", got)
	}
	if got := b.RemainingBalance(); got != 0 {
		t.Errorf("RemainingBalance = %v, want 0", got)
	}
	if got := b.NetRevenue(); got != 297900 {
		t.Errorf("NetRevenue = %v, want 297900", got)
	}
}

func TestRemainingBalanceNeverNegative(t *testing.T) {
	b := Booking{
		Subtotal:       100000,
		RequireDeposit: true,
		DepositAmount:  150000,
		TotalAmount:    150000,
	}

	if got := b.RemainingBalance(); got != 0 {
		t.Errorf("RemainingBalance = %v, want 0 (clamped)", got)
	}
}

func TestNetRevenueSubtractsFeeFromOnlineLegOnly(t *testing.T) {
	b := Booking{
		Subtotal:             400000,
		RequireDeposit:       true,
		DepositAmount:        200000,
		TotalAmount:          200000,
		PaymentFee:           1400,
		VenuePaymentReceived: true,
		VenuePaymentAmount:   200000,
	}

	if got := b.NetRevenue(); got != 398600 {
		t.Errorf("NetRevenue = %v, want 398600", got)
	}
}

func TestValidStatusPair(t *testing.T) {
	tests := []struct {
		status        string
		sessionStatus string
		want          bool
	}{
		{BookingStatusPending, SessionStatusUpcoming, true},
		{BookingStatusPending, SessionStatusInProgress, false},
		{BookingStatusPaid, SessionStatusUpcoming, true},
		{BookingStatusPaid, SessionStatusInProgress, true},
		{BookingStatusPaid, SessionStatusCompleted, true},
		{BookingStatusPaid, SessionStatusCancelled, false},
		{BookingStatusCancelled, SessionStatusCancelled, true},
		{BookingStatusCancelled, SessionStatusUpcoming, false},
		{BookingStatusRefunded, SessionStatusCancelled, true},
		{BookingStatusRefunded, SessionStatusCompleted, false},
		{BookingStatusExpired, SessionStatusCancelled, true},
		{BookingStatusExpired, SessionStatusUpcoming, false},
		{"UNKNOWN", SessionStatusUpcoming, false},
	}

	for _, tt := range tests {
		if got := ValidStatusPair(tt.status, tt.sessionStatus); got != tt.want {
			t.Errorf("ValidStatusPair(%s, %s) = %v, want %v", tt.status, tt.sessionStatus, got, tt.want)
		}
	}
}
