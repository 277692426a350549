package services

import (
	"errors"
	"testing"
	"time"

	"github.com/thekevinkun/padel-court-sub000/models"
)

func paidUpcomingBooking(now time.Time) *models.Booking {
	return &models.Booking{
		Status:         models.BookingStatusPaid,
		SessionStatus:  models.SessionStatusUpcoming,
		RequireDeposit: true,
		Subtotal:       400000,
		DepositAmount:  200000,
		TotalAmount:    200000,
		StartTime:      now.Add(2 * time.Hour),
		EndTime:        now.Add(3 * time.Hour),
		CreatedAt:      now.Add(-1 * time.Hour),
	}
}

func TestCheckInRequiresPaidUpcoming(t *testing.T) {
	now := time.Now()

	b := paidUpcomingBooking(now)
	if err := CanCheckIn(b, now); err != nil {
		t.Fatalf("expected check-in to be allowed, got %v", err)
	}

	b.Status = models.BookingStatusPending
	var illegal *IllegalStateError
	if err := CanCheckIn(b, now); !errors.As(err, &illegal) {
		t.Errorf("expected IllegalStateError for pending booking, got %v", err)
	}

	b = paidUpcomingBooking(now)
	b.SessionStatus = models.SessionStatusCompleted
	if err := CanCheckIn(b, now); !errors.As(err, &illegal) {
		t.Errorf("expected IllegalStateError for completed session, got %v", err)
	}
}

func TestCheckInRejectedAfterSessionEnd(t *testing.T) {
	now := time.Now()
	b := paidUpcomingBooking(now)
	b.StartTime = now.Add(-3 * time.Hour)
	b.EndTime = now.Add(-2 * time.Hour)

	var illegal *IllegalStateError
	if err := CanCheckIn(b, now); !errors.As(err, &illegal) {
		t.Errorf("expected IllegalStateError after session end, got %v", err)
	}
}

func TestCheckOutBeforeCheckInFails(t *testing.T) {
	b := paidUpcomingBooking(time.Now())

	var illegal *IllegalStateError
	if err := CanCheckOut(b); !errors.As(err, &illegal) {
		t.Fatalf("expected IllegalStateError for check-out while UPCOMING, got %v", err)
	}

	b.SessionStatus = models.SessionStatusInProgress
	if err := CanCheckOut(b); err != nil {
		t.Errorf("expected check-out to be allowed while IN_PROGRESS, got %v", err)
	}
}

func TestExpireRequiresElapsedWindow(t *testing.T) {
	now := time.Now()
	b := &models.Booking{
		Status:    models.BookingStatusPending,
		CreatedAt: now.Add(-2 * time.Hour),
	}

	var illegal *IllegalStateError
	if err := CanExpire(b, now); !errors.As(err, &illegal) {
		t.Errorf("expected IllegalStateError inside payment window, got %v", err)
	}

	b.CreatedAt = now.Add(-25 * time.Hour)
	if err := CanExpire(b, now); err != nil {
		t.Errorf("expected expiry to be allowed past the window, got %v", err)
	}

	b.Status = models.BookingStatusPaid
	if err := CanExpire(b, now); !errors.As(err, &illegal) {
		t.Errorf("expected IllegalStateError for paid booking, got %v", err)
	}
}

func TestVenuePaymentGuards(t *testing.T) {
	now := time.Now()

	b := paidUpcomingBooking(now)
	if err := CanRecordVenuePayment(b, 200000, now); err != nil {
		t.Fatalf("expected venue payment to be allowed, got %v", err)
	}

	var validation *ValidationError
	if err := CanRecordVenuePayment(b, 150000, now); !errors.As(err, &validation) {
		t.Errorf("expected ValidationError for wrong amount, got %v", err)
	}

	full := paidUpcomingBooking(now)
	full.RequireDeposit = false
	full.TotalAmount = full.Subtotal
	var illegal *IllegalStateError
	if err := CanRecordVenuePayment(full, 0, now); !errors.As(err, &illegal) {
		t.Errorf("expected IllegalStateError for full-payment booking, got %v", err)
	}

	received := paidUpcomingBooking(now)
	received.VenuePaymentReceived = true
	if err := CanRecordVenuePayment(received, 200000, now); !errors.As(err, &illegal) {
		t.Errorf("expected IllegalStateError when already received, got %v", err)
	}
}

func TestVenuePaymentExpiredWindowIsDistinct(t *testing.T) {
	now := time.Now()

	pastEnd := paidUpcomingBooking(now)
	pastEnd.StartTime = now.Add(-3 * time.Hour)
	pastEnd.EndTime = now.Add(-2 * time.Hour)

	var expired *ExpiredWindowError
	if err := CanRecordVenuePayment(pastEnd, 200000, now); !errors.As(err, &expired) {
		t.Fatalf("expected ExpiredWindowError past session end, got %v", err)
	}

	flagged := paidUpcomingBooking(now)
	flagged.VenuePaymentExpired = true
	if err := CanRecordVenuePayment(flagged, 200000, now); !errors.As(err, &expired) {
		t.Errorf("expected ExpiredWindowError when flagged by the sweep, got %v", err)
	}

	// The distinct type must not be mistaken for a generic illegal state.
	var illegal *IllegalStateError
	if err := CanRecordVenuePayment(pastEnd, 200000, now); errors.As(err, &illegal) {
		t.Errorf("ExpiredWindowError must not satisfy IllegalStateError")
	}
}

func TestCancelGuards(t *testing.T) {
	now := time.Now()

	b := paidUpcomingBooking(now)
	if err := CanCancel(b, now); err != nil {
		t.Fatalf("expected cancellation to be allowed, got %v", err)
	}

	var illegal *IllegalStateError

	inProgress := paidUpcomingBooking(now)
	inProgress.SessionStatus = models.SessionStatusInProgress
	if err := CanCancel(inProgress, now); !errors.As(err, &illegal) {
		t.Errorf("expected IllegalStateError while in progress, got %v", err)
	}

	started := paidUpcomingBooking(now)
	started.StartTime = now.Add(-10 * time.Minute)
	if err := CanCancel(started, now); !errors.As(err, &illegal) {
		t.Errorf("expected IllegalStateError after session start, got %v", err)
	}

	pending := paidUpcomingBooking(now)
	pending.Status = models.BookingStatusPending
	if err := CanCancel(pending, now); !errors.As(err, &illegal) {
		t.Errorf("expected IllegalStateError for unpaid booking, got %v", err)
	}
}

func TestDuplicateConfirmationIsDistinct(t *testing.T) {
	b := &models.Booking{Status: models.BookingStatusPaid}
	if err := CanConfirmPayment(b); !errors.Is(err, ErrDuplicateSettlement) {
		t.Errorf("expected ErrDuplicateSettlement for already-paid booking, got %v", err)
	}

	b.Status = models.BookingStatusExpired
	var illegal *IllegalStateError
	if err := CanConfirmPayment(b); !errors.As(err, &illegal) {
		t.Errorf("expected IllegalStateError for expired booking, got %v", err)
	}
}
