package services

import (
	"fmt"
	"time"

	"github.com/thekevinkun/padel-court-sub000/models"
)

// PaymentWindow is how long a PENDING booking holds its slots before the
// expiry sweep releases them.
const PaymentWindow = 24 * time.Hour

const (
	InitiatorCustomer = "customer"
	InitiatorAdmin    = "admin"
)

// CanConfirmPayment guards the PENDING -> PAID transition.
func CanConfirmPayment(b *models.Booking) error {
	if b.Status == models.BookingStatusPaid {
		return ErrDuplicateSettlement
	}
	if b.Status != models.BookingStatusPending {
		return &IllegalStateError{Reason: fmt.Sprintf("cannot confirm payment for a %s booking", b.Status)}
	}
	return nil
}

// CanCheckIn guards UPCOMING -> IN_PROGRESS. Only a paid booking whose
// session has not yet ended can be checked in.
func CanCheckIn(b *models.Booking, now time.Time) error {
	if b.Status != models.BookingStatusPaid {
		return &IllegalStateError{Reason: fmt.Sprintf("cannot check in a %s booking", b.Status)}
	}
	if b.SessionStatus != models.SessionStatusUpcoming {
		switch b.SessionStatus {
		case models.SessionStatusInProgress:
			return &IllegalStateError{Reason: "session is already in progress"}
		case models.SessionStatusCompleted:
			return &IllegalStateError{Reason: "session already completed"}
		default:
			return &IllegalStateError{Reason: "session has been cancelled"}
		}
	}
	if now.After(b.EndTime) {
		return &IllegalStateError{Reason: "session end time has already passed"}
	}
	return nil
}

// CanCheckOut guards IN_PROGRESS -> COMPLETED.
func CanCheckOut(b *models.Booking) error {
	if b.SessionStatus != models.SessionStatusInProgress {
		return &IllegalStateError{Reason: fmt.Sprintf("cannot check out a session that is %s", b.SessionStatus)}
	}
	return nil
}

// CanExpire guards PENDING -> EXPIRED: only unpaid bookings past the payment
// window may be expired.
func CanExpire(b *models.Booking, now time.Time) error {
	if b.Status != models.BookingStatusPending {
		return &IllegalStateError{Reason: fmt.Sprintf("cannot expire a %s booking", b.Status)}
	}
	if !now.After(b.CreatedAt.Add(PaymentWindow)) {
		return &IllegalStateError{Reason: "payment window has not elapsed yet"}
	}
	return nil
}

// CanRecordVenuePayment guards the in-person settlement of a deposit
// booking's remaining balance. An elapsed session window is surfaced as
// ExpiredWindowError so the UI can refresh state instead of alarming staff.
func CanRecordVenuePayment(b *models.Booking, amount float64, now time.Time) error {
	if b.Status != models.BookingStatusPaid {
		return &IllegalStateError{Reason: fmt.Sprintf("cannot record a venue payment for a %s booking", b.Status)}
	}
	if !b.RequireDeposit {
		return &IllegalStateError{Reason: "booking was paid in full online; nothing is due at the venue"}
	}
	if b.VenuePaymentReceived {
		return &IllegalStateError{Reason: "venue payment has already been recorded"}
	}
	if b.VenuePaymentExpired || now.After(b.EndTime) {
		return &ExpiredWindowError{Reason: "the settlement window for this booking has closed"}
	}
	if amount != b.RemainingBalance() {
		return &ValidationError{Reason: fmt.Sprintf("amount must equal the remaining balance of %.2f", b.RemainingBalance())}
	}
	return nil
}

// CanCancel guards cancellation regardless of initiator: only paid bookings
// whose session has neither started nor passed can be cancelled.
func CanCancel(b *models.Booking, now time.Time) error {
	if b.Status != models.BookingStatusPaid {
		return &IllegalStateError{Reason: fmt.Sprintf("cannot cancel a %s booking", b.Status)}
	}
	if b.SessionStatus == models.SessionStatusInProgress {
		return &IllegalStateError{Reason: "session is already in progress"}
	}
	if b.SessionStatus == models.SessionStatusCompleted {
		return &IllegalStateError{Reason: "session already completed"}
	}
	if now.After(b.StartTime) {
		return &IllegalStateError{Reason: "session start time has already passed"}
	}
	return nil
}
