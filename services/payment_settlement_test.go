package services

import (
	"testing"

	"github.com/thekevinkun/padel-court-sub000/models"
)

func TestSettlementReplayDetection(t *testing.T) {
	txnID := "txn-001"
	otherID := "txn-002"

	tests := []struct {
		name    string
		payment *models.Payment
		want    bool
	}{
		{
			"succeeded row with same txn id",
			&models.Payment{ProviderTxnID: &txnID, Status: models.PaymentStatusSucceeded},
			true,
		},
		{
			"pending row with same txn id",
			&models.Payment{ProviderTxnID: &txnID, Status: models.PaymentStatusPending},
			false,
		},
		{
			"succeeded row with different txn id",
			&models.Payment{ProviderTxnID: &otherID, Status: models.PaymentStatusSucceeded},
			false,
		},
		{
			"row never settled by a provider",
			&models.Payment{Status: models.PaymentStatusPending},
			false,
		},
		{
			"no row at all",
			nil,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSettlementReplay(tt.payment, txnID); got != tt.want {
				t.Errorf("IsSettlementReplay = %v, want %v", got, tt.want)
			}
		})
	}
}

// Two deliveries of the same webhook must leave exactly one PAID booking and
// one succeeded ledger row: the first settles, the second is detected as a
// replay and touches nothing.
func TestRepeatedSettlementYieldsOnePaidBooking(t *testing.T) {
	booking := &models.Booking{
		Status:        models.BookingStatusPending,
		SessionStatus: models.SessionStatusUpcoming,
	}
	payment := &models.Payment{BookingID: booking.ID, Status: models.PaymentStatusPending}

	// First delivery.
	if IsSettlementReplay(payment, "txn-001") {
		t.Fatal("a pending ledger row must not be treated as a replay")
	}
	if err := CanConfirmPayment(booking); err != nil {
		t.Fatalf("expected first settlement to be allowed, got %v", err)
	}
	ApplySettlement(payment, "txn-001", "qris", 200000, 1400)
	booking.Status = models.BookingStatusPaid

	if !models.ValidStatusPair(booking.Status, booking.SessionStatus) {
		t.Fatalf("settlement left an illegal status pair: %s/%s", booking.Status, booking.SessionStatus)
	}

	// Replayed delivery: detected before any guard runs, so the booking and
	// the ledger row stay exactly as the first delivery left them.
	if !IsSettlementReplay(payment, "txn-001") {
		t.Fatal("expected the second delivery of txn-001 to be detected as a replay")
	}
	if booking.Status != models.BookingStatusPaid {
		t.Errorf("booking status = %s, want PAID", booking.Status)
	}
	if payment.Status != models.PaymentStatusSucceeded || payment.Amount != 200000 {
		t.Errorf("ledger row changed on replay: %+v", payment)
	}

	// A different transaction id against the now-paid booking is not a
	// replay; it is a conflicting settlement and gets rejected.
	if IsSettlementReplay(payment, "txn-002") {
		t.Error("a different txn id must not be treated as a replay")
	}
	if err := CanConfirmPayment(booking); err != ErrDuplicateSettlement {
		t.Errorf("expected ErrDuplicateSettlement for the conflicting delivery, got %v", err)
	}
}

func TestSettlementOverwritesPendingLedgerAmount(t *testing.T) {
	// The row created at booking time may carry a stale amount; the settled
	// figure always comes from the provider notification.
	payment := &models.Payment{Status: models.PaymentStatusPending, Amount: 150000}

	ApplySettlement(payment, "txn-001", "bank_transfer", 200000, 4000)

	if payment.Amount != 200000 {
		t.Errorf("settled amount = %v, want 200000 from the notification", payment.Amount)
	}
	if payment.Fee != 4000 {
		t.Errorf("fee = %v, want 4000", payment.Fee)
	}
	if payment.Status != models.PaymentStatusSucceeded {
		t.Errorf("status = %s, want succeeded", payment.Status)
	}
	if payment.ProviderTxnID == nil || *payment.ProviderTxnID != "txn-001" {
		t.Errorf("provider txn id not recorded: %v", payment.ProviderTxnID)
	}
	if payment.Method != "bank_transfer" {
		t.Errorf("method = %s, want bank_transfer", payment.Method)
	}
}
