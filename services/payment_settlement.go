package services

import (
	"github.com/thekevinkun/padel-court-sub000/models"
)

// IsSettlementReplay reports whether a webhook delivery is a retry of a
// settlement that already landed: the ledger row carries the same provider
// transaction id and already succeeded. Replays are acknowledged without
// touching the booking, so repeated deliveries yield exactly one PAID
// booking and one succeeded ledger row.
func IsSettlementReplay(p *models.Payment, txnID string) bool {
	if p == nil || p.ProviderTxnID == nil {
		return false
	}
	return *p.ProviderTxnID == txnID && p.Status == models.PaymentStatusSucceeded
}

// ApplySettlement stamps the provider's confirmation onto the ledger row.
// The settled amount always comes from the provider notification, even when
// a pending row created at booking time is being reused.
func ApplySettlement(p *models.Payment, txnID, method string, amount, fee float64) {
	p.Status = models.PaymentStatusSucceeded
	p.ProviderTxnID = &txnID
	p.Method = method
	p.Amount = amount
	p.Fee = fee
}
