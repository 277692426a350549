package services

import (
	"math"
	"time"

	config "github.com/thekevinkun/padel-court-sub000/configs"
	"github.com/thekevinkun/padel-court-sub000/models"
)

// RefundPolicy holds the configurable cancellation thresholds: a full refund
// above FullRefundHours before session start, a partial refund of
// PartialPercent down to PartialRefundHours, nothing below that.
type RefundPolicy struct {
	FullRefundHours    float64
	PartialRefundHours float64
	PartialPercent     float64
}

func RefundPolicyFromConfig() RefundPolicy {
	return RefundPolicy{
		FullRefundHours:    config.ConfigFloat("REFUND_FULL_HOURS", 24),
		PartialRefundHours: config.ConfigFloat("REFUND_PARTIAL_HOURS", 12),
		PartialPercent:     config.ConfigFloat("REFUND_PARTIAL_PERCENT", 50),
	}
}

// Evaluate computes the refund tier and amount for a cancellation happening
// at `now` against a session starting at `sessionStart`. Pure: the caller
// captures a single timestamp and uses it for both eligibility and
// persistence so the tier cannot drift during a slow request.
func (p RefundPolicy) Evaluate(totalAmount float64, sessionStart, now time.Time) (string, float64) {
	hoursUntil := sessionStart.Sub(now).Hours()

	switch {
	case hoursUntil >= p.FullRefundHours:
		return models.RefundTypeFull, totalAmount
	case hoursUntil >= p.PartialRefundHours:
		return models.RefundTypePartial, math.Round(totalAmount * p.PartialPercent / 100)
	default:
		return models.RefundTypeNone, 0
	}
}
