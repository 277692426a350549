package services

import (
	"testing"
	"time"

	"github.com/thekevinkun/padel-court-sub000/models"
)

var testPolicy = RefundPolicy{
	FullRefundHours:    24,
	PartialRefundHours: 12,
	PartialPercent:     50,
}

func TestRefundTiers(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		hoursUntil float64
		wantType   string
		wantAmount float64
	}{
		{"well before full threshold", 30, models.RefundTypeFull, 200000},
		{"between thresholds", 15, models.RefundTypePartial, 100000},
		{"inside no-refund window", 5, models.RefundTypeNone, 0},
		{"exactly at full threshold", 24, models.RefundTypeFull, 200000},
		{"exactly at partial threshold", 12, models.RefundTypePartial, 100000},
		{"session already started", -1, models.RefundTypeNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessionStart := now.Add(time.Duration(tt.hoursUntil * float64(time.Hour)))
			gotType, gotAmount := testPolicy.Evaluate(200000, sessionStart, now)
			if gotType != tt.wantType {
				t.Errorf("refund type = %s, want %s", gotType, tt.wantType)
			}
			if gotAmount != tt.wantAmount {
				t.Errorf("refund amount = %v, want %v", gotAmount, tt.wantAmount)
			}
		})
	}
}

func TestPartialRefundRounds(t *testing.T) {
	policy := RefundPolicy{FullRefundHours: 24, PartialRefundHours: 12, PartialPercent: 33}
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	sessionStart := now.Add(15 * time.Hour)

	_, amount := policy.Evaluate(100001, sessionStart, now)
	if amount != 33000 {
		t.Errorf("partial refund = %v, want 33000 (rounded)", amount)
	}
}

func TestEvaluateIsPureOverCapturedNow(t *testing.T) {
	// The same captured timestamp must always produce the same tier, no
	// matter how much wall time passes between calls.
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	sessionStart := now.Add(13 * time.Hour)

	type1, amount1 := testPolicy.Evaluate(200000, sessionStart, now)
	type2, amount2 := testPolicy.Evaluate(200000, sessionStart, now)
	if type1 != type2 || amount1 != amount2 {
		t.Errorf("Evaluate is not deterministic: (%s, %v) vs (%s, %v)", type1, amount1, type2, amount2)
	}
}
