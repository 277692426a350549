package services

import (
	"math"
	"testing"
	"time"

	"github.com/thekevinkun/padel-court-sub000/models"
)

var testReportPolicy = ReportPolicy{
	PeakHours:    map[int]bool{6: true, 7: true, 8: true, 9: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true},
	OffPeakHours: map[int]bool{10: true, 11: true, 12: true, 13: true, 14: true},
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func paidBooking(court, date string, hour int, online, venue, fee float64, deposit bool, method string) models.Booking {
	d := day(date)
	b := models.Booking{
		Status:        models.BookingStatusPaid,
		SessionStatus: models.SessionStatusUpcoming,
		Date:          d,
		StartTime:     time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC),
		EndTime:       time.Date(d.Year(), d.Month(), d.Day(), hour+1, 0, 0, 0, time.UTC),
		TotalAmount:   online,
		PaymentFee:    fee,
		PaymentMethod: &method,
		Court:         models.Court{Name: court},
	}
	if deposit {
		b.RequireDeposit = true
		b.DepositAmount = online
		b.Subtotal = online + venue
	} else {
		b.Subtotal = online
	}
	if venue > 0 {
		venueMethod := "CASH"
		b.VenuePaymentReceived = true
		b.VenuePaymentAmount = venue
		b.VenuePaymentMethod = &venueMethod
	}
	return b
}

func refundedBooking(date string, refund float64) models.Booking {
	d := day(date)
	b := models.Booking{
		Status:        models.BookingStatusRefunded,
		SessionStatus: models.SessionStatusCancelled,
		Date:          d,
		StartTime:     time.Date(d.Year(), d.Month(), d.Day(), 10, 0, 0, 0, time.UTC),
		RefundAmount:  refund,
		Court:         models.Court{Name: "Court A"},
	}
	return b
}

func TestSummaryFolds(t *testing.T) {
	current := []models.Booking{
		paidBooking("Court A", "2025-06-01", 18, 200000, 200000, 1400, true, "qris"),
		paidBooking("Court B", "2025-06-02", 10, 300000, 0, 0, false, "bank_transfer"),
		refundedBooking("2025-06-03", 150000),
	}

	report := BuildRevenueReport(current, nil, testReportPolicy)
	s := report.Summary

	if s.TotalRevenue != 700000 {
		t.Errorf("TotalRevenue = %v, want 700000", s.TotalRevenue)
	}
	if s.OnlineRevenue != 500000 {
		t.Errorf("OnlineRevenue = %v, want 500000", s.OnlineRevenue)
	}
	if s.VenueRevenue != 200000 {
		t.Errorf("VenueRevenue = %v, want 200000", s.VenueRevenue)
	}
	if s.NetRevenue != 698600 {
		t.Errorf("NetRevenue = %v, want 698600", s.NetRevenue)
	}
	if s.TotalFeesAbsorbed != 1400 {
		t.Errorf("TotalFeesAbsorbed = %v, want 1400", s.TotalFeesAbsorbed)
	}
	if s.TotalBookings != 2 {
		t.Errorf("TotalBookings = %v, want 2", s.TotalBookings)
	}
	if s.AverageBookingValue != 350000 {
		t.Errorf("AverageBookingValue = %v, want 350000", s.AverageBookingValue)
	}
	if s.DepositBookings != 1 || s.FullPaymentBookings != 1 {
		t.Errorf("deposit/full split = %d/%d, want 1/1", s.DepositBookings, s.FullPaymentBookings)
	}
	if s.TotalRefunds != 1 || s.TotalRefundAmount != 150000 {
		t.Errorf("refunds = %d/%v, want 1/150000", s.TotalRefunds, s.TotalRefundAmount)
	}
	if s.NetRevenueAfterRefunds != 548600 {
		t.Errorf("NetRevenueAfterRefunds = %v, want 548600", s.NetRevenueAfterRefunds)
	}
}

func TestEmptyInputYieldsZeros(t *testing.T) {
	report := BuildRevenueReport(nil, nil, testReportPolicy)

	if report.Summary.TotalRevenue != 0 || report.Summary.AverageBookingValue != 0 {
		t.Errorf("empty summary should be all zeros, got %+v", report.Summary)
	}
	if len(report.Timeline) != 0 {
		t.Errorf("empty timeline expected, got %d entries", len(report.Timeline))
	}
	if report.BestCourt != nil || report.WorstCourt != nil {
		t.Errorf("no courts expected for empty input")
	}
	if report.Comparison.TotalRevenueChange != 0 {
		t.Errorf("zero-over-zero change should be 0, got %v", report.Comparison.TotalRevenueChange)
	}
}

func TestTimelineRoundTrip(t *testing.T) {
	current := []models.Booking{
		paidBooking("Court A", "2025-06-01", 8, 150000, 0, 0, false, "qris"),
		paidBooking("Court A", "2025-06-01", 18, 200000, 200000, 1400, true, "qris"),
		paidBooking("Court B", "2025-06-03", 10, 300000, 0, 4000, false, "bank_transfer"),
	}

	report := BuildRevenueReport(current, nil, testReportPolicy)

	var timelineTotal float64
	for _, dayEntry := range report.Timeline {
		timelineTotal += dayEntry.TotalRevenue
	}
	if timelineTotal != report.Summary.TotalRevenue {
		t.Errorf("timeline total %v != summary total %v", timelineTotal, report.Summary.TotalRevenue)
	}

	if len(report.Timeline) != 2 {
		t.Fatalf("expected 2 timeline entries, got %d", len(report.Timeline))
	}
	if report.Timeline[0].Date != "2025-06-01" || report.Timeline[1].Date != "2025-06-03" {
		t.Errorf("timeline not sorted ascending: %s, %s", report.Timeline[0].Date, report.Timeline[1].Date)
	}
	if report.Timeline[0].Bookings != 2 {
		t.Errorf("2025-06-01 bookings = %d, want 2", report.Timeline[0].Bookings)
	}
}

func TestRefundSubtractedOnItsOwnDateOnly(t *testing.T) {
	current := []models.Booking{
		paidBooking("Court A", "2025-06-01", 8, 150000, 0, 0, false, "qris"),
		refundedBooking("2025-06-05", 100000),
	}

	report := BuildRevenueReport(current, nil, testReportPolicy)

	if len(report.Timeline) != 2 {
		t.Fatalf("expected 2 timeline entries, got %d", len(report.Timeline))
	}

	first := report.Timeline[0]
	if first.Date != "2025-06-01" || first.NetRevenue != 150000 {
		t.Errorf("paid date entry = %+v, refund must not leak across dates", first)
	}

	// A refund on a day with no paid bookings creates a negative-net entry.
	second := report.Timeline[1]
	if second.Date != "2025-06-05" || second.NetRevenue != -100000 {
		t.Errorf("refund date entry = %+v, want net -100000", second)
	}
	if second.TotalRevenue != 0 || second.Bookings != 0 {
		t.Errorf("refund-only date must not count revenue or bookings: %+v", second)
	}

	var netTotal float64
	for _, dayEntry := range report.Timeline {
		netTotal += dayEntry.NetRevenue
	}
	if netTotal != report.Summary.NetRevenueAfterRefunds {
		t.Errorf("timeline net %v != NetRevenueAfterRefunds %v (refund double-counted?)",
			netTotal, report.Summary.NetRevenueAfterRefunds)
	}
}

func TestComparisonConventions(t *testing.T) {
	current := []models.Booking{
		paidBooking("Court A", "2025-06-01", 8, 300000, 0, 0, false, "qris"),
	}
	previous := []models.Booking{
		paidBooking("Court A", "2025-05-01", 8, 200000, 0, 0, false, "qris"),
	}

	report := BuildRevenueReport(current, previous, testReportPolicy)
	if report.Comparison.TotalRevenueChange != 50 {
		t.Errorf("TotalRevenueChange = %v, want 50", report.Comparison.TotalRevenueChange)
	}

	// Growth from an empty previous period signals 100%, not a division by
	// zero.
	fromZero := BuildRevenueReport(current, nil, testReportPolicy)
	if fromZero.Comparison.TotalRevenueChange != 100 {
		t.Errorf("change from zero = %v, want 100", fromZero.Comparison.TotalRevenueChange)
	}
	if fromZero.Comparison.TotalRefundsChange != 0 {
		t.Errorf("zero-over-zero refund change = %v, want 0", fromZero.Comparison.TotalRefundsChange)
	}
}

func TestCourtRanking(t *testing.T) {
	single := []models.Booking{
		paidBooking("Court A", "2025-06-01", 8, 150000, 0, 0, false, "qris"),
	}
	report := BuildRevenueReport(single, nil, testReportPolicy)
	if report.BestCourt == nil || report.BestCourt.CourtName != "Court A" {
		t.Errorf("best court = %+v, want Court A", report.BestCourt)
	}
	if report.WorstCourt != nil {
		t.Errorf("a single court cannot be its own worst performer, got %+v", report.WorstCourt)
	}

	multi := []models.Booking{
		paidBooking("Court A", "2025-06-01", 8, 150000, 0, 0, false, "qris"),
		paidBooking("Court B", "2025-06-01", 9, 400000, 0, 0, false, "qris"),
		paidBooking("Court B", "2025-06-02", 9, 100000, 0, 0, false, "qris"),
	}
	report = BuildRevenueReport(multi, nil, testReportPolicy)
	if report.BestCourt == nil || report.BestCourt.CourtName != "Court B" {
		t.Errorf("best court = %+v, want Court B", report.BestCourt)
	}
	if report.WorstCourt == nil || report.WorstCourt.CourtName != "Court A" {
		t.Errorf("worst court = %+v, want Court A", report.WorstCourt)
	}
	if report.BestCourt.CourtName == report.WorstCourt.CourtName {
		t.Errorf("best and worst must be distinct")
	}
	if report.BestCourt.Revenue != 500000 || report.BestCourt.Bookings != 2 {
		t.Errorf("best court totals = %+v, want 500000/2", report.BestCourt)
	}
}

func TestPaymentMethodBreakdown(t *testing.T) {
	current := []models.Booking{
		paidBooking("Court A", "2025-06-01", 18, 200000, 200000, 0, true, "qris"),
		paidBooking("Court B", "2025-06-01", 10, 100000, 0, 0, false, "qris"),
	}

	report := BuildRevenueReport(current, nil, testReportPolicy)

	buckets := make(map[string]MethodRevenue)
	var pctTotal float64
	for _, m := range report.PaymentMethods {
		buckets[m.Method] = m
		pctTotal += m.Percentage
	}

	online, ok := buckets["QRIS"]
	if !ok || online.Amount != 300000 || online.Count != 2 {
		t.Errorf("QRIS bucket = %+v, want amount 300000 count 2", online)
	}
	venue, ok := buckets["VENUE_CASH"]
	if !ok || venue.Amount != 200000 || venue.Count != 1 {
		t.Errorf("VENUE_CASH bucket = %+v, want amount 200000 count 1", venue)
	}
	if math.Abs(pctTotal-100) > 1e-9 {
		t.Errorf("percentages sum to %v, want 100", pctTotal)
	}
}

func TestHourRankingOrdersByBookings(t *testing.T) {
	current := []models.Booking{
		paidBooking("Court A", "2025-06-01", 18, 100000, 0, 0, false, "qris"),
		paidBooking("Court B", "2025-06-01", 18, 100000, 0, 0, false, "qris"),
		paidBooking("Court A", "2025-06-02", 10, 500000, 0, 0, false, "qris"),
	}

	report := BuildRevenueReport(current, nil, testReportPolicy)

	if len(report.HourRanking) != 2 {
		t.Fatalf("expected 2 hour buckets, got %d", len(report.HourRanking))
	}
	// Ranked by booking count, not revenue.
	if report.HourRanking[0].Hour != 18 || report.HourRanking[0].Bookings != 2 {
		t.Errorf("top hour = %+v, want hour 18 with 2 bookings", report.HourRanking[0])
	}
}

func TestPeakOffPeakSplit(t *testing.T) {
	current := []models.Booking{
		paidBooking("Court A", "2025-06-01", 18, 300000, 0, 0, false, "qris"),
		paidBooking("Court B", "2025-06-01", 10, 100000, 0, 0, false, "qris"),
	}

	report := BuildRevenueReport(current, nil, testReportPolicy)

	if report.Peak.Revenue != 300000 || report.Peak.Bookings != 1 {
		t.Errorf("peak = %+v, want 300000/1", report.Peak)
	}
	if report.OffPeak.Revenue != 100000 || report.OffPeak.Bookings != 1 {
		t.Errorf("off-peak = %+v, want 100000/1", report.OffPeak)
	}
	if report.Peak.Percentage != 75 || report.OffPeak.Percentage != 25 {
		t.Errorf("split percentages = %v/%v, want 75/25", report.Peak.Percentage, report.OffPeak.Percentage)
	}
}

func TestParseHourSetSkipsInvalidEntries(t *testing.T) {
	hours := parseHourSet("6, 7,abc,25,-1, ,21")

	want := map[int]bool{6: true, 7: true, 21: true}
	if len(hours) != len(want) {
		t.Fatalf("parsed %d hours, want %d: %v", len(hours), len(want), hours)
	}
	for h := range want {
		if !hours[h] {
			t.Errorf("hour %d missing from parsed set", h)
		}
	}
}

func TestClassifyHourDefaultsToOffPeak(t *testing.T) {
	if got := testReportPolicy.ClassifyHour(18); got != models.PeriodPeak {
		t.Errorf("hour 18 = %s, want peak", got)
	}
	if got := testReportPolicy.ClassifyHour(12); got != models.PeriodOffPeak {
		t.Errorf("hour 12 = %s, want off_peak", got)
	}
	// Hours outside both configured sets fall back to off-peak pricing.
	if got := testReportPolicy.ClassifyHour(23); got != models.PeriodOffPeak {
		t.Errorf("hour 23 = %s, want off_peak", got)
	}
}
