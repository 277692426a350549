package services

import (
	"sort"
	"strconv"
	"strings"

	config "github.com/thekevinkun/padel-court-sub000/configs"
	"github.com/thekevinkun/padel-court-sub000/models"
)

// ReportPolicy carries the configurable peak/off-peak hour sets used both at
// slot generation (pricing period) and in the peak split of the report.
type ReportPolicy struct {
	PeakHours    map[int]bool
	OffPeakHours map[int]bool
}

func parseHourSet(raw string) map[int]bool {
	hours := make(map[int]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		h, err := strconv.Atoi(part)
		if err != nil || h < 0 || h > 23 {
			continue
		}
		hours[h] = true
	}
	return hours
}

func ReportPolicyFromConfig() ReportPolicy {
	return ReportPolicy{
		PeakHours:    parseHourSet(config.ConfigDefault("PEAK_HOURS", "6,7,8,9,15,16,17,18,19,20,21")),
		OffPeakHours: parseHourSet(config.ConfigDefault("OFFPEAK_HOURS", "10,11,12,13,14")),
	}
}

func (p ReportPolicy) ClassifyHour(hour int) string {
	if p.PeakHours[hour] {
		return models.PeriodPeak
	}
	return models.PeriodOffPeak
}

type RevenueSummary struct {
	TotalRevenue           float64 `json:"total_revenue"`
	OnlineRevenue          float64 `json:"online_revenue"`
	VenueRevenue           float64 `json:"venue_revenue"`
	NetRevenue             float64 `json:"net_revenue"`
	TotalFeesAbsorbed      float64 `json:"total_fees_absorbed"`
	TotalBookings          int     `json:"total_bookings"`
	AverageBookingValue    float64 `json:"average_booking_value"`
	DepositBookings        int     `json:"deposit_bookings"`
	FullPaymentBookings    int     `json:"full_payment_bookings"`
	TotalRefunds           int     `json:"total_refunds"`
	TotalRefundAmount      float64 `json:"total_refund_amount"`
	NetRevenueAfterRefunds float64 `json:"net_revenue_after_refunds"`
}

type RevenueComparison struct {
	TotalRevenueChange  float64 `json:"total_revenue_change"`
	NetRevenueChange    float64 `json:"net_revenue_change"`
	TotalBookingsChange float64 `json:"total_bookings_change"`
	TotalRefundsChange  float64 `json:"total_refunds_change"`
}

type DailyRevenue struct {
	Date          string  `json:"date"`
	OnlineRevenue float64 `json:"online_revenue"`
	VenueRevenue  float64 `json:"venue_revenue"`
	TotalRevenue  float64 `json:"total_revenue"`
	NetRevenue    float64 `json:"net_revenue"`
	Fees          float64 `json:"fees"`
	Bookings      int     `json:"bookings"`
}

type MethodRevenue struct {
	Method     string  `json:"method"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type CourtRevenue struct {
	CourtName string  `json:"court_name"`
	Bookings  int     `json:"bookings"`
	Revenue   float64 `json:"revenue"`
}

type HourRevenue struct {
	Hour     int     `json:"hour"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

type PeriodRevenue struct {
	Revenue    float64 `json:"revenue"`
	Bookings   int     `json:"bookings"`
	Percentage float64 `json:"percentage"`
}

type RevenueReport struct {
	Summary        RevenueSummary    `json:"summary"`
	Comparison     RevenueComparison `json:"comparison"`
	Timeline       []DailyRevenue    `json:"timeline"`
	PaymentMethods []MethodRevenue   `json:"payment_methods"`
	CourtRanking   []CourtRevenue    `json:"court_ranking"`
	BestCourt      *CourtRevenue     `json:"best_court"`
	WorstCourt     *CourtRevenue     `json:"worst_court"`
	HourRanking    []HourRevenue     `json:"hour_ranking"`
	Peak           PeriodRevenue     `json:"peak"`
	OffPeak        PeriodRevenue     `json:"off_peak"`
}

const dateLayout = "2006-01-02"

// BuildRevenueReport folds a period's PAID and REFUNDED bookings into the
// full reporting payload. Pure and total: every figure is re-derivable from
// the booking set, empty input yields zeros, and no division happens without
// a zero-check.
func BuildRevenueReport(current, previous []models.Booking, policy ReportPolicy) *RevenueReport {
	paid, refunded := partitionByStatus(current)

	report := &RevenueReport{
		Summary:        summarize(paid, refunded),
		Timeline:       buildTimeline(paid, refunded),
		PaymentMethods: breakdownByMethod(paid),
	}

	prevPaid, prevRefunded := partitionByStatus(previous)
	prevSummary := summarize(prevPaid, prevRefunded)
	report.Comparison = RevenueComparison{
		TotalRevenueChange:  percentChange(report.Summary.TotalRevenue, prevSummary.TotalRevenue),
		NetRevenueChange:    percentChange(report.Summary.NetRevenueAfterRefunds, prevSummary.NetRevenueAfterRefunds),
		TotalBookingsChange: percentChange(float64(report.Summary.TotalBookings), float64(prevSummary.TotalBookings)),
		TotalRefundsChange:  percentChange(float64(report.Summary.TotalRefunds), float64(prevSummary.TotalRefunds)),
	}

	report.CourtRanking = rankCourts(paid)
	if len(report.CourtRanking) > 0 {
		best := report.CourtRanking[0]
		report.BestCourt = &best
	}
	// A single court cannot be its own worst performer.
	if len(report.CourtRanking) >= 2 {
		worst := report.CourtRanking[len(report.CourtRanking)-1]
		report.WorstCourt = &worst
	}

	report.HourRanking = rankHours(paid)
	report.Peak, report.OffPeak = splitByPeriod(paid, policy, report.Summary.TotalRevenue)

	return report
}

func partitionByStatus(bookings []models.Booking) (paid, refunded []models.Booking) {
	for _, b := range bookings {
		switch b.Status {
		case models.BookingStatusPaid:
			paid = append(paid, b)
		case models.BookingStatusRefunded:
			refunded = append(refunded, b)
		}
	}
	return paid, refunded
}

func summarize(paid, refunded []models.Booking) RevenueSummary {
	var s RevenueSummary
	for i := range paid {
		b := &paid[i]
		s.OnlineRevenue += b.OnlineCollected()
		s.VenueRevenue += b.VenueCollected()
		s.TotalRevenue += b.GrossRevenue()
		s.NetRevenue += b.NetRevenue()
		s.TotalFeesAbsorbed += b.PaymentFee
		if b.RequireDeposit {
			s.DepositBookings++
		} else {
			s.FullPaymentBookings++
		}
	}
	s.TotalBookings = len(paid)
	if s.TotalBookings > 0 {
		s.AverageBookingValue = s.TotalRevenue / float64(s.TotalBookings)
	}

	for i := range refunded {
		s.TotalRefundAmount += refunded[i].RefundAmount
	}
	s.TotalRefunds = len(refunded)
	s.NetRevenueAfterRefunds = s.NetRevenue - s.TotalRefundAmount

	return s
}

// percentChange uses the convention that growth from zero is 100% (still
// signalling growth without dividing by zero).
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

func buildTimeline(paid, refunded []models.Booking) []DailyRevenue {
	byDate := make(map[string]*DailyRevenue)

	entry := func(date string) *DailyRevenue {
		if e, ok := byDate[date]; ok {
			return e
		}
		e := &DailyRevenue{Date: date}
		byDate[date] = e
		return e
	}

	for i := range paid {
		b := &paid[i]
		e := entry(b.Date.Format(dateLayout))
		e.OnlineRevenue += b.OnlineCollected()
		e.VenueRevenue += b.VenueCollected()
		e.TotalRevenue += b.GrossRevenue()
		e.NetRevenue += b.NetRevenue()
		e.Fees += b.PaymentFee
		e.Bookings++
	}

	// Each refund is subtracted once, on the refunded booking's own date,
	// which may create a negative-net entry on an otherwise empty day.
	for i := range refunded {
		b := &refunded[i]
		e := entry(b.Date.Format(dateLayout))
		e.NetRevenue -= b.RefundAmount
	}

	timeline := make([]DailyRevenue, 0, len(byDate))
	for _, e := range byDate {
		timeline = append(timeline, *e)
	}
	sort.Slice(timeline, func(i, j int) bool { return timeline[i].Date < timeline[j].Date })
	return timeline
}

func breakdownByMethod(paid []models.Booking) []MethodRevenue {
	buckets := make(map[string]*MethodRevenue)

	add := func(method string, amount float64) {
		bucket, ok := buckets[method]
		if !ok {
			bucket = &MethodRevenue{Method: method}
			buckets[method] = bucket
		}
		bucket.Amount += amount
		bucket.Count++
	}

	for i := range paid {
		b := &paid[i]
		method := "UNKNOWN"
		if b.PaymentMethod != nil && *b.PaymentMethod != "" {
			method = strings.ToUpper(*b.PaymentMethod)
		}
		add(method, b.OnlineCollected())

		if b.VenueCollected() > 0 {
			venueMethod := "VENUE_CASH"
			if b.VenuePaymentMethod != nil && *b.VenuePaymentMethod != "" {
				venueMethod = "VENUE_" + strings.ToUpper(*b.VenuePaymentMethod)
			}
			add(venueMethod, b.VenueCollected())
		}
	}

	var total float64
	for _, bucket := range buckets {
		total += bucket.Amount
	}

	breakdown := make([]MethodRevenue, 0, len(buckets))
	for _, bucket := range buckets {
		if total > 0 {
			bucket.Percentage = bucket.Amount / total * 100
		}
		breakdown = append(breakdown, *bucket)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Amount != breakdown[j].Amount {
			return breakdown[i].Amount > breakdown[j].Amount
		}
		return breakdown[i].Method < breakdown[j].Method
	})
	return breakdown
}

func rankCourts(paid []models.Booking) []CourtRevenue {
	byCourt := make(map[string]*CourtRevenue)
	for i := range paid {
		b := &paid[i]
		name := b.Court.Name
		if name == "" {
			name = b.CourtID.String()
		}
		court, ok := byCourt[name]
		if !ok {
			court = &CourtRevenue{CourtName: name}
			byCourt[name] = court
		}
		court.Bookings++
		court.Revenue += b.GrossRevenue()
	}

	ranking := make([]CourtRevenue, 0, len(byCourt))
	for _, court := range byCourt {
		ranking = append(ranking, *court)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Revenue != ranking[j].Revenue {
			return ranking[i].Revenue > ranking[j].Revenue
		}
		return ranking[i].CourtName < ranking[j].CourtName
	})
	return ranking
}

func rankHours(paid []models.Booking) []HourRevenue {
	byHour := make(map[int]*HourRevenue)
	for i := range paid {
		b := &paid[i]
		hour := b.StartTime.Hour()
		h, ok := byHour[hour]
		if !ok {
			h = &HourRevenue{Hour: hour}
			byHour[hour] = h
		}
		h.Bookings++
		h.Revenue += b.GrossRevenue()
	}

	ranking := make([]HourRevenue, 0, len(byHour))
	for _, h := range byHour {
		ranking = append(ranking, *h)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Bookings != ranking[j].Bookings {
			return ranking[i].Bookings > ranking[j].Bookings
		}
		return ranking[i].Hour < ranking[j].Hour
	})
	return ranking
}

func splitByPeriod(paid []models.Booking, policy ReportPolicy, totalRevenue float64) (peak, offPeak PeriodRevenue) {
	for i := range paid {
		b := &paid[i]
		if policy.ClassifyHour(b.StartTime.Hour()) == models.PeriodPeak {
			peak.Revenue += b.GrossRevenue()
			peak.Bookings++
		} else {
			offPeak.Revenue += b.GrossRevenue()
			offPeak.Bookings++
		}
	}
	if totalRevenue > 0 {
		peak.Percentage = peak.Revenue / totalRevenue * 100
		offPeak.Percentage = offPeak.Revenue / totalRevenue * 100
	}
	return peak, offPeak
}
