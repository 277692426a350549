package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/thekevinkun/padel-court-sub000/database"
	"github.com/thekevinkun/padel-court-sub000/models"
	"github.com/thekevinkun/padel-court-sub000/services"
	"github.com/thekevinkun/padel-court-sub000/storage"
)

func parseReportRange(c *fiber.Ctx) (start, end time.Time, err error) {
	startStr := c.Query("start_date", time.Now().AddDate(0, -1, 0).Format("2006-01-02"))
	endStr := c.Query("end_date", time.Now().Format("2006-01-02"))

	start, err = time.ParseInLocation("2006-01-02", startStr, time.Local)
	if err != nil {
		return start, end, &services.ValidationError{Reason: "Invalid start_date format. Use YYYY-MM-DD."}
	}
	end, err = time.ParseInLocation("2006-01-02", endStr, time.Local)
	if err != nil {
		return start, end, &services.ValidationError{Reason: "Invalid end_date format. Use YYYY-MM-DD."}
	}
	if end.Before(start) {
		return start, end, &services.ValidationError{Reason: "end_date must not be before start_date"}
	}
	return start, end, nil
}

func loadReportBookings(start, end time.Time) []models.Booking {
	var bookings []models.Booking
	database.DB.Preload("Court").
		Where("status IN ? AND date BETWEEN ? AND ?",
			[]string{models.BookingStatusPaid, models.BookingStatusRefunded}, start, end).
		Find(&bookings)
	return bookings
}

func buildReport(start, end time.Time) *services.RevenueReport {
	// Previous period: the immediately preceding window of equal length.
	periodDays := int(end.Sub(start).Hours()/24) + 1
	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(periodDays - 1))

	current := loadReportBookings(start, end)
	previous := loadReportBookings(prevStart, prevEnd)

	return services.BuildRevenueReport(current, previous, services.ReportPolicyFromConfig())
}

// GetRevenueReport serves the full reporting payload for a date range, with
// a short-TTL cache in front of the pure aggregation.
func GetRevenueReport(c *fiber.Ctx) error {
	start, end, err := parseReportRange(c)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	startKey := start.Format("2006-01-02")
	endKey := end.Format("2006-01-02")

	if cached := storage.Reports.Get(startKey, endKey); cached != nil {
		return c.JSON(cached)
	}

	report := buildReport(start, end)
	storage.Reports.Set(startKey, endKey, report)

	return c.JSON(report)
}

// ExportRevenueCSV is a pure serialization of the same report structures.
func ExportRevenueCSV(c *fiber.Ctx) error {
	start, end, err := parseReportRange(c)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	report := buildReport(start, end)

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)

	w.Write([]string{"Section", "Key", "Bookings", "Amount", "Net"})

	s := report.Summary
	w.Write([]string{"summary", "total_revenue", fmt.Sprintf("%d", s.TotalBookings), fmt.Sprintf("%.2f", s.TotalRevenue), fmt.Sprintf("%.2f", s.NetRevenue)})
	w.Write([]string{"summary", "online_revenue", "", fmt.Sprintf("%.2f", s.OnlineRevenue), ""})
	w.Write([]string{"summary", "venue_revenue", "", fmt.Sprintf("%.2f", s.VenueRevenue), ""})
	w.Write([]string{"summary", "fees_absorbed", "", fmt.Sprintf("%.2f", s.TotalFeesAbsorbed), ""})
	w.Write([]string{"summary", "refunds", fmt.Sprintf("%d", s.TotalRefunds), fmt.Sprintf("%.2f", s.TotalRefundAmount), fmt.Sprintf("%.2f", s.NetRevenueAfterRefunds)})

	for _, day := range report.Timeline {
		w.Write([]string{"timeline", day.Date, fmt.Sprintf("%d", day.Bookings), fmt.Sprintf("%.2f", day.TotalRevenue), fmt.Sprintf("%.2f", day.NetRevenue)})
	}
	for _, m := range report.PaymentMethods {
		w.Write([]string{"payment_method", m.Method, fmt.Sprintf("%d", m.Count), fmt.Sprintf("%.2f", m.Amount), fmt.Sprintf("%.1f%%", m.Percentage)})
	}
	for _, court := range report.CourtRanking {
		w.Write([]string{"court", court.CourtName, fmt.Sprintf("%d", court.Bookings), fmt.Sprintf("%.2f", court.Revenue), ""})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV"})
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"revenue_%s_to_%s.csv\"",
		start.Format("2006-01-02"), end.Format("2006-01-02")))

	return c.Send(b.Bytes())
}

type DashboardStatsResponse struct {
	TodayBookings    int64            `json:"today_bookings"`
	PendingBookings  int64            `json:"pending_bookings"`
	SessionsToday    int64            `json:"sessions_today"`
	UnsettledDeposit int64            `json:"unsettled_deposits"`
	RecentBookings   []models.Booking `json:"recent_bookings"`
}

func GetDashboardStats(c *fiber.Ctx) error {
	var response DashboardStatsResponse
	today := time.Now().Format("2006-01-02")

	database.DB.Model(&models.Booking{}).Where("date = ?", today).Count(&response.TodayBookings)
	database.DB.Model(&models.Booking{}).Where("status = ?", models.BookingStatusPending).Count(&response.PendingBookings)
	database.DB.Model(&models.Booking{}).
		Where("date = ? AND status = ?", today, models.BookingStatusPaid).
		Count(&response.SessionsToday)
	database.DB.Model(&models.Booking{}).
		Where("status = ? AND require_deposit = ? AND venue_payment_received = ? AND venue_payment_expired = ?",
			models.BookingStatusPaid, true, false, false).
		Count(&response.UnsettledDeposit)

	database.DB.Preload("Court").Order("created_at desc").Limit(5).Find(&response.RecentBookings)

	return c.JSON(response)
}
