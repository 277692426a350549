package handlers

import (
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	config "github.com/thekevinkun/padel-court-sub000/configs"
	"github.com/thekevinkun/padel-court-sub000/database"
	"github.com/thekevinkun/padel-court-sub000/models"
	"github.com/thekevinkun/padel-court-sub000/notifications"
	"github.com/thekevinkun/padel-court-sub000/payments"
	"github.com/thekevinkun/padel-court-sub000/services"
	"github.com/thekevinkun/padel-court-sub000/utils"
	"github.com/thekevinkun/padel-court-sub000/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateBookingRequest struct {
	CourtID          string `json:"court_id" validate:"required,uuid"`
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	StartHour        int    `json:"start_hour" validate:"min=0,max=23"`
	DurationHours    int    `json:"duration_hours" validate:"required,min=1,max=4"`
	Players          int    `json:"players" validate:"required,min=1,max=8"`
	CustomerName     string `json:"customer_name" validate:"required,min=2"`
	CustomerEmail    string `json:"customer_email" validate:"required,email"`
	CustomerPhone    string `json:"customer_phone" validate:"required,min=8"`
	CustomerWhatsApp string `json:"customer_whatsapp,omitempty"`
	PaymentMode      string `json:"payment_mode" validate:"required,oneof=full deposit"`
	RacketRentals    int    `json:"racket_rentals" validate:"min=0,max=8"`
}

// CreateBooking reserves the covered hour slots under row locks and creates
// a PENDING booking with a pending ledger row. Two customers racing for the
// same slot cannot both succeed; the loser sees a slot-unavailable conflict.
func CreateBooking(c *fiber.Ctx) error {
	var req CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	courtID, _ := uuid.Parse(req.CourtID)
	date, _ := time.ParseInLocation("2006-01-02", req.Date, time.Local)

	var court models.Court
	if err := database.DB.First(&court, "id = ? AND is_active = ?", courtID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Court not found"})
	}

	var booking models.Booking
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var slots []models.TimeSlot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("court_id = ? AND date = ? AND start_hour >= ? AND start_hour < ?",
				courtID, date, req.StartHour, req.StartHour+req.DurationHours).
			Order("start_hour asc").
			Find(&slots).Error; err != nil {
			return err
		}
		if len(slots) != req.DurationHours {
			return &services.ValidationError{Reason: "the requested time window is not fully open for this court"}
		}
		for i := range slots {
			if !slots[i].IsBookable() {
				return services.ErrSlotUnavailable
			}
		}

		var subtotal float64
		for i := range slots {
			subtotal += slots[i].PricePerPerson * float64(req.Players)
		}
		subtotal += float64(req.RacketRentals) * config.ConfigFloat("RACKET_RENTAL_PRICE", 35000)

		requireDeposit := req.PaymentMode == "deposit"
		var depositAmount float64
		if requireDeposit {
			depositAmount = math.Round(subtotal * config.ConfigFloat("DEPOSIT_PERCENT", 50) / 100)
		}
		totalAmount := subtotal
		if requireDeposit {
			totalAmount = depositAmount
		}

		reference, err := utils.GenerateBookingReference(tx)
		if err != nil {
			return err
		}

		booking = models.Booking{
			Reference:        reference,
			CourtID:          courtID,
			Date:             date,
			StartTime:        slots[0].StartTime,
			EndTime:          slots[len(slots)-1].EndTime,
			DurationHours:    req.DurationHours,
			Players:          req.Players,
			CustomerName:     req.CustomerName,
			CustomerEmail:    req.CustomerEmail,
			CustomerPhone:    req.CustomerPhone,
			CustomerWhatsApp: req.CustomerWhatsApp,
			Subtotal:         subtotal,
			RequireDeposit:   requireDeposit,
			DepositAmount:    depositAmount,
			TotalAmount:      totalAmount,
			Status:           models.BookingStatusPending,
			SessionStatus:    models.SessionStatusUpcoming,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		for i := range slots {
			slots[i].Status = models.SlotStatusBooked
			slots[i].BookingID = &booking.ID
			if err := tx.Save(&slots[i]).Error; err != nil {
				return err
			}
		}

		payment := models.Payment{
			BookingID: booking.ID,
			Provider:  "midtrans",
			Amount:    totalAmount,
			Status:    models.PaymentStatusPending,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	booking.Court = court

	var paymentURL string
	snap, err := payments.CreateSnapTransaction(booking.Reference, booking.TotalAmount,
		booking.CustomerName, booking.CustomerEmail, booking.CustomerPhone)
	if err != nil {
		log.Printf("🔥 Failed to open payment page for %s: %v", booking.Reference, err)
	} else {
		paymentURL = snap.RedirectURL
	}

	notifications.NotifyBookingCreated(&booking, paymentURL)
	websocket.Publish(websocket.EventBookingCreated, booking.Reference, court.Name,
		booking.Status, booking.SessionStatus)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"booking":     booking,
		"payment_url": paymentURL,
	})
}

// LookupBooking is the public read API: a booking is addressable by its
// reference code plus the customer email it was created with.
func LookupBooking(c *fiber.Ctx) error {
	reference := c.Query("reference")
	email := c.Query("email")
	if reference == "" || email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reference and email are required"})
	}

	var booking models.Booking
	if err := database.DB.Preload("Court").
		Where("reference = ? AND customer_email = ?", reference, email).
		First(&booking).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Booking not found"})
	}

	return c.JSON(fiber.Map{
		"booking":           booking,
		"remaining_balance": booking.RemainingBalance(),
		"gross_revenue":     booking.GrossRevenue(),
	})
}

func AdminListBookings(c *fiber.Ctx) error {
	query := database.DB.Preload("Court").Order("date desc, start_time desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if sessionStatus := c.Query("session_status"); sessionStatus != "" {
		query = query.Where("session_status = ?", sessionStatus)
	}
	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD."})
		}
		query = query.Where("date = ?", date)
	}

	var bookings []models.Booking
	query.Limit(200).Find(&bookings)

	return c.JSON(bookings)
}

func AdminGetPayments(c *fiber.Ctx) error {
	query := database.DB.Preload("Booking").Order("created_at desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var ledger []models.Payment
	query.Limit(200).Find(&ledger)

	return c.JSON(ledger)
}
