package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/thekevinkun/padel-court-sub000/database"
	"github.com/thekevinkun/padel-court-sub000/models"
	"github.com/thekevinkun/padel-court-sub000/notifications"
	"github.com/thekevinkun/padel-court-sub000/payments"
	"github.com/thekevinkun/padel-court-sub000/services"
	"github.com/thekevinkun/padel-court-sub000/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HandlePaymentWebhook records the online settlement reported by the payment
// provider. Idempotent on the provider transaction id: a replayed delivery
// is acknowledged without touching the ledger, while a conflicting second
// settlement for an already-paid booking is rejected.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	var notification payments.WebhookNotification
	if err := c.BodyParser(&notification); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse webhook payload"})
	}

	if !payments.VerifySignature(&notification) {
		log.Printf("🔥 Webhook signature mismatch for order %s", notification.OrderID)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid signature"})
	}

	log.Printf("Received webhook for order %s, txn %s, status %s",
		notification.OrderID, notification.TransactionID, notification.TransactionStatus)

	switch notification.Outcome() {
	case payments.OutcomePending:
		return c.JSON(fiber.Map{"message": "Acknowledged pending payment"})
	case payments.OutcomeFailure:
		database.DB.Model(&models.Payment{}).
			Where("status = ? AND booking_id IN (?)", models.PaymentStatusPending,
				database.DB.Model(&models.Booking{}).Select("id").Where("reference = ?", notification.OrderID)).
			Update("status", models.PaymentStatusFailed)
		return c.JSON(fiber.Map{"message": "Acknowledged failed payment"})
	}

	var booking models.Booking
	alreadyProcessed := false

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Court").
			First(&booking, "reference = ?", notification.OrderID).Error; err != nil {
			return err
		}

		// Genuine retry: this transaction id already settled this booking.
		var existing models.Payment
		if err := tx.Where("provider_txn_id = ? AND booking_id = ?",
			notification.TransactionID, booking.ID).First(&existing).Error; err == nil {
			if services.IsSettlementReplay(&existing, notification.TransactionID) {
				alreadyProcessed = true
				return nil
			}
		}

		if err := services.CanConfirmPayment(&booking); err != nil {
			return err
		}

		amount := notification.Amount()
		fee := payments.ProcessingFee(notification.PaymentType, amount)
		now := time.Now()

		var payment models.Payment
		if err := tx.Where("booking_id = ? AND status = ?", booking.ID, models.PaymentStatusPending).
			First(&payment).Error; err != nil {
			payment = models.Payment{BookingID: booking.ID, Provider: "midtrans"}
		}
		services.ApplySettlement(&payment, notification.TransactionID, notification.PaymentType, amount, fee)
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		booking.Status = models.BookingStatusPaid
		booking.PaymentMethod = &notification.PaymentType
		booking.PaymentFee = fee
		booking.PaidAt = &now
		if !models.ValidStatusPair(booking.Status, booking.SessionStatus) {
			return &services.IllegalStateError{Reason: "payment confirmation would leave the booking in an inconsistent state"}
		}
		return tx.Save(&booking).Error
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	if alreadyProcessed {
		return c.JSON(fiber.Map{"message": "Webhook already processed"})
	}

	notifications.NotifyBookingPaid(&booking)
	go notifications.GenerateAndSendReceipt(&booking)
	websocket.Publish(websocket.EventBookingPaid, booking.Reference, booking.Court.Name,
		booking.Status, booking.SessionStatus)

	return c.JSON(fiber.Map{"message": "Webhook processed successfully"})
}

type VenuePaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required,oneof=CASH CARD QRIS TRANSFER"`
	Notes  string  `json:"notes,omitempty"`
}

// RecordVenuePayment settles the remaining balance of a deposit booking in
// person. The amount must match the remaining balance exactly; an elapsed
// session window surfaces as EXPIRED_WINDOW so the operator UI refreshes.
func RecordVenuePayment(c *fiber.Ctx) error {
	bookingID := c.Params("bookingId")
	if _, err := uuid.Parse(bookingID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID format"})
	}

	var req VenuePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var booking models.Booking
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Court").
			First(&booking, "id = ?", bookingID).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := services.CanRecordVenuePayment(&booking, req.Amount, now); err != nil {
			return err
		}

		booking.VenuePaymentReceived = true
		booking.VenuePaymentAmount = req.Amount
		booking.VenuePaymentMethod = &req.Method
		booking.VenuePaymentDate = &now
		if req.Notes != "" {
			booking.VenuePaymentNotes = &req.Notes
		}
		return tx.Save(&booking).Error
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message":       "Venue payment recorded",
		"booking":       booking,
		"gross_revenue": booking.GrossRevenue(),
	})
}
