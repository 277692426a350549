package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/thekevinkun/padel-court-sub000/database"
	"github.com/thekevinkun/padel-court-sub000/models"
	"github.com/thekevinkun/padel-court-sub000/notifications"
	"github.com/thekevinkun/padel-court-sub000/services"
	"github.com/thekevinkun/padel-court-sub000/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CancelBookingRequest struct {
	Reference string `json:"reference" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Reason    string `json:"reason" validate:"required,min=3"`
}

type AdminCancelRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// cancelBooking applies the refund policy and the cancellation write under
// one row lock. The timestamp is captured once and used for both the
// eligibility check and the persisted refund, so a slow request cannot land
// in a different refund tier than the one it was checked against.
func cancelBooking(where string, args []interface{}, reason, initiator string) (*models.Booking, error) {
	policy := services.RefundPolicyFromConfig()
	now := time.Now()

	var booking models.Booking
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Court").
			Where(where, args...).First(&booking).Error; err != nil {
			return err
		}

		if err := services.CanCancel(&booking, now); err != nil {
			return err
		}

		refundType, refundAmount := policy.Evaluate(booking.TotalAmount, booking.StartTime, now)

		if refundType != models.RefundTypeNone && refundAmount > 0 {
			refundStatus := models.RefundStatusCompleted
			booking.Status = models.BookingStatusRefunded
			booking.RefundStatus = &refundStatus
			booking.RefundAmount = refundAmount
			booking.RefundDate = &now
			if booking.RefundMethod == nil {
				booking.RefundMethod = booking.PaymentMethod
			}
		} else {
			refundStatus := models.RefundTypeNone
			booking.Status = models.BookingStatusCancelled
			booking.RefundStatus = &refundStatus
		}

		booking.SessionStatus = models.SessionStatusCancelled
		booking.CancellationReason = &reason
		booking.CancelledBy = &initiator

		if !models.ValidStatusPair(booking.Status, booking.SessionStatus) {
			return &services.IllegalStateError{Reason: "cancellation would leave the booking in an inconsistent state"}
		}
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}

		// Release the held slots back to inventory.
		return tx.Model(&models.TimeSlot{}).
			Where("booking_id = ?", booking.ID).
			Updates(map[string]interface{}{
				"status":     models.SlotStatusAvailable,
				"booking_id": nil,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	notifications.NotifyBookingCancelled(&booking)
	eventType := websocket.EventBookingCancelled
	if booking.Status == models.BookingStatusRefunded {
		eventType = websocket.EventBookingRefunded
	}
	websocket.Publish(eventType, booking.Reference, booking.Court.Name,
		booking.Status, booking.SessionStatus)

	return &booking, nil
}

// CancelBooking is the customer-facing cancellation: the caller proves
// ownership with the reference code and booking email.
func CancelBooking(c *fiber.Ctx) error {
	var req CancelBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := cancelBooking("reference = ? AND customer_email = ?",
		[]interface{}{req.Reference, req.Email}, req.Reason, services.InitiatorCustomer)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message":       "Booking cancelled",
		"booking":       booking,
		"refund_amount": booking.RefundAmount,
	})
}

// AdminCancelBooking cancels on behalf of the venue; the refund computation
// is identical regardless of who initiates.
func AdminCancelBooking(c *fiber.Ctx) error {
	bookingID := c.Params("bookingId")
	if _, err := uuid.Parse(bookingID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID format"})
	}

	var req AdminCancelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	booking, err := cancelBooking("id = ?", []interface{}{bookingID}, req.Reason, services.InitiatorAdmin)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message":       "Booking cancelled",
		"booking":       booking,
		"refund_amount": booking.RefundAmount,
	})
}
