package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/thekevinkun/padel-court-sub000/database"
	"github.com/thekevinkun/padel-court-sub000/models"
	"github.com/thekevinkun/padel-court-sub000/services"
	"github.com/thekevinkun/padel-court-sub000/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionNotesRequest struct {
	Notes string `json:"notes,omitempty"`
}

// CheckIn moves a paid booking's session from UPCOMING to IN_PROGRESS.
func CheckIn(c *fiber.Ctx) error {
	bookingID := c.Params("bookingId")
	if _, err := uuid.Parse(bookingID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID format"})
	}

	var req SessionNotesRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	var booking models.Booking
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Court").
			First(&booking, "id = ?", bookingID).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := services.CanCheckIn(&booking, now); err != nil {
			return err
		}

		booking.CheckedInAt = &now
		booking.SessionStatus = models.SessionStatusInProgress
		if req.Notes != "" {
			booking.SessionNotes = &req.Notes
		}
		if !models.ValidStatusPair(booking.Status, booking.SessionStatus) {
			return &services.IllegalStateError{Reason: "check-in would leave the booking in an inconsistent state"}
		}
		return tx.Save(&booking).Error
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	websocket.Publish(websocket.EventCheckedIn, booking.Reference, booking.Court.Name,
		booking.Status, booking.SessionStatus)

	return c.JSON(fiber.Map{"message": "Checked in", "booking": booking})
}

// CheckOut moves a session from IN_PROGRESS to COMPLETED.
func CheckOut(c *fiber.Ctx) error {
	bookingID := c.Params("bookingId")
	if _, err := uuid.Parse(bookingID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID format"})
	}

	var req SessionNotesRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	var booking models.Booking
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Court").
			First(&booking, "id = ?", bookingID).Error; err != nil {
			return err
		}

		if err := services.CanCheckOut(&booking); err != nil {
			return err
		}

		now := time.Now()
		booking.CheckedOutAt = &now
		booking.SessionStatus = models.SessionStatusCompleted
		if req.Notes != "" {
			booking.SessionNotes = &req.Notes
		}
		if !models.ValidStatusPair(booking.Status, booking.SessionStatus) {
			return &services.IllegalStateError{Reason: "check-out would leave the booking in an inconsistent state"}
		}
		return tx.Save(&booking).Error
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	websocket.Publish(websocket.EventCheckedOut, booking.Reference, booking.Court.Name,
		booking.Status, booking.SessionStatus)

	return c.JSON(fiber.Map{"message": "Checked out", "booking": booking})
}
