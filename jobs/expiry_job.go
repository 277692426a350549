package jobs

import (
	"log"
	"time"

	"github.com/thekevinkun/padel-court-sub000/database"
	"github.com/thekevinkun/padel-court-sub000/models"
	"github.com/thekevinkun/padel-court-sub000/services"
	"github.com/thekevinkun/padel-court-sub000/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ExpireUnpaidBookings releases slots held by bookings whose payment window
// elapsed without a confirmation.
func ExpireUnpaidBookings() {
	log.Println("Running job: ExpireUnpaidBookings...")

	now := time.Now()
	cutoff := now.Add(-services.PaymentWindow)

	var stale []models.Booking
	err := database.DB.Preload("Court").
		Where("status = ? AND created_at < ?", models.BookingStatusPending, cutoff).
		Find(&stale).Error
	if err != nil {
		log.Printf("Error finding stale bookings: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	expired := 0
	for i := range stale {
		booking := stale[i]
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&booking, "id = ?", booking.ID).Error; err != nil {
				return err
			}
			// Re-check under the lock: a webhook may have landed since the scan.
			if err := services.CanExpire(&booking, now); err != nil {
				return err
			}

			booking.Status = models.BookingStatusExpired
			booking.SessionStatus = models.SessionStatusCancelled
			if !models.ValidStatusPair(booking.Status, booking.SessionStatus) {
				return &services.IllegalStateError{Reason: "expiry would leave the booking in an inconsistent state"}
			}
			if err := tx.Save(&booking).Error; err != nil {
				return err
			}

			return tx.Model(&models.TimeSlot{}).
				Where("booking_id = ?", booking.ID).
				Updates(map[string]interface{}{
					"status":     models.SlotStatusAvailable,
					"booking_id": nil,
				}).Error
		})
		if err != nil {
			log.Printf("Skipping expiry for booking %s: %v", booking.Reference, err)
			continue
		}

		websocket.Publish(websocket.EventBookingExpired, booking.Reference, stale[i].Court.Name,
			booking.Status, booking.SessionStatus)
		expired++
	}

	if expired > 0 {
		log.Printf("Expired %d unpaid booking(s) and released their slots.", expired)
	}
}

// ExpireVenueSettlements flags deposit bookings whose session ended without
// the balance being collected. The flag makes the balance permanently
// uncollectible; booking status is untouched.
func ExpireVenueSettlements() {
	log.Println("Running job: ExpireVenueSettlements...")

	now := time.Now()

	result := database.DB.Model(&models.Booking{}).
		Where("status = ? AND require_deposit = ? AND venue_payment_received = ? AND venue_payment_expired = ? AND end_time < ?",
			models.BookingStatusPaid, true, false, false, now).
		Update("venue_payment_expired", true)

	if result.Error != nil {
		log.Printf("Error expiring venue settlement windows: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Closed the settlement window on %d booking(s).", result.RowsAffected)
	}
}
