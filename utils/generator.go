package utils

import (
	"math/rand"
	"time"

	"github.com/thekevinkun/padel-court-sub000/models"
	"gorm.io/gorm"
)

const referenceSuffixLength = 8
const letterBytes = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateBookingReference returns a human-readable reference code unique
// among bookings, e.g. "PB-7KQ2M9XT". Ambiguous characters (0/O, 1/I) are
// excluded from the alphabet.
func GenerateBookingReference(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, referenceSuffixLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		reference := "PB-" + string(b)

		var booking models.Booking
		err := tx.Where("reference = ?", reference).First(&booking).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return reference, nil
			}
			return "", err
		}
	}
}
