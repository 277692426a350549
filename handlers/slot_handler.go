package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	config "github.com/thekevinkun/padel-court-sub000/configs"
	"github.com/thekevinkun/padel-court-sub000/database"
	"github.com/thekevinkun/padel-court-sub000/models"
	"github.com/thekevinkun/padel-court-sub000/services"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GenerateSlotsRequest struct {
	CourtID   string `json:"court_id" validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	OpenHour  int    `json:"open_hour" validate:"min=0,max=23"`
	CloseHour int    `json:"close_hour" validate:"required,min=1,max=24"`
}

// GenerateSlots creates the bookable hour-blocks for a court over a date
// range. Existing slots are left untouched so the job can be re-run safely.
func GenerateSlots(c *fiber.Ctx) error {
	var req GenerateSlotsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.CloseHour <= req.OpenHour {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "close_hour must be after open_hour"})
	}

	courtID, _ := uuid.Parse(req.CourtID)
	var court models.Court
	if err := database.DB.First(&court, "id = ? AND is_active = ?", courtID, true).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Court not found"})
	}

	startDate, _ := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
	endDate, _ := time.ParseInLocation("2006-01-02", req.EndDate, time.Local)
	if endDate.Before(startDate) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must not be before start_date"})
	}

	policy := services.ReportPolicyFromConfig()
	peakMultiplier := config.ConfigFloat("PEAK_PRICE_MULTIPLIER", 1.5)

	created := 0
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
			for hour := req.OpenHour; hour < req.CloseHour; hour++ {
				var existing models.TimeSlot
				err := tx.Where("court_id = ? AND date = ? AND start_hour = ?", courtID, date, hour).First(&existing).Error
				if err == nil {
					continue
				}
				if err != gorm.ErrRecordNotFound {
					return err
				}

				period := policy.ClassifyHour(hour)
				price := court.BasePricePerPerson
				if period == models.PeriodPeak {
					price = price * peakMultiplier
				}

				slot := models.TimeSlot{
					CourtID:        courtID,
					Date:           date,
					StartHour:      hour,
					StartTime:      time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, time.Local),
					EndTime:        time.Date(date.Year(), date.Month(), date.Day(), hour+1, 0, 0, 0, time.Local),
					PricePerPerson: price,
					PeriodType:     period,
					Status:         models.SlotStatusAvailable,
				}
				if err := tx.Create(&slot).Error; err != nil {
					return err
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate slots"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("Generated %d slot(s)", created),
		"created": created,
	})
}

func ListSlots(c *fiber.Ctx) error {
	courtID := c.Query("court_id")
	dateStr := c.Query("date", time.Now().Format("2006-01-02"))

	date, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date format. Use YYYY-MM-DD."})
	}

	query := database.DB.Preload("Court").Where("date = ?", date).Order("start_hour asc")
	if courtID != "" {
		if _, err := uuid.Parse(courtID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid court_id"})
		}
		query = query.Where("court_id = ?", courtID)
	}

	var slots []models.TimeSlot
	query.Find(&slots)

	return c.JSON(slots)
}

func ListCourts(c *fiber.Ctx) error {
	var courts []models.Court
	database.DB.Where("is_active = ?", true).Order("name asc").Find(&courts)
	return c.JSON(courts)
}

type CreateCourtRequest struct {
	Name               string  `json:"name" validate:"required,min=2"`
	Description        *string `json:"description,omitempty"`
	Surface            *string `json:"surface,omitempty"`
	BasePricePerPerson float64 `json:"base_price_per_person" validate:"required,gt=0"`
}

func CreateCourt(c *fiber.Ctx) error {
	var req CreateCourtRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	court := models.Court{
		Name:               req.Name,
		Description:        req.Description,
		Surface:            req.Surface,
		BasePricePerPerson: req.BasePricePerPerson,
		IsActive:           true,
	}
	if err := database.DB.Create(&court).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A court with this name already exists"})
	}

	return c.Status(fiber.StatusCreated).JSON(court)
}

// BlockSlot takes an available slot out of inventory for maintenance or a
// private event. Booked slots cannot be blocked.
func BlockSlot(c *fiber.Ctx) error {
	slotID := c.Params("slotId")
	if _, err := uuid.Parse(slotID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slot ID format"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var slot models.TimeSlot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&slot, "id = ?", slotID).Error; err != nil {
			return err
		}
		if slot.Status == models.SlotStatusBooked {
			return &services.IllegalStateError{Reason: "cannot block a slot that is already booked"}
		}
		slot.Status = models.SlotStatusBlocked
		return tx.Save(&slot).Error
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "Slot blocked"})
}

func UnblockSlot(c *fiber.Ctx) error {
	slotID := c.Params("slotId")
	if _, err := uuid.Parse(slotID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slot ID format"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var slot models.TimeSlot
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&slot, "id = ?", slotID).Error; err != nil {
			return err
		}
		if slot.Status != models.SlotStatusBlocked {
			return &services.IllegalStateError{Reason: "only blocked slots can be unblocked"}
		}
		slot.Status = models.SlotStatusAvailable
		return tx.Save(&slot).Error
	})
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"message": "Slot unblocked"})
}
