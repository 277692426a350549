package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thekevinkun/padel-court-sub000/handlers"
	"github.com/thekevinkun/padel-court-sub000/middleware"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/dashboard-stats", handlers.GetDashboardStats)

	courts := admin.Group("/courts")
	courts.Post("", handlers.CreateCourt)

	slots := admin.Group("/slots")
	slots.Post("/generate", handlers.GenerateSlots)
	slots.Put("/:slotId/block", handlers.BlockSlot)
	slots.Put("/:slotId/unblock", handlers.UnblockSlot)

	bookings := admin.Group("/bookings")
	bookings.Get("", handlers.AdminListBookings)
	bookings.Post("/:bookingId/check-in", handlers.CheckIn)
	bookings.Post("/:bookingId/check-out", handlers.CheckOut)
	bookings.Post("/:bookingId/cancel", handlers.AdminCancelBooking)

	admin.Get("/payments", handlers.AdminGetPayments)

	reports := admin.Group("/reports")
	reports.Get("/revenue", handlers.GetRevenueReport)
	reports.Get("/revenue/export", handlers.ExportRevenueCSV)

	// Live booking feed for the admin dashboard. The upgrade is gated before
	// the JWT middleware chain ends so plain HTTP requests get a 426.
	admin.Use("/feed", handlers.AdminFeedUpgrade)
	admin.Get("/feed", handlers.AdminFeed)
}
