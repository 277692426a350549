package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thekevinkun/padel-court-sub000/handlers"
	"github.com/thekevinkun/padel-court-sub000/middleware"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	payments := api.Group("/payments")
	payments.Post("/webhook", handlers.HandlePaymentWebhook)

	adminPayments := api.Group("/admin/bookings", middleware.Protected(), middleware.AdminRequired())
	adminPayments.Post("/:bookingId/venue-payment", handlers.RecordVenuePayment)
}
