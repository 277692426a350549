package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thekevinkun/padel-court-sub000/handlers"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/courts", handlers.ListCourts)
	api.Get("/slots", handlers.ListSlots)

	bookings := api.Group("/bookings")
	bookings.Post("", handlers.CreateBooking)
	bookings.Get("/lookup", handlers.LookupBooking)
	bookings.Post("/cancel", handlers.CancelBooking)
}
