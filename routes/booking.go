package routes

import (
	"voyago/handlers"
	"voyago/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, booking *handlers.BookingHandler) {
	api := r.Group("/api")
	{
		// Advisory endpoints are public; anyone can browse availability.
		api.POST("/availability", booking.CheckAvailability)

		// Quoting and checkout act as an identified guest.
		protected := api.Group("")
		protected.Use(middleware.GuestAuthMiddleware())
		protected.POST("/quote", booking.GetQuote)
		protected.POST("/bookings", booking.CreateBooking)
		protected.GET("/bookings/:id", booking.GetBooking)
		protected.POST("/bookings/:id/cancel", booking.CancelBooking)
	}
}
