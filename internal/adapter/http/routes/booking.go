package routes

import (
	"sterling_partners/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathBooking         = "/booking"
	PathBookingSessions = "/booking-sessions"
	PathBookings        = "/bookings"
)

func addBookingRoutes(rg *gin.RouterGroup, bookingHandler *handlers.BookingHandler) {
	rg.GET(PathBooking+"/availability", bookingHandler.Availability)

	sessions := rg.Group(PathBookingSessions)
	{
		sessions.POST("", bookingHandler.OpenSession)
		sessions.GET("/:id", bookingHandler.GetSession)
		sessions.PATCH("/:id", bookingHandler.UpdateSession)
		sessions.DELETE("/:id", bookingHandler.CloseSession)
		sessions.POST("/:id/next", bookingHandler.Next)
		sessions.POST("/:id/back", bookingHandler.Back)
		sessions.POST("/:id/submit", bookingHandler.Submit)
	}

	rg.GET(PathBookings+"/:id", bookingHandler.GetBooking)
}
