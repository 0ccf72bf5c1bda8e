package reservation

import (
	"hotelbooking/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects rg to be behind JWTAuth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	staff := middleware.StaffOnly()

	reservations := rg.Group("/reservations")
	{
		reservations.POST("", h.CreateReservation)
		reservations.GET("", staff, h.ListReservations)
		reservations.GET("/:id", h.GetReservation)
		reservations.PUT("/:id", h.UpdateReservation)
		reservations.POST("/:id/cancel", h.CancelReservation)
		reservations.PATCH("/:id/status", staff, h.SetStatus)
		reservations.POST("/:id/refresh-status", staff, h.RefreshStatus)
	}

	rg.GET("/rooms/:id/availability", h.CheckAvailability)
	rg.GET("/rooms/:id/reservations", staff, h.ListRoomReservations)
	rg.GET("/hotels/:id/reservations", staff, h.ListHotelReservations)
	rg.GET("/guests/:id/reservations", h.ListGuestReservations)
}
