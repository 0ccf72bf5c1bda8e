package catalog

import (
	"hotelbooking/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects rg to be behind JWTAuth. Writes are admin only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := middleware.AdminOnly()

	hotels := rg.Group("/hotels")
	{
		hotels.POST("", admin, h.CreateHotel)
		hotels.GET("/:id", h.GetHotel)
		hotels.POST("/:id/rooms", admin, h.CreateRoom)
		hotels.GET("/:id/rooms", h.ListRooms)
		hotels.GET("/:id/rooms/count", h.CountRooms)
	}
	rg.GET("/rooms/:id", h.GetRoom)
	rg.PUT("/rooms/:id", admin, h.UpdateRoom)
}
