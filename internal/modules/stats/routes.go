package stats

import (
	"hotelbooking/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes expects rg to be behind JWTAuth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/hotels/:id/stats", middleware.StaffOnly(), h.GetHotelStats)
}
