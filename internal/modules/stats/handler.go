package stats

import (
	"net/http"
	"strconv"
	"time"

	"hotelbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetHotelStats handles GET /hotels/:id/stats?from=&to=&recent=
func (h *Handler) GetHotelStats(c *gin.Context) {
	hotelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || hotelID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid hotel id")
		return
	}

	var q Query
	if v := c.Query("from"); v != "" {
		if q.From, err = time.Parse(time.RFC3339, v); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "from must be an RFC3339 timestamp")
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if q.To, err = time.Parse(time.RFC3339, v); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be an RFC3339 timestamp")
			return
		}
	}
	if v := c.Query("recent"); v != "" {
		q.RecentLimit, _ = strconv.Atoi(v)
		if q.RecentLimit > 50 {
			q.RecentLimit = 50
		}
	}

	st, err := h.service.HotelStats(c.Request.Context(), hotelID, q)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, st)
}
