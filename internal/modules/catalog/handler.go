package catalog

import (
	"net/http"
	"strconv"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid id")
		return 0, false
	}
	return id, true
}

// CreateHotel handles POST /hotels
func (h *Handler) CreateHotel(c *gin.Context) {
	var req CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	hotel, err := h.service.CreateHotel(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"hotel": hotel})
}

// GetHotel handles GET /hotels/:id
func (h *Handler) GetHotel(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	hotel, err := h.service.GetHotel(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hotel": hotel})
}

// CreateRoom handles POST /hotels/:id/rooms
func (h *Handler) CreateRoom(c *gin.Context) {
	hotelID, ok := parseID(c)
	if !ok {
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), hotelID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"room": room})
}

// ListRooms handles GET /hotels/:id/rooms?status=&min_price=&max_price=&sort=price_asc|price_desc
func (h *Handler) ListRooms(c *gin.Context) {
	hotelID, ok := parseID(c)
	if !ok {
		return
	}

	f := domain.RoomFilter{
		Status: domain.RoomStatus(c.Query("status")),
		Sort:   domain.RoomSort(c.Query("sort")),
	}
	var err error
	if f.MinPrice, err = parsePrice(c.Query("min_price")); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "min_price must be a number")
		return
	}
	if f.MaxPrice, err = parsePrice(c.Query("max_price")); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "max_price must be a number")
		return
	}

	rooms, err := h.service.ListRooms(c.Request.Context(), hotelID, f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func parsePrice(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

// CountRooms handles GET /hotels/:id/rooms/count?status=available
func (h *Handler) CountRooms(c *gin.Context) {
	hotelID, ok := parseID(c)
	if !ok {
		return
	}
	status := domain.RoomStatus(c.Query("status"))
	if status == "" {
		status = domain.RoomAvailable
	}

	count, err := h.service.CountRooms(c.Request.Context(), hotelID, status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, RoomCountResponse{HotelID: hotelID, Status: status, Count: count})
}

// UpdateRoom handles PUT /rooms/:id
func (h *Handler) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	room, err := h.service.UpdateRoom(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}

// GetRoom handles GET /rooms/:id
func (h *Handler) GetRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	room, err := h.service.GetRoom(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}
