package reservation

import (
	"net/http"
	"strconv"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/middleware"
	"hotelbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service    *Service
	reconciler *Reconciler
}

func NewHandler(service *Service, reconciler *Reconciler) *Handler {
	return &Handler{service: service, reconciler: reconciler}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

func isStaff(c *gin.Context) bool {
	role := domain.UserRole(c.GetString("role"))
	return role == domain.RoleAdmin || role == domain.RoleManager
}

// canSee lets staff see everything and guests only their own bookings.
func canSee(c *gin.Context, res *domain.Reservation) bool {
	if isStaff(c) {
		return true
	}
	uid := c.GetInt64("user_id")
	return res.GuestID == uid || res.CreatedByID == uid
}

// loadOwned fetches the reservation and reports 404 to callers who may not see it.
func (h *Handler) loadOwned(c *gin.Context) (*domain.Reservation, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}
	res, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return nil, false
	}
	if !canSee(c, res) {
		response.FromError(c, domain.ErrNotFound)
		return nil, false
	}
	return res, true
}

// CreateReservation handles POST /reservations
func (h *Handler) CreateReservation(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	actor := middleware.ActorFromContext(c)
	if !isStaff(c) && req.GuestID != 0 && req.GuestID != actor.UserID {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Guests can only book for themselves")
		return
	}

	res, err := h.service.Create(c.Request.Context(), req, actor)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"reservation": res})
}

// ListReservations handles GET /reservations (staff), optionally ?status=
func (h *Handler) ListReservations(c *gin.Context) {
	page, perPage := pageParams(c)
	f := domain.ReservationFilter{Page: page, PerPage: perPage}
	if s := c.Query("status"); s != "" {
		status, err := domain.ParseReservationStatus(s)
		if err != nil {
			response.FromError(c, err)
			return
		}
		f.Status = status
	}
	h.respondList(c, f)
}

func (h *Handler) respondList(c *gin.Context, f domain.ReservationFilter) {
	items, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paged(c, items, total, f.Page, f.PerPage)
}

// GetReservation handles GET /reservations/:id
func (h *Handler) GetReservation(c *gin.Context) {
	res, ok := h.loadOwned(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

// UpdateReservation handles PUT /reservations/:id
func (h *Handler) UpdateReservation(c *gin.Context) {
	current, ok := h.loadOwned(c)
	if !ok {
		return
	}

	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if req.Status != nil && !isStaff(c) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only staff can change reservation status")
		return
	}

	res, err := h.service.Update(c.Request.Context(), current.ID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

// CancelReservation handles POST /reservations/:id/cancel
func (h *Handler) CancelReservation(c *gin.Context) {
	current, ok := h.loadOwned(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.Cancel(ctx, current.ID); err != nil {
		response.FromError(c, err)
		return
	}
	res, err := h.service.Get(ctx, current.ID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

// SetStatus handles PATCH /reservations/:id/status (staff)
func (h *Handler) SetStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	status, err := domain.ParseReservationStatus(req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}

	res, err := h.service.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

// RefreshStatus handles POST /reservations/:id/refresh-status (staff)
func (h *Handler) RefreshStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.reconciler.ReconcileOne(ctx, id); err != nil {
		response.FromError(c, err)
		return
	}
	res, err := h.service.Get(ctx, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": res})
}

// CheckAvailability handles GET /rooms/:id/availability?check_in=&check_out=
func (h *Handler) CheckAvailability(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}

	checkIn, err1 := time.Parse(time.RFC3339, c.Query("check_in"))
	checkOut, err2 := time.Parse(time.RFC3339, c.Query("check_out"))
	if err1 != nil || err2 != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "check_in and check_out must be RFC3339 timestamps")
		return
	}

	available, err := h.service.CheckAvailability(c.Request.Context(), roomID, checkIn, checkOut)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, AvailabilityResponse{
		RoomID:    roomID,
		CheckIn:   domain.NormalizeTime(checkIn),
		CheckOut:  domain.NormalizeTime(checkOut),
		Available: available,
	})
}

// ListRoomReservations handles GET /rooms/:id/reservations (staff)
func (h *Handler) ListRoomReservations(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, perPage := pageParams(c)
	h.respondList(c, domain.ReservationFilter{RoomID: roomID, Page: page, PerPage: perPage})
}

// ListHotelReservations handles GET /hotels/:id/reservations (staff)
func (h *Handler) ListHotelReservations(c *gin.Context) {
	hotelID, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, perPage := pageParams(c)
	h.respondList(c, domain.ReservationFilter{HotelID: hotelID, Page: page, PerPage: perPage})
}

// ListGuestReservations handles GET /guests/:id/reservations?scope=upcoming|current
func (h *Handler) ListGuestReservations(c *gin.Context) {
	guestID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if !isStaff(c) && guestID != c.GetInt64("user_id") {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
		return
	}

	page, perPage := pageParams(c)
	items, total, err := h.service.ListForGuest(c.Request.Context(), guestID, GuestScope(c.Query("scope")), page, perPage)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Paged(c, items, total, page, perPage)
}
