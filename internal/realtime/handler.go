package realtime

import (
	"net/http"
	"strconv"

	"hotelbooking/internal/middleware"
	"hotelbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler accepts handshakes from the same origins as the CORS
// middleware. Requests without an Origin header come from non-browser
// clients and are let through.
func NewHandler(hub *Hub, extraOrigins []string) *Handler {
	allowed := middleware.AllowedOrigins(extraOrigins)
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// RegisterRoutes expects rg to be behind QueryTokenAuth, since browsers
// cannot set headers on a websocket handshake.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/hotels/:id", middleware.StaffOnly(), h.ServeHotel)
}

// ServeHotel handles GET /ws/hotels/:id?token=JWT
func (h *Handler) ServeHotel(c *gin.Context) {
	hotelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || hotelID <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid hotel id")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.hub.log.WithError(err).Warn("realtime: upgrade failed")
		return
	}

	actor := middleware.ActorFromContext(c)
	h.hub.log.WithField("hotel_id", hotelID).WithField("user_id", actor.UserID).Info("realtime: client connected")
	h.hub.serve(conn, hotelID, actor.UserID)
}
