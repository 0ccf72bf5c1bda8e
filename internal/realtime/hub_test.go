package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/middleware"
	"hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, hub *Hub) (*httptest.Server, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtSvc := jwt.New("test-secret", time.Hour)

	router := gin.New()
	NewHandler(hub, nil).RegisterRoutes(router.Group("/ws", middleware.QueryTokenAuth(jwtSvc)))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, jwtSvc
}

func wsURL(srv *httptest.Server, path, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path + "?token=" + token
}

func TestHub_FanOutPerHotel(t *testing.T) {
	hub := NewHub(logger.Discard())
	srv, jwtSvc := newServer(t, hub)
	defer hub.Close()

	token, err := jwtSvc.GenerateToken(2, "manager")
	require.NoError(t, err)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/hotels/7", token), nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers(7) == 1 }, time.Second, 10*time.Millisecond)

	// another hotel's event must not reach this socket
	hub.Publish(context.Background(), domain.ReservationEvent{Type: domain.EventReservationCreated, HotelID: 8})
	hub.Publish(context.Background(), domain.ReservationEvent{
		Type:        domain.EventReservationStatusChanged,
		HotelID:     7,
		Reservation: domain.Reservation{ID: 42, HotelID: 7, Status: domain.ReservationCheckedIn},
		RoomStatus:  domain.RoomOccupied,
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev domain.ReservationEvent
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, domain.EventReservationStatusChanged, ev.Type)
	assert.EqualValues(t, 42, ev.Reservation.ID)
	assert.Equal(t, domain.RoomOccupied, ev.RoomStatus)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Subscribers(7) == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_RejectsGuestsAndMissingToken(t *testing.T) {
	hub := NewHub(logger.Discard())
	srv, jwtSvc := newServer(t, hub)

	token, err := jwtSvc.GenerateToken(3, "guest")
	require.NoError(t, err)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/hotels/7", token), nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "/ws/hotels/7", ""), nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub(logger.Discard())
	c := &client{hotelID: 1, userID: 2, send: make(chan []byte, sendBuffer)}
	hub.register(c)

	ev := domain.ReservationEvent{Type: domain.EventReservationUpdated, HotelID: 1}
	for i := 0; i < sendBuffer; i++ {
		hub.Publish(context.Background(), ev)
	}
	assert.Equal(t, 1, hub.Subscribers(1))

	hub.Publish(context.Background(), ev)
	assert.Equal(t, 0, hub.Subscribers(1))

	// buffered messages drain, then the channel reports closed
	for i := 0; i < sendBuffer; i++ {
		<-c.send
	}
	_, ok := <-c.send
	assert.False(t, ok)
}

func TestHub_PublishWithoutSubscribers(t *testing.T) {
	hub := NewHub(logger.Discard())
	assert.NotPanics(t, func() {
		hub.Publish(context.Background(), domain.ReservationEvent{HotelID: 5})
	})
}

func TestHandler_OriginFollowsCORSAllowList(t *testing.T) {
	hub := NewHub(logger.Discard())
	srv, jwtSvc := newServer(t, hub)
	defer hub.Close()

	token, err := jwtSvc.GenerateToken(1, "admin")
	require.NoError(t, err)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/hotels/7", token), http.Header{"Origin": {"https://evil.example"}})
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/hotels/7", token), http.Header{"Origin": {"http://localhost:5173"}})
	require.NoError(t, err)
	resp.Body.Close()
	conn.Close()
}
