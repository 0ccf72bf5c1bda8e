package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"hotelbooking/internal/domain"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

// client is one dashboard socket subscribed to a single hotel.
type client struct {
	hotelID int64
	userID  int64
	conn    *websocket.Conn
	send    chan []byte
}

// Hub fans reservation events out to the websocket clients watching a hotel.
// Clients that cannot keep up are disconnected instead of blocking Publish.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*client]struct{}
	log     *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[int64]map[*client]struct{}),
		log:     log,
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.hotelID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.hotelID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked requires h.mu held for writing.
func (h *Hub) removeLocked(c *client) {
	set, ok := h.clients[c.hotelID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.hotelID)
	}
}

// Subscribers returns the number of clients watching hotelID.
func (h *Hub) Subscribers(hotelID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[hotelID])
}

// Publish implements reservation.EventPublisher.
func (h *Hub) Publish(_ context.Context, ev domain.ReservationEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.WithError(err).Warn("realtime: marshal event")
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.clients[ev.HotelID] {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}
	h.mu.Lock()
	for _, c := range slow {
		h.log.WithFields(logrus.Fields{"hotel_id": c.hotelID, "user_id": c.userID}).
			Warn("realtime: dropping slow client")
		h.removeLocked(c)
	}
	h.mu.Unlock()
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for c := range set {
			h.removeLocked(c)
		}
	}
}

// serve runs the client until the socket closes. It blocks.
func (h *Hub) serve(conn *websocket.Conn, hotelID, userID int64) {
	c := &client{
		hotelID: hotelID,
		userID:  userID,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

// readPump only services control frames; dashboards never send data.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.WithError(err).WithField("hotel_id", c.hotelID).Debug("realtime: read")
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
