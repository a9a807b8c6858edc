package handler

import (
	"net/http"
	"sync"
	"time"

	"storefront/internal/hub"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// writeTimeout bounds every push to a subscriber. The hub delivers under
// its lock, so a hung peer must fail here rather than stall publishers.
const writeTimeout = 5 * time.Second

// WSHandler upgrades WebSocket connections and ties their lifecycle to hub
// registrations: subscribed on open, deregistered before the handler returns.
type WSHandler struct {
	hub      *hub.Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewWSHandler creates a new WebSocket handler. Only the configured origin
// (and same-origin requests, which carry no Origin header) may connect.
func NewWSHandler(h *hub.Hub, allowedOrigin string, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
		logger: logger.With().Str("handler", "ws").Logger(),
	}
}

// OrderUpdates handles GET /ws/orders/{id}: status events for one order.
func (h *WSHandler) OrderUpdates(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid order ID format", h.logger)
		return
	}

	h.serve(w, r, hub.OrderTopic(orderID))
}

// AllOrderUpdates handles GET /ws/orders: status events for every order.
func (h *WSHandler) AllOrderUpdates(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, hub.TopicAllOrders)
}

// serve runs one connection's lifecycle: upgrade, subscribe, then read
// until the peer goes away. Inbound frames carry no commands; text is
// logged and discarded. The registration is removed before returning so
// the hub never delivers to a dead connection.
func (h *WSHandler) serve(w http.ResponseWriter, r *http.Request, topic string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Warn().Err(err).Str("topic", topic).Msg("websocket upgrade failed")
		return
	}

	sender := &wsSender{conn: conn}
	h.hub.Subscribe(topic, sender)

	defer func() {
		h.hub.Unsubscribe(topic, sender)
		conn.Close()
		h.logger.Debug().Str("topic", topic).Msg("websocket connection closed")
	}()

	h.logger.Debug().
		Str("topic", topic).
		Str("remote_addr", conn.RemoteAddr().String()).
		Msg("websocket connection opened")

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug().Err(err).Str("topic", topic).Msg("websocket read error")
			}
			return
		}

		if msgType == websocket.TextMessage {
			h.logger.Debug().
				Str("topic", topic).
				Str("message", string(msg)).
				Msg("ignoring inbound websocket message")
		}
	}
}

// wsSender adapts a gorilla connection to hub.Sender. The mutex serialises
// hub pushes with each other; gorilla allows only one concurrent writer.
type wsSender struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Send pushes one event, failing fast on a dead or stalled peer.
func (s *wsSender) Send(event hub.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(event)
}
