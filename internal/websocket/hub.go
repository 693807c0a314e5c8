package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"rentkar/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for dev simplicity
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client represents a single connected WebSocket client, bound to the user
// that authenticated the connection.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	UserID uuid.UUID
	Send   chan []byte
}

// event is the JSON envelope for every notification pushed to a client.
type event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

type userMessage struct {
	userID uuid.UUID
	data   []byte
}

// Hub routes borrow-request lifecycle notifications to the connections of a
// specific user. A user may hold several connections (multiple tabs); each
// receives every event addressed to that user.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	send       chan userMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

// NewHub initializes a new WS Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		send:       make(chan userMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// NotifyUser implements service.Notifier. Marshalling failures and absent
// connections are dropped silently; notifications are best-effort.
func (h *Hub) NotifyUser(userID uuid.UUID, eventName string, payload interface{}) {
	data, err := json.Marshal(event{Event: eventName, Payload: payload})
	if err != nil {
		log.Printf("failed to marshal %s notification: %v", eventName, err)
		return
	}
	h.send <- userMessage{userID: userID, data: data}
}

// Run starts the core dispatch loop for WebSocket events
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.UserID]; ok {
				if _, ok := conns[client]; ok {
					delete(conns, client)
					close(client.Send)
					if len(conns) == 0 {
						delete(h.clients, client.UserID)
					}
				}
			}
			h.mu.Unlock()
		case msg := <-h.send:
			h.mu.Lock()
			for client := range h.clients[msg.userID] {
				select {
				case client.Send <- msg.data:
				default:
					close(client.Send)
					delete(h.clients[msg.userID], client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// writePump handles writing messages from the Hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		_ = c.Conn.Close()
	}()
	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump drains the connection so pings and close frames are handled; the
// hub never expects client-initiated messages.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		_ = c.Conn.Close()
	}()
	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}
	}
}

// ServeWs authenticates the connection (token query parameter, access_token
// cookie as fallback) and registers it with the hub.
func ServeWs(hub *Hub, c *gin.Context, jwtSecret []byte) {
	tokenString := c.Query("token")
	if tokenString == "" {
		if cookie, err := c.Cookie("access_token"); err == nil {
			tokenString = cookie
		}
	}

	userID, err := middleware.ParseUserID(tokenString, jwtSecret)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := &Client{Hub: hub, Conn: conn, UserID: userID, Send: make(chan []byte, 16)}
	hub.register <- client

	go client.writePump()
	go client.readPump()
}
