package services

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"smokey-backend/internal/models"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type    string      `json:"type"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Client represents a connected dashboard
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan WebSocketMessage
	Hub  *Hub
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan WebSocketMessage
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

// WebSocketService pushes order lifecycle events to back-office dashboards
// over WebSocket. Connections authenticate with the admin JWT passed as a
// query parameter, since browsers cannot set headers on WebSocket upgrades.
type WebSocketService struct {
	hub      *Hub
	upgrader websocket.Upgrader
	auth     *AuthService
}

// NewWebSocketService creates a new WebSocket service and starts its hub
func NewWebSocketService(auth *AuthService) *WebSocketService {
	hub := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan WebSocketMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}

	service := &WebSocketService{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// The upgrade is gated on a valid admin token instead
				return true
			},
		},
		auth: auth,
	}

	go hub.run()

	return service
}

// HandleWebSocket upgrades an authenticated dashboard connection
func (s *WebSocketService) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Missing token",
		})
		return
	}
	if _, err := s.auth.ValidateToken(token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Invalid token",
		})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:   uuid.New().String(),
		Conn: conn,
		Send: make(chan WebSocketMessage, 256),
		Hub:  s.hub,
	}

	s.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// PublishOrderEvent broadcasts an order event to every connected dashboard
func (s *WebSocketService) PublishOrderEvent(event string, order *models.Order) {
	s.hub.broadcast <- WebSocketMessage{Type: event, Data: order}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			select {
			case client.Send <- WebSocketMessage{Type: "connected", Message: "Connected to order feed"}:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
			h.mutex.Unlock()

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		var message WebSocketMessage
		err := c.Conn.ReadJSON(&message)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if message.Type == "ping" {
			select {
			case c.Send <- WebSocketMessage{Type: "pong"}:
			default:
				return
			}
		}
	}
}

func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteJSON(message); err != nil {
			log.Printf("WebSocket write error: %v", err)
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
