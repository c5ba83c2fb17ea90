package websockets

import (
	"encoding/json"
	"sync"
	"time"

	"healthtrack/internal/logger"
	. "healthtrack/internal/models"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	EventAppointmentBooked    = "appointment.booked"
	EventAppointmentConfirmed = "appointment.confirmed"
	EventAppointmentDeclined  = "appointment.declined"

	sendBufferSize = 32
)

type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier pushes an event to every open connection of a user. Delivery is
// best effort; users without a connection simply miss it.
type Notifier interface {
	Notify(userID int, eventType string, data any)
}

// Conn is the subset of a websocket connection the manager drives.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Client struct {
	ID     string
	UserID int
	Send   chan []byte
	conn   Conn
}

type Manager struct {
	mu      sync.RWMutex
	clients map[int]map[*Client]struct{}
	log     logger.Logger
}

func New() *Manager {
	return &Manager{
		clients: make(map[int]map[*Client]struct{}),
		log:     logger.New("websockets"),
	}
}

func (m *Manager) Register(userID int, conn Conn) *Client {
	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Send:   make(chan []byte, sendBufferSize),
		conn:   conn,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clients[userID] == nil {
		m.clients[userID] = make(map[*Client]struct{})
	}
	m.clients[userID][client] = struct{}{}

	return client
}

// Unregister removes client and closes its send channel. Calling it twice is
// harmless.
func (m *Manager) Unregister(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	userClients, ok := m.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := userClients[client]; !ok {
		return
	}

	delete(userClients, client)
	if len(userClients) == 0 {
		delete(m.clients, client.UserID)
	}
	close(client.Send)
}

func (m *Manager) Notify(userID int, eventType string, data any) {
	log := m.log.Function("Notify")

	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Er("failed to marshal event", err, "type", eventType)
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for client := range m.clients[userID] {
		select {
		case client.Send <- payload:
		default:
			log.Warn("Client buffer full, dropping event", "clientID", client.ID, "type", eventType)
		}
	}
}

func (m *Manager) ClientCount(userID int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID])
}

// HandleWebSocket serves an upgraded connection for the authenticated user
// stored in locals. It blocks until the peer disconnects.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	user, ok := c.Locals("user").(User)
	if !ok || user.ID == 0 {
		log.Warn("Rejecting websocket without an authenticated user")
		_ = c.Close()
		return
	}

	m.Serve(user.ID, c)
}

// Serve registers conn for userID, forwards notifications to it and returns
// once reading from it fails.
func (m *Manager) Serve(userID int, conn Conn) {
	log := m.log.Function("Serve")

	client := m.Register(userID, conn)
	log.Debug("Websocket connected", "clientID", client.ID, "userID", userID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.writePump(client)
	}()

	m.readPump(client)
	m.Unregister(client)
	<-done
	_ = conn.Close()

	log.Debug("Websocket disconnected", "clientID", client.ID, "userID", userID)
}

// readPump drains inbound frames. Clients only listen, so their messages are
// discarded.
func (m *Manager) readPump(client *Client) {
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Manager) writePump(client *Client) {
	for message := range client.Send {
		if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			m.log.Function("writePump").Er("failed to write message", err, "clientID", client.ID)
			return
		}
	}
}
