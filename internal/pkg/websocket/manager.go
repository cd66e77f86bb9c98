package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sparkclean/cleantrack/internal/pkg/constants"
	jwtpkg "github.com/sparkclean/cleantrack/internal/pkg/jwt"
	"github.com/sparkclean/cleantrack/internal/pkg/logger"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
)

const writeWait = 5 * time.Second

// Client is one connected viewer
type Client struct {
	models.TrackingViewer
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// Conn returns the underlying connection
func (c *Client) Conn() *websocket.Conn {
	return c.conn
}

func (c *Client) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// Manager manages WebSocket connections of tracking viewers
type Manager struct {
	sync.RWMutex
	clients   map[string]*Client
	jwtSecret string
	upgrader  websocket.Upgrader
}

// NewManager creates a new WebSocket manager. An empty jwtSecret accepts anonymous viewers.
func NewManager(jwtSecret string) *Manager {
	return &Manager{
		clients:   make(map[string]*Client),
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection authenticates, upgrades and registers the connection, then
// runs handleClient until it returns. The client is unregistered afterwards.
func (m *Manager) HandleConnection(c echo.Context, handleClient func(*Client) error) error {
	viewer, err := m.authenticate(c)
	if err != nil {
		return err
	}

	ws, err := m.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	client := &Client{TrackingViewer: viewer, conn: ws}
	m.AddClient(client)
	defer m.RemoveClient(client.ID)

	return handleClient(client)
}

func (m *Manager) authenticate(c echo.Context) (models.TrackingViewer, error) {
	viewer := models.TrackingViewer{
		ID:        uuid.NewString(),
		RemoteIP:  c.RealIP(),
		Anonymous: true,
	}
	if m.jwtSecret == "" {
		return viewer, nil
	}

	token := c.QueryParam("token")
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return viewer, echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}
		token = parts[1]
	}
	if token == "" {
		return viewer, echo.NewHTTPError(http.StatusUnauthorized, "Authorization token is required")
	}

	claims, err := jwtpkg.ValidateToken(token, m.jwtSecret)
	if err != nil {
		logger.Warn("Token validation failed", logger.Err(err))
		return viewer, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	viewer.Subject = claims.Subject
	viewer.Anonymous = false
	return viewer, nil
}

// AddClient safely adds a client to the manager
func (m *Manager) AddClient(client *Client) {
	m.Lock()
	defer m.Unlock()
	m.clients[client.ID] = client
}

// RemoveClient safely removes a client from the manager
func (m *Manager) RemoveClient(id string) {
	m.Lock()
	defer m.Unlock()
	delete(m.clients, id)
}

// Count returns the number of connected viewers
func (m *Manager) Count() int {
	m.RLock()
	defer m.RUnlock()
	return len(m.clients)
}

// SendMessage sends an event to one client
func (m *Manager) SendMessage(client *Client, event string, data interface{}) error {
	if client == nil || client.conn == nil {
		return nil
	}

	rawData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error marshaling message data: %w", err)
	}

	return client.writeJSON(models.WSMessage{
		Event: event,
		Data:  rawData,
	})
}

// SendErrorMessage sends an error event to one client
func (m *Manager) SendErrorMessage(client *Client, code string, message string) error {
	return m.SendMessage(client, constants.EventError, models.WSErrorMessage{
		Code:    code,
		Message: message,
	})
}

// Broadcast sends an event to every connected viewer. Failed writes are logged and skipped.
func (m *Manager) Broadcast(event string, data interface{}) {
	m.RLock()
	clients := make([]*Client, 0, len(m.clients))
	for _, c := range m.clients {
		clients = append(clients, c)
	}
	m.RUnlock()

	for _, c := range clients {
		if err := m.SendMessage(c, event, data); err != nil {
			logger.Debug("Error sending message to viewer",
				logger.String("viewer_id", c.ID),
				logger.String("event", event),
				logger.Err(err))
		}
	}
}
