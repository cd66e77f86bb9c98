package websocket

import (
	"encoding/json"
	"sync"

	gorilla "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sparkclean/cleantrack/internal/pkg/constants"
	"github.com/sparkclean/cleantrack/internal/pkg/logger"
	"github.com/sparkclean/cleantrack/internal/pkg/metrics"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
	wspkg "github.com/sparkclean/cleantrack/internal/pkg/websocket"
	"github.com/sparkclean/cleantrack/services/tracking"
)

// TrackingWSHandler pushes every published tracking state to connected viewers
type TrackingWSHandler struct {
	trackingUC tracking.TrackingUC
	manager    *wspkg.Manager

	// holds at most the newest unsent state
	latest chan models.TrackingState

	mu          sync.Mutex
	unsubscribe func()
	stop        chan struct{}
	done        chan struct{}
}

// NewTrackingWSHandler creates a new tracking websocket handler
func NewTrackingWSHandler(trackingUC tracking.TrackingUC, manager *wspkg.Manager) *TrackingWSHandler {
	return &TrackingWSHandler{
		trackingUC: trackingUC,
		manager:    manager,
		latest:     make(chan models.TrackingState, 1),
	}
}

// Start subscribes to tracking state changes and begins broadcasting them
func (h *TrackingWSHandler) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.unsubscribe != nil {
		return
	}

	h.stop = make(chan struct{})
	h.done = make(chan struct{})
	go h.broadcastLoop(h.stop, h.done)
	h.unsubscribe = h.trackingUC.Subscribe(h.enqueue)
}

// Stop unsubscribes and waits for the broadcast loop to exit
func (h *TrackingWSHandler) Stop() {
	h.mu.Lock()
	unsubscribe, stop, done := h.unsubscribe, h.stop, h.done
	h.unsubscribe = nil
	h.mu.Unlock()

	if unsubscribe == nil {
		return
	}
	unsubscribe()
	close(stop)
	<-done
}

// enqueue runs on the publisher's goroutine and must never block;
// an unsent older state is replaced by the newer one.
func (h *TrackingWSHandler) enqueue(state models.TrackingState) {
	for {
		select {
		case h.latest <- state:
			return
		default:
		}
		select {
		case <-h.latest:
		default:
		}
	}
}

func (h *TrackingWSHandler) broadcastLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case state := <-h.latest:
			h.manager.Broadcast(constants.EventTrackingState, state)
		}
	}
}

// HandleWebSocket upgrades the viewer connection, sends the current state and
// answers pings until the viewer goes away.
func (h *TrackingWSHandler) HandleWebSocket(c echo.Context) error {
	return h.manager.HandleConnection(c, func(client *wspkg.Client) error {
		metrics.ViewersConnected.Inc()
		defer metrics.ViewersConnected.Dec()

		logger.Info("Tracking viewer connected",
			logger.String("viewer_id", client.ID),
			logger.Bool("anonymous", client.Anonymous))

		if err := h.manager.SendMessage(client, constants.EventTrackingState, h.trackingUC.State()); err != nil {
			logger.Warn("Failed to send initial tracking state",
				logger.String("viewer_id", client.ID),
				logger.Err(err))
			return nil
		}

		h.readLoop(client)

		logger.Info("Tracking viewer disconnected", logger.String("viewer_id", client.ID))
		return nil
	})
}

func (h *TrackingWSHandler) readLoop(client *wspkg.Client) {
	for {
		_, raw, err := client.Conn().ReadMessage()
		if err != nil {
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseNormalClosure, gorilla.CloseGoingAway) {
				logger.Debug("Error reading viewer message",
					logger.String("viewer_id", client.ID),
					logger.Err(err))
			}
			return
		}

		var msg models.WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			_ = h.manager.SendErrorMessage(client, constants.ErrorInvalidFormat, "Invalid message format")
			continue
		}

		switch msg.Event {
		case constants.EventPing:
			err = h.manager.SendMessage(client, constants.EventPong, struct{}{})
		case constants.EventTrackingState:
			err = h.manager.SendMessage(client, constants.EventTrackingState, h.trackingUC.State())
		default:
			err = h.manager.SendErrorMessage(client, constants.ErrorInvalidFormat, "Unsupported event: "+msg.Event)
		}
		if err != nil {
			logger.Debug("Error writing viewer message",
				logger.String("viewer_id", client.ID),
				logger.Err(err))
			return
		}
	}
}
