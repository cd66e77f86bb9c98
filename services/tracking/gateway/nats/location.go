package gateway_nats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sparkclean/cleantrack/internal/pkg/logger"
	"github.com/sparkclean/cleantrack/internal/pkg/metrics"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
	natspkg "github.com/sparkclean/cleantrack/internal/pkg/nats"
	"github.com/sparkclean/cleantrack/services/tracking"
)

// LocationChannel subscribes to live booking locations over core NATS
type LocationChannel struct {
	client *natspkg.Client
}

// NewLocationChannel creates a NATS backed location channel
func NewLocationChannel(client *natspkg.Client) *LocationChannel {
	return &LocationChannel{
		client: client,
	}
}

// Available reports whether the connection can take subscriptions
func (c *LocationChannel) Available() bool {
	return c.client != nil && c.client.Connected()
}

// Open subscribes to the booking's location subject
func (c *LocationChannel) Open(ctx context.Context, bookingID string, onEvent func(models.LocationEvent)) (tracking.Subscription, error) {
	if !c.Available() {
		return nil, tracking.ErrChannelUnavailable
	}

	subject, err := tracking.LocationTopic(bookingID)
	if err != nil {
		return nil, err
	}
	sub, err := c.client.Subscribe(subject, func(msg *nats.Msg) {
		event, err := tracking.DecodeLocationEvent(msg.Data, time.Now())
		if err != nil {
			metrics.ChannelEventsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
			logger.Debug("Dropping invalid location event",
				logger.String("subject", msg.Subject),
				logger.Err(err))
			return
		}
		onEvent(event)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tracking.ErrChannelUnavailable, err)
	}

	logger.InfoCtx(ctx, "Subscribed to live location",
		logger.BookingID(bookingID),
		logger.String("subject", subject))

	return &subscription{sub: sub, subject: subject}, nil
}

type subscription struct {
	once    sync.Once
	sub     *nats.Subscription
	subject string
}

func (s *subscription) Unsubscribe() error {
	var err error
	s.once.Do(func() {
		if uerr := s.sub.Unsubscribe(); uerr != nil && uerr != nats.ErrConnectionClosed && uerr != nats.ErrBadSubscription {
			err = fmt.Errorf("failed to unsubscribe from %s: %w", s.subject, uerr)
		}
	})
	return err
}
