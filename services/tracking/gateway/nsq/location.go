package gateway_nsq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sparkclean/cleantrack/internal/pkg/logger"
	"github.com/sparkclean/cleantrack/internal/pkg/metrics"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
	nsqpkg "github.com/sparkclean/cleantrack/internal/pkg/nsq"
	"github.com/sparkclean/cleantrack/services/tracking"
)

const channelPrefix = "cleantrack"

// LocationChannel consumes live booking locations from nsqd. Each subscription
// uses its own ephemeral channel so every viewer process sees every event.
type LocationChannel struct {
	address    string
	authSecret string
}

// NewLocationChannel creates an NSQ backed location channel for the nsqd at address
func NewLocationChannel(address, authSecret string) *LocationChannel {
	return &LocationChannel{
		address:    address,
		authSecret: authSecret,
	}
}

// Available reports whether an nsqd address is configured
func (c *LocationChannel) Available() bool {
	return c.address != ""
}

// Open starts a consumer on the booking's location topic
func (c *LocationChannel) Open(ctx context.Context, bookingID string, onEvent func(models.LocationEvent)) (tracking.Subscription, error) {
	if !c.Available() {
		return nil, tracking.ErrChannelUnavailable
	}

	topic, err := tracking.LocationTopic(bookingID)
	if err != nil {
		return nil, err
	}
	channel := nsqpkg.EphemeralChannel(channelPrefix)
	consumer, err := nsqpkg.NewConsumer(topic, channel, c.address, c.authSecret, messageHandler(topic, onEvent))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tracking.ErrChannelUnavailable, err)
	}

	logger.InfoCtx(ctx, "Subscribed to live location",
		logger.BookingID(bookingID),
		logger.String("topic", topic),
		logger.String("channel", channel))

	return &subscription{consumer: consumer}, nil
}

// messageHandler decodes each message body and hands valid events to onEvent.
// Invalid payloads are counted and dropped.
func messageHandler(topic string, onEvent func(models.LocationEvent)) nsqpkg.MessageHandler {
	return func(body []byte) {
		event, err := tracking.DecodeLocationEvent(body, time.Now())
		if err != nil {
			metrics.ChannelEventsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
			logger.Debug("Dropping invalid location event",
				logger.String("topic", topic),
				logger.Err(err))
			return
		}
		onEvent(event)
	}
}

type subscription struct {
	once     sync.Once
	consumer *nsqpkg.Consumer
}

func (s *subscription) Unsubscribe() error {
	s.once.Do(s.consumer.Stop)
	return nil
}
