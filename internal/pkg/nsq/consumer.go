package nsq

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nsqio/go-nsq"
	"github.com/sparkclean/cleantrack/internal/pkg/logger"
)

// MessageHandler processes one NSQ message body
type MessageHandler func(message []byte)

// Consumer consumes a single NSQ topic
type Consumer struct {
	consumer *nsq.Consumer
}

// EphemeralChannel returns a channel name that nsqd discards once the last consumer leaves
func EphemeralChannel(prefix string) string {
	return fmt.Sprintf("%s-%s#ephemeral", prefix, uuid.NewString()[:8])
}

// NewConsumer creates a consumer for topic/channel connected to the nsqd at address.
// Messages are finished as soon as the handler returns; nothing is requeued.
func NewConsumer(topic, channel, address, authSecret string, handler MessageHandler) (*Consumer, error) {
	config := nsq.NewConfig()
	config.MaxInFlight = 1
	config.MaxAttempts = 1
	config.DialTimeout = 5 * time.Second
	if authSecret != "" {
		config.AuthSecret = authSecret
	}

	consumer, err := nsq.NewConsumer(topic, channel, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create NSQ consumer: %w", err)
	}
	consumer.SetLogger(nil, nsq.LogLevelError)

	consumer.AddHandler(nsq.HandlerFunc(func(message *nsq.Message) error {
		handler(message.Body)
		return nil
	}))

	if err := consumer.ConnectToNSQD(address); err != nil {
		consumer.Stop()
		return nil, fmt.Errorf("failed to connect to NSQ daemon: %w", err)
	}

	logger.Debug("NSQ consumer connected",
		logger.String("topic", topic),
		logger.String("channel", channel))

	return &Consumer{consumer: consumer}, nil
}

// Stop begins a graceful stop and returns without waiting for nsqd
func (c *Consumer) Stop() {
	c.consumer.Stop()
}
