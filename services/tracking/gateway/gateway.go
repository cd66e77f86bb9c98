package gateway

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/sparkclean/cleantrack/internal/pkg/constants"
	httpclient "github.com/sparkclean/cleantrack/internal/pkg/http"
	"github.com/sparkclean/cleantrack/internal/pkg/logger"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
	natspkg "github.com/sparkclean/cleantrack/internal/pkg/nats"
	"github.com/sparkclean/cleantrack/services/tracking"
	gateway_http "github.com/sparkclean/cleantrack/services/tracking/gateway/http"
	gateway_nats "github.com/sparkclean/cleantrack/services/tracking/gateway/nats"
	gateway_nsq "github.com/sparkclean/cleantrack/services/tracking/gateway/nsq"
)

const nsqProbeTimeout = 3 * time.Second

// NewBookingGW creates the booking API gateway
func NewBookingGW(client *httpclient.Client) tracking.BookingGW {
	return gateway_http.NewBookingHTTPGateway(client)
}

// NoopChannel is the location channel of polling-only mode
type NoopChannel struct{}

// Available always reports false
func (NoopChannel) Available() bool { return false }

// Open always fails with tracking.ErrChannelUnavailable
func (NoopChannel) Open(context.Context, string, func(models.LocationEvent)) (tracking.Subscription, error) {
	return nil, tracking.ErrChannelUnavailable
}

// NewLocationChannel picks the realtime transport from cfg. When realtime is not
// configured or cannot be reached the no-op channel is returned and the service
// runs polling-only. The returned close func releases the transport.
func NewLocationChannel(cfg models.RealtimeConfig, clientName string) (tracking.LocationChannel, func()) {
	if !cfg.Configured() {
		logger.Info("Realtime transport not configured, running polling-only")
		return NoopChannel{}, func() {}
	}

	switch strings.ToLower(cfg.Transport) {
	case constants.TransportNSQ:
		address := strings.TrimPrefix(cfg.URL, "nsq://")
		conn, err := net.DialTimeout("tcp", address, nsqProbeTimeout)
		if err != nil {
			logger.Warn("NSQ daemon unreachable, running polling-only",
				logger.String("address", address),
				logger.Err(err))
			return NoopChannel{}, func() {}
		}
		_ = conn.Close()
		logger.Info("Realtime transport ready",
			logger.String("transport", constants.TransportNSQ),
			logger.String("address", address))
		return gateway_nsq.NewLocationChannel(address, cfg.Key), func() {}

	default:
		client, err := natspkg.NewClient(cfg.URL, cfg.Key, clientName)
		if err != nil {
			logger.Warn("NATS unreachable, running polling-only",
				logger.String("url", cfg.URL),
				logger.Err(err))
			return NoopChannel{}, func() {}
		}
		logger.Info("Realtime transport ready",
			logger.String("transport", constants.TransportNATS),
			logger.String("url", cfg.URL))
		return gateway_nats.NewLocationChannel(client), client.Close
	}
}
