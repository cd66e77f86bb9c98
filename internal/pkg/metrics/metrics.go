// Package metrics defines the Prometheus metrics of the tracking service.
// Metrics are registered on the default registry at package init through promauto.
package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cleantrack"

// Result label values
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultSkipped = "skipped"
	ResultStale   = "stale"
	ResultInvalid = "invalid"
	ResultApplied = "applied"
	ResultOlder   = "older"
)

// SessionsOpenedTotal counts tracking sessions bound to an active booking.
var SessionsOpenedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "tracking_sessions_opened_total",
	Help:      "Total number of tracking sessions opened.",
})

// SessionsClosedTotal counts full session teardowns.
var SessionsClosedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Name:      "tracking_sessions_closed_total",
	Help:      "Total number of tracking sessions torn down.",
})

// SessionOpen is 1 while a session is bound, 0 otherwise.
var SessionOpen = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "tracking_session_open",
	Help:      "Whether a tracking session is currently open.",
})

// ChannelEventsTotal counts live location events.
// Label:
//   - result: "applied", "invalid", "stale" or "older"
var ChannelEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_channel_events_total",
		Help:      "Total number of live location events received, by result.",
	},
	[]string{"result"},
)

// PollTicksTotal counts polling fallback ticks.
// Label:
//   - result: "ok", "error", "skipped" or "stale"
var PollTicksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_poll_ticks_total",
		Help:      "Total number of polling fallback ticks, by result.",
	},
	[]string{"result"},
)

// BaselineFetchTotal counts baseline snapshot fetches.
// Label:
//   - result: "ok", "error" or "stale"
var BaselineFetchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_baseline_fetch_total",
		Help:      "Total number of baseline snapshot fetches, by result.",
	},
	[]string{"result"},
)

// StaleResultsTotal counts results discarded because their session was superseded.
// Label:
//   - source: "baseline", "poll", "channel" or "refresh"
var StaleResultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracking_stale_results_total",
		Help:      "Total number of results discarded by the staleness guard, by source.",
	},
	[]string{"source"},
)

// BookingsReloadTotal counts booking list reloads.
// Label:
//   - result: "ok" or "error"
var BookingsReloadTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_reload_total",
		Help:      "Total number of booking list reloads, by result.",
	},
	[]string{"result"},
)

// ViewersConnected tracks connected websocket viewers.
var ViewersConnected = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Name:      "tracking_viewers_connected",
	Help:      "Current number of connected tracking websocket viewers.",
})

// Handler exposes the default registry for echo
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
