package models

import (
	"strings"
	"time"
)

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	API      APIConfig
	Realtime RealtimeConfig
	Redis    RedisConfig
	Tracking TrackingConfig
	WS       WSConfig
	NewRelic NewRelicConfig
	Logger   LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// APIConfig points at the booking REST API
type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// RealtimeConfig describes the pub/sub transport used for live locations
type RealtimeConfig struct {
	Transport string // nats or nsq
	URL       string
	Key       string
}

// Configured reports whether realtime credentials are present and not a template placeholder
func (c RealtimeConfig) Configured() bool {
	return c.URL != "" && !strings.Contains(c.URL, realtimePlaceholder)
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// TrackingConfig tunes the tracking session
type TrackingConfig struct {
	PollInterval          time.Duration
	BookingReloadInterval time.Duration
	MonotonicLocations    bool
	SnapshotTTL           time.Duration
}

// WSConfig configures the viewer websocket
type WSConfig struct {
	JWTSecret string
}

// NewRelicConfig contains APM configuration
type NewRelicConfig struct {
	LicenseKey  string
	AppName     string
	Enabled     bool
	LogsEnabled bool
	ForwardLogs bool
}

// LoggerConfig contains logging configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}

const realtimePlaceholder = "your-project"
