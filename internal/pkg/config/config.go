package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/sparkclean/cleantrack/internal/pkg/models"
)

// InitConfig loads .env in local environments and builds the config from environment variables
func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	// Create config from environment variables
	return loadConfigFromEnv(newEnv())
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_NAME", "cleantrack")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("SERVER_PORT", 9990)
	v.SetDefault("SERVER_READ_TIMEOUT", 10)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 10)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", 10)

	v.SetDefault("API_BASE_URL", "http://localhost:3000/api")
	v.SetDefault("API_TIMEOUT", "10s")

	v.SetDefault("REALTIME_TRANSPORT", "nats")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_POOL_SIZE", 10)

	v.SetDefault("TRACKING_POLL_INTERVAL", "5000ms")
	v.SetDefault("TRACKING_BOOKINGS_RELOAD_INTERVAL", "30s")
	v.SetDefault("TRACKING_MONOTONIC_LOCATIONS", false)
	v.SetDefault("TRACKING_SNAPSHOT_TTL", "1h")

	v.SetDefault("LOG_LEVEL", "info")
	return v
}

func loadConfigFromEnv(v *viper.Viper) *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = v.GetString("APP_NAME")
	configs.App.Environment = v.GetString("APP_ENV")
	configs.App.Debug = v.GetBool("APP_DEBUG")
	configs.App.Version = v.GetString("APP_VERSION")

	// Server config
	configs.Server.Host = v.GetString("SERVER_HOST")
	configs.Server.Port = v.GetInt("SERVER_PORT")
	configs.Server.ReadTimeout = v.GetInt("SERVER_READ_TIMEOUT")
	configs.Server.WriteTimeout = v.GetInt("SERVER_WRITE_TIMEOUT")
	configs.Server.ShutdownTimeout = v.GetInt("SERVER_SHUTDOWN_TIMEOUT")

	// Booking API config
	configs.API.BaseURL = v.GetString("API_BASE_URL")
	configs.API.Token = v.GetString("API_TOKEN")
	configs.API.Timeout = getDuration(v, "API_TIMEOUT", 10*time.Second)

	// Realtime config
	configs.Realtime.Transport = v.GetString("REALTIME_TRANSPORT")
	configs.Realtime.URL = v.GetString("REALTIME_URL")
	configs.Realtime.Key = v.GetString("REALTIME_KEY")

	// Redis config
	configs.Redis.Host = v.GetString("REDIS_HOST")
	configs.Redis.Port = v.GetInt("REDIS_PORT")
	configs.Redis.Password = v.GetString("REDIS_PASSWORD")
	configs.Redis.DB = v.GetInt("REDIS_DB")
	configs.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")

	// Tracking config
	configs.Tracking.PollInterval = getDuration(v, "TRACKING_POLL_INTERVAL", 5*time.Second)
	configs.Tracking.BookingReloadInterval = getDuration(v, "TRACKING_BOOKINGS_RELOAD_INTERVAL", 30*time.Second)
	configs.Tracking.MonotonicLocations = v.GetBool("TRACKING_MONOTONIC_LOCATIONS")
	configs.Tracking.SnapshotTTL = getDuration(v, "TRACKING_SNAPSHOT_TTL", time.Hour)

	// Websocket config
	configs.WS.JWTSecret = v.GetString("WS_JWT_SECRET")

	// NewRelic config
	configs.NewRelic.LicenseKey = v.GetString("NEW_RELIC_LICENSE_KEY")
	configs.NewRelic.AppName = v.GetString("NEW_RELIC_APP_NAME")
	configs.NewRelic.Enabled = v.GetBool("NEW_RELIC_ENABLED")
	configs.NewRelic.LogsEnabled = v.GetBool("NEW_RELIC_LOGS_ENABLED")
	configs.NewRelic.ForwardLogs = v.GetBool("NEW_RELIC_FORWARD_LOGS")

	// Logger config
	configs.Logger.Level = v.GetString("LOG_LEVEL")
	configs.Logger.FilePath = v.GetString("LOG_FILE_PATH")

	return configs
}

// getDuration accepts Go durations ("5s") as well as bare integers, read as milliseconds
func getDuration(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	raw := v.GetString(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if ms := v.GetInt64(key); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	log.Printf("Warning: Invalid duration value for %s, using default: %s", key, defaultValue)
	return defaultValue
}

// GetEnv returns the environment value for key, or defaultValue when unset
func GetEnv(key, defaultValue string) string {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(key, defaultValue)
	value := v.GetString(key)
	if value == "" {
		return defaultValue
	}
	return value
}
