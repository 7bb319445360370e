package live

import (
	"log/slog"
	"net/http"
	"time"
)

// Config holds configuration for the preview server.
type Config struct {
	// Address is the listen address.
	// Default: ":8990".
	Address string

	// ReadTimeout is the maximum time to wait for a message from the
	// client. Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 5 seconds.
	ShutdownTimeout time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// PushDebounce is the quiet period coalescing store changes into one
	// push. Default: 16 milliseconds.
	PushDebounce time.Duration

	// CheckOrigin validates WebSocket upgrade origins.
	// Default: same-host only.
	CheckOrigin func(r *http.Request) bool

	// EnableCompression enables WebSocket compression.
	// Default: true.
	EnableCompression bool

	// Logger receives server logs. Default: slog.Default.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8990",
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		MaxMessageSize:    64 * 1024,
		PushDebounce:      16 * time.Millisecond,
		EnableCompression: true,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	out := *c
	defaults := DefaultConfig()
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.HeartbeatInterval == 0 {
		out.HeartbeatInterval = defaults.HeartbeatInterval
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.PushDebounce == 0 {
		out.PushDebounce = defaults.PushDebounce
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
