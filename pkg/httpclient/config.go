package httpclient

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Config configures the HTTP client.
type Config struct {
	// Timeout bounds each request end to end. Zero leaves cancellation to
	// the request context, which long-lived streams need.
	Timeout time.Duration

	// UserAgent is sent on requests that do not set their own.
	UserAgent string

	// Logger receives one record per round trip. Nil uses slog.Default.
	Logger *slog.Logger
}

// DefaultConfig returns the settings used by the LLM providers and the
// search client before they override the user agent.
func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		UserAgent: "mcpscout-http-client/1.0",
	}
}

// Validate rejects negative timeouts and a blank user agent.
func (c *Config) Validate() error {
	switch {
	case c.Timeout < 0:
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	case c.UserAgent == "":
		return errors.New("user_agent is required and must be non-empty")
	}
	return nil
}
