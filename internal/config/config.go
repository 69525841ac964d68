// Package config loads TickTick account and client settings from the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/teemow/tickdone/internal/ticktick"
)

// Config holds the settings the server needs to sign on and talk to the
// TickTick API.
type Config struct {
	// Username and Password are the account credentials for session
	// sign-on. Accounts with two-factor enabled additionally need a TOTP
	// code at startup.
	Username string
	Password string

	// DeviceID pins the browser-device identity across restarts. When
	// empty a new one is generated, which the service may treat as a new
	// login from an unknown device.
	DeviceID string

	// Domain selects the service: "ticktick.com" (default) or
	// "dida365.com" for accounts on the Chinese service.
	Domain string

	// Timeout bounds each API request.
	Timeout time.Duration
}

// FromEnv reads the configuration from TICKTICK_* environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Username: os.Getenv("TICKTICK_USERNAME"),
		Password: os.Getenv("TICKTICK_PASSWORD"),
		DeviceID: os.Getenv("TICKTICK_DEVICE_ID"),
		Domain:   getEnvOrDefault("TICKTICK_DOMAIN", ticktick.DefaultDomain),
		Timeout:  ticktick.DefaultTimeout,
	}

	if v := os.Getenv("TICKTICK_TIMEOUT"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("invalid TICKTICK_TIMEOUT %q: must be a positive number of seconds", v)
		}
		cfg.Timeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

// Validate checks that credentials are present.
func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("TICKTICK_USERNAME is required")
	}
	if c.Password == "" {
		return fmt.Errorf("TICKTICK_PASSWORD is required")
	}
	return nil
}

// ClientOptions converts the configuration into client options.
func (c *Config) ClientOptions() []ticktick.Option {
	opts := []ticktick.Option{
		ticktick.WithDomain(c.Domain),
		ticktick.WithTimeout(c.Timeout),
	}
	if c.DeviceID != "" {
		opts = append(opts, ticktick.WithDeviceID(c.DeviceID))
	}
	return opts
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
