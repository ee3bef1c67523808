package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, 25, cfg.DBMaxOpenConnections)
				assert.Equal(t, 5, cfg.DBMaxIdleConnections)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 50*time.Millisecond, cfg.PaymentProcessingDelay)
				assert.Equal(t, 2*time.Second, cfg.PaymentFinalizeTimeout)
			},
		},
		{
			name: "load custom server configuration",
			envVars: map[string]string{
				"SERVER_HOST": "localhost",
				"SERVER_PORT": "9090",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "localhost", cfg.ServerHost)
				assert.Equal(t, 9090, cfg.ServerPort)
			},
		},
		{
			name: "load custom outbox configuration",
			envVars: map[string]string{
				"OUTBOX_BATCH_SIZE":           "10",
				"OUTBOX_POLL_INTERVAL_SECONDS": "5",
				"OUTBOX_MAX_ATTEMPTS":         "3",
				"OUTBOX_BACKOFF_BASE_SECONDS": "2",
				"OUTBOX_BACKOFF_CAP_SECONDS":  "60",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 10, cfg.OutboxBatchSize)
				assert.Equal(t, 5*time.Second, cfg.OutboxPollInterval)
				assert.Equal(t, 3, cfg.OutboxMaxAttempts)
				assert.Equal(t, 2*time.Second, cfg.OutboxBackoffBase)
				assert.Equal(t, 60*time.Second, cfg.OutboxBackoffCap)
			},
		},
		{
			name: "load custom circuit breaker configuration",
			envVars: map[string]string{
				"BREAKER_MIN_REQUESTS":          "5",
				"BREAKER_FAILURE_RATIO":         "0.75",
				"BREAKER_OPEN_DURATION_SECONDS": "30",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, uint32(5), cfg.BreakerMinRequests)
				assert.Equal(t, 0.75, cfg.BreakerFailureRatio)
				assert.Equal(t, 30*time.Second, cfg.BreakerOpenDuration)
			},
		},
		{
			name: "load custom notifier configuration",
			envVars: map[string]string{
				"NOTIFIER_BASE_URL":        "http://notificationservice:8080",
				"NOTIFIER_TIMEOUT_SECONDS": "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://notificationservice:8080", cfg.NotifierBaseURL)
				assert.Equal(t, 10*time.Second, cfg.NotifierTimeout)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}
			defer func() {
				for key := range tt.envVars {
					os.Unsetenv(key)
				}
			}()

			cfg := Load()
			tt.validate(t, cfg)
		})
	}
}

func TestGetGinMode(t *testing.T) {
	tests := []struct {
		logLevel string
		expected string
	}{
		{"debug", "debug"},
		{"info", "release"},
		{"warn", "release"},
		{"error", "release"},
		{"unknown", "release"},
	}

	for _, tt := range tests {
		t.Run(tt.logLevel, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}
			assert.Equal(t, tt.expected, cfg.GetGinMode())
		})
	}
}
