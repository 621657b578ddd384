package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the provider discovery limits.
// These values can be customized via environment variables.
type Timeouts struct {
	Discovery         time.Duration // Budget for all provider lookups of one run
	RetryMaxAttempts  int           // Maximum number of attempts per throttled call
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - CLUSTERFORM_TIMEOUT_DISCOVERY (default: 2m)
//   - CLUSTERFORM_RETRY_MAX_ATTEMPTS (default: 5)
//   - CLUSTERFORM_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Discovery:         parseDuration("CLUSTERFORM_TIMEOUT_DISCOVERY", 2*time.Minute),
		RetryMaxAttempts:  parseInt("CLUSTERFORM_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("CLUSTERFORM_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}

	return i
}
