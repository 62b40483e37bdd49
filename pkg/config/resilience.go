package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ResilienceConfig tunes the retry and circuit breaker interceptors of a gRPC client.
type ResilienceConfig struct {
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuitbreaker"`
}

type RetryConfig struct {
	MaxAttempts    uint          `koanf:"maxattempts"`
	InitialBackoff time.Duration `koanf:"initialbackoff"`
}

type CircuitBreakerConfig struct {
	ConsecutiveFailures uint32        `koanf:"consecutivefailures"`
	ErrorRatePercent    int           `koanf:"errorratepercent"`
	OpenTimeout         time.Duration `koanf:"opentimeout"`
}

func (c *ResilienceConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Retry ---\n")
	fmt.Fprintf(&b, "  maxattempts: %d\n", c.Retry.MaxAttempts)
	fmt.Fprintf(&b, "  initialbackoff: %v\n", c.Retry.InitialBackoff)
	b.WriteString("\n--- Circuit Breaker ---\n")
	fmt.Fprintf(&b, "  consecutivefailures: %d\n", c.CircuitBreaker.ConsecutiveFailures)
	fmt.Fprintf(&b, "  errorratepercent: %d\n", c.CircuitBreaker.ErrorRatePercent)
	fmt.Fprintf(&b, "  opentimeout: %v\n", c.CircuitBreaker.OpenTimeout)
	return b.String()
}

func (c *ResilienceConfig) Validate() error {
	switch {
	case c.Retry.MaxAttempts == 0:
		return errors.New("retry.maxattempts must be positive")
	case c.Retry.InitialBackoff <= 0:
		return errors.New("retry.initialbackoff must be positive")
	case c.CircuitBreaker.ConsecutiveFailures == 0:
		return errors.New("circuitbreaker.consecutivefailures must be positive")
	case c.CircuitBreaker.ErrorRatePercent < 0 || c.CircuitBreaker.ErrorRatePercent > 100:
		return errors.New("circuitbreaker.errorratepercent must be within [0, 100]")
	case c.CircuitBreaker.OpenTimeout <= 0:
		return errors.New("circuitbreaker.opentimeout must be positive")
	}
	return nil
}
