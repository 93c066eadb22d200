// Package session implements player join/leave lifecycle, server-side
// grace-period suspension for dropped connections, and the client-side
// exponential-backoff reconnection loop.
package session

import (
	"math/rand"
	"time"
)

// ReconnectConfig configures client-side reconnection behaviour.
type ReconnectConfig struct {
	// InitialDelay is the delay before the first reconnection attempt.
	InitialDelay time.Duration
	// BackoffMultiplier scales the delay after each failed attempt.
	BackoffMultiplier float64
	// MaxDelay caps the delay between reconnection attempts.
	MaxDelay time.Duration
	// MaxAttempts is how many attempts to make before giving up.
	MaxAttempts uint32
	// Jitter is a 0.0-1.0 factor applied as +/-jitter to each delay.
	Jitter float64
}

// DefaultReconnectConfig matches the client's default backoff policy:
// 1s initial delay, doubling, capped at 30s, 20 attempts, 25% jitter.
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		InitialDelay:      1 * time.Second,
		BackoffMultiplier: 2.0,
		MaxDelay:          30 * time.Second,
		MaxAttempts:       20,
		Jitter:            0.25,
	}
}

// ReconnectState tracks reconnection attempt count and computes the
// next backoff delay.
type ReconnectState struct {
	config       ReconnectConfig
	attempts     uint32
	currentDelay time.Duration
}

// NewReconnectState returns a fresh state at the config's initial delay.
func NewReconnectState(config ReconnectConfig) *ReconnectState {
	return &ReconnectState{config: config, currentDelay: config.InitialDelay}
}

// NextDelay computes the next delay and advances the attempt counter.
// It returns ok=false once max attempts have been exhausted.
func (s *ReconnectState) NextDelay() (delay time.Duration, ok bool) {
	if s.attempts >= s.config.MaxAttempts {
		return 0, false
	}

	base := s.currentDelay
	s.attempts++

	jittered := base
	if s.config.Jitter > 0 {
		factor := (1.0 - s.config.Jitter) + rand.Float64()*(2*s.config.Jitter)
		jittered = time.Duration(float64(base) * factor)
	}

	next := time.Duration(float64(s.currentDelay) * s.config.BackoffMultiplier)
	if next > s.config.MaxDelay {
		next = s.config.MaxDelay
	}
	s.currentDelay = next

	if jittered > s.config.MaxDelay {
		jittered = s.config.MaxDelay
	}
	return jittered, true
}

// Reset restores the state to its initial configuration, called after
// a successful reconnection.
func (s *ReconnectState) Reset() {
	s.attempts = 0
	s.currentDelay = s.config.InitialDelay
}

// Attempts returns the number of attempts made so far.
func (s *ReconnectState) Attempts() uint32 {
	return s.attempts
}
