package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker"
)

type Config struct {
	MaxRequests   uint32
	Interval      time.Duration
	Timeout       time.Duration
	OnStateChange func(name string, from, to gobreaker.State)
}

func DefaultConfig() Config {
	return Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
	}
}

// New builds a circuit breaker that trips after a 60% failure ratio
// over at least three requests.
func New(name string, cfg Config) *gobreaker.CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: cfg.OnStateChange,
	}
	return gobreaker.NewCircuitBreaker(settings)
}
