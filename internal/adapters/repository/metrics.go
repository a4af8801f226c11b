package repository

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var (
	profileRequestsConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_requests_consumed_total",
			Help: "Total number of profile creation requests consumed from RabbitMQ",
		},
		[]string{"status"},
	)

	rabbitMQConsumeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rabbitmq_consume_duration_seconds",
			Help:    "Duration of RabbitMQ message consumption",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"status"},
	)

	// 0 closed, 1 half-open, 2 open
	circuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)

// newBreaker builds a named circuit breaker whose state changes are logged
// and exported as circuit_breaker_state
func newBreaker(settings gobreaker.Settings, name string) *gobreaker.CircuitBreaker {
	settings.Name = name
	next := settings.OnStateChange
	settings.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Printf("Circuit breaker %s: %s -> %s", name, from, to)
		circuitBreakerState.WithLabelValues(name).Set(float64(to))
		if next != nil {
			next(name, from, to)
		}
	}
	circuitBreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker(settings)
}
