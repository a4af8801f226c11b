package services

import (
	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/IANDYI/care-log/internal/core/engine"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validationOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "care_validation_outcomes_total",
			Help: "Total number of validated records by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	validationViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "care_validation_violations_total",
			Help: "Total number of reported violations by kind and rule",
		},
		[]string{"kind", "rule"},
	)

	percentileUnavailableTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "care_percentile_unavailable_total",
			Help: "Total number of growth metrics recorded without a percentile",
		},
		[]string{"metric"},
	)

	alertsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "care_alerts_published_total",
			Help: "Total number of temperature alerts sent to RabbitMQ",
		},
		[]string{"status"},
	)

	referenceReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "care_reference_reloads_total",
			Help: "Total number of growth reference table reloads",
		},
		[]string{"status"},
	)
)

func observeOutcome(out engine.Outcome) {
	if out.Accepted() {
		validationOutcomesTotal.WithLabelValues(string(out.Kind), "accepted").Inc()
		if g, ok := out.Record.(domain.GrowthMeasurement); ok {
			observePercentiles(g)
		}
		return
	}
	validationOutcomesTotal.WithLabelValues(string(out.Kind), "rejected").Inc()
	for _, v := range out.Violations {
		validationViolationsTotal.WithLabelValues(string(out.Kind), v.Rule).Inc()
	}
}

func observePercentiles(g domain.GrowthMeasurement) {
	for metric := range g.Values() {
		if _, ok := g.Percentiles[metric]; !ok {
			percentileUnavailableTotal.WithLabelValues(string(metric)).Inc()
		}
	}
}
