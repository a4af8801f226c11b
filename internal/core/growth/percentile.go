package growth

import (
	"fmt"

	"github.com/IANDYI/care-log/internal/core/domain"
)

// Reference is a source of LMS parameters; *Table and *Store satisfy it
type Reference interface {
	Lookup(metric domain.Metric, sex domain.Sex, ageDays int) (LMS, error)
}

// Engine converts growth measurements into percentiles using the LMS method
type Engine struct {
	reference Reference
}

// NewEngine creates a percentile engine. A nil reference reports every
// lookup as out of range.
func NewEngine(reference Reference) *Engine {
	return &Engine{reference: reference}
}

// Percentile returns the percentile of value for the metric at ageDays
func (e *Engine) Percentile(metric domain.Metric, value float64, ageDays int, sex domain.Sex) (float64, error) {
	if e.reference == nil {
		return 0, fmt.Errorf("%w: no reference table configured", domain.ErrOutOfRange)
	}
	params, err := e.reference.Lookup(metric, sex, ageDays)
	if err != nil {
		return 0, err
	}
	z, err := params.ZScore(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", metric, err)
	}
	return PercentileFromZ(z), nil
}

// Percentiles converts each present metric independently. Metrics whose
// lookup fails are left out of the result, which is never nil.
func (e *Engine) Percentiles(values map[domain.Metric]float64, ageDays int, sex domain.Sex) map[domain.Metric]float64 {
	result := make(map[domain.Metric]float64, len(values))
	for metric, value := range values {
		p, err := e.Percentile(metric, value, ageDays, sex)
		if err != nil {
			continue
		}
		result[metric] = p
	}
	return result
}
