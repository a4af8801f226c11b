package growth

import (
	"fmt"
	"slices"
	"sort"

	"github.com/IANDYI/care-log/internal/core/domain"
)

// Point is one tabulated age of a reference curve
type Point struct {
	AgeDays int
	LMS
}

// Curve is the reference distribution of one metric for one sex
type Curve struct {
	Metric domain.Metric
	Sex    domain.Sex
	Points []Point
}

type curveKey struct {
	metric domain.Metric
	sex    domain.Sex
}

// Table is an immutable set of reference curves keyed by metric and sex.
// A nil *Table has no curves and reports every lookup as out of range.
type Table struct {
	source string
	curves map[curveKey][]Point
}

// NewTable builds a table from curves. Points are sorted by age; duplicate
// ages, non-positive M or S, and curves for sexes without references are rejected.
func NewTable(source string, curves []Curve) (*Table, error) {
	t := &Table{
		source: source,
		curves: make(map[curveKey][]Point, len(curves)),
	}
	for _, c := range curves {
		if !slices.Contains(domain.ValidMetrics(), c.Metric) {
			return nil, fmt.Errorf("unknown metric %q", c.Metric)
		}
		if c.Sex != domain.SexMale && c.Sex != domain.SexFemale {
			return nil, fmt.Errorf("%s curve: sex must be male or female, got %q", c.Metric, c.Sex)
		}
		key := curveKey{c.Metric, c.Sex}
		if _, exists := t.curves[key]; exists {
			return nil, fmt.Errorf("duplicate %s curve for %s", c.Metric, c.Sex)
		}
		if len(c.Points) == 0 {
			return nil, fmt.Errorf("%s curve for %s has no points", c.Metric, c.Sex)
		}

		points := slices.Clone(c.Points)
		sort.Slice(points, func(i, j int) bool { return points[i].AgeDays < points[j].AgeDays })
		for i, p := range points {
			if p.AgeDays < 0 {
				return nil, fmt.Errorf("%s/%s: negative age %d", c.Metric, c.Sex, p.AgeDays)
			}
			if i > 0 && points[i-1].AgeDays == p.AgeDays {
				return nil, fmt.Errorf("%s/%s: duplicate age %d", c.Metric, c.Sex, p.AgeDays)
			}
			if p.M <= 0 || p.S <= 0 {
				return nil, fmt.Errorf("%s/%s day %d: M and S must be positive", c.Metric, c.Sex, p.AgeDays)
			}
		}
		t.curves[key] = points
	}
	return t, nil
}

// Source describes where the table was loaded from
func (t *Table) Source() string {
	if t == nil {
		return ""
	}
	return t.source
}

// Span returns the first and last tabulated age of a curve
func (t *Table) Span(metric domain.Metric, sex domain.Sex) (first, last int, ok bool) {
	if t == nil {
		return 0, 0, false
	}
	points := t.curves[curveKey{metric, sex}]
	if len(points) == 0 {
		return 0, 0, false
	}
	return points[0].AgeDays, points[len(points)-1].AgeDays, true
}

// Lookup returns the LMS parameters at ageDays, interpolating linearly
// between the two nearest tabulated ages.
func (t *Table) Lookup(metric domain.Metric, sex domain.Sex, ageDays int) (LMS, error) {
	if t == nil {
		return LMS{}, fmt.Errorf("%w: no reference table loaded", domain.ErrOutOfRange)
	}
	points := t.curves[curveKey{metric, sex}]
	if len(points) == 0 {
		return LMS{}, fmt.Errorf("%w: no %s curve for sex %q", domain.ErrOutOfRange, metric, sex)
	}
	first, last := points[0].AgeDays, points[len(points)-1].AgeDays
	if ageDays < first || ageDays > last {
		return LMS{}, fmt.Errorf("%w: %s/%s covers days %d-%d, got %d",
			domain.ErrOutOfRange, metric, sex, first, last, ageDays)
	}

	i := sort.Search(len(points), func(i int) bool { return points[i].AgeDays >= ageDays })
	if points[i].AgeDays == ageDays {
		return points[i].LMS, nil
	}
	lo, hi := points[i-1], points[i]
	f := float64(ageDays-lo.AgeDays) / float64(hi.AgeDays-lo.AgeDays)
	return interpolate(lo.LMS, hi.LMS, f), nil
}
