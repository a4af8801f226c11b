package domain

import "time"

// Metric names a growth measurement that has reference curves
type Metric string

const (
	MetricWeight            Metric = "weight"
	MetricLength            Metric = "length"
	MetricHeadCircumference Metric = "head_circumference"
)

// ValidMetrics returns all metrics, in the order they are reported
func ValidMetrics() []Metric {
	return []Metric{MetricWeight, MetricLength, MetricHeadCircumference}
}

type MeasurementContext string

const (
	MeasurementContextHome        MeasurementContext = "home"
	MeasurementContextDoctorVisit MeasurementContext = "doctor_visit"
	MeasurementContextHospital    MeasurementContext = "hospital"
	MeasurementContextClinic      MeasurementContext = "clinic"
)

func ValidMeasurementContexts() []MeasurementContext {
	return []MeasurementContext{
		MeasurementContextHome,
		MeasurementContextDoctorVisit,
		MeasurementContextHospital,
		MeasurementContextClinic,
	}
}

const MeasuredByMaxLen = 100

// GrowthMeasurement is a validated growth record.
// Percentiles holds one entry per present metric whose reference lookup succeeded.
type GrowthMeasurement struct {
	MeasurementDate     Date               `json:"measurement_date"`
	WeightKg            *float64           `json:"weight_kg,omitempty"`
	LengthCm            *float64           `json:"length_cm,omitempty"`
	HeadCircumferenceCm *float64           `json:"head_circumference_cm,omitempty"`
	MeasurementContext  MeasurementContext `json:"measurement_context"`
	MeasuredBy          *string            `json:"measured_by,omitempty"`
	Notes               *string            `json:"notes,omitempty"`
	Percentiles         map[Metric]float64 `json:"percentiles"`
}

func (GrowthMeasurement) Kind() EventKind        { return KindGrowth }
func (g GrowthMeasurement) OccurredAt() time.Time { return g.MeasurementDate.Time }

// Values returns the metrics present on the measurement
func (g GrowthMeasurement) Values() map[Metric]float64 {
	values := make(map[Metric]float64, 3)
	if g.WeightKg != nil {
		values[MetricWeight] = *g.WeightKg
	}
	if g.LengthCm != nil {
		values[MetricLength] = *g.LengthCm
	}
	if g.HeadCircumferenceCm != nil {
		values[MetricHeadCircumference] = *g.HeadCircumferenceCm
	}
	return values
}

// GrowthCandidate is the raw, unvalidated form of a GrowthMeasurement
type GrowthCandidate struct {
	MeasurementDate     *string  `json:"measurement_date"`
	WeightKg            *float64 `json:"weight_kg"`
	LengthCm            *float64 `json:"length_cm"`
	HeadCircumferenceCm *float64 `json:"head_circumference_cm"`
	MeasurementContext  *string  `json:"measurement_context"`
	MeasuredBy          *string  `json:"measured_by"`
	Notes               *string  `json:"notes"`
}
