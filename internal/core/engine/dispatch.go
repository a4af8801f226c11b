package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
)

// Subject is the baby a growth measurement is taken of
type Subject struct {
	DateOfBirth domain.Date
	Sex         domain.Sex
}

// Outcome is the kind-erased result of Validate and Merge
type Outcome struct {
	Kind       domain.EventKind
	Record     domain.Record
	Violations []domain.Violation
}

func (o Outcome) Accepted() bool {
	return o.Record != nil
}

// Err returns a *domain.ValidationError for a rejected outcome, nil otherwise
func (o Outcome) Err() error {
	if o.Accepted() {
		return nil
	}
	return &domain.ValidationError{Kind: o.Kind, Violations: o.Violations}
}

func outcome[T domain.Record](r Result[T]) Outcome {
	var zero T
	if !r.Accepted() {
		return Outcome{Kind: zero.Kind(), Violations: r.Violations}
	}
	return Outcome{Kind: zero.Kind(), Record: *r.Record}
}

// decodeFunc fills candidate from JSON. Violations describe fields that could not
// be decoded; ok is false when the body as a whole is unusable and no rules should run.
type decodeFunc func(candidate any) (violations []domain.Violation, ok bool)

// Validate decodes a JSON candidate of the given kind and validates it.
// Decoding problems are reported as violations; the error is only set for unknown kinds.
// subject is used for growth measurements and may be nil, which leaves percentiles empty.
func (e *Engine) Validate(kind domain.EventKind, payload []byte, subject *Subject) (Outcome, error) {
	return e.dispatch(kind, subject, func(candidate any) ([]domain.Violation, bool) {
		return decodeCandidate(payload, candidate)
	})
}

// Merge applies a sparse JSON change-set to a stored normalized record and
// revalidates the result in full. Keys present in patch replace stored values
// whole, null clears them, and derived fields are recomputed.
func (e *Engine) Merge(kind domain.EventKind, stored, patch []byte, subject *Subject) (Outcome, error) {
	var base map[string]json.RawMessage
	if err := json.Unmarshal(stored, &base); err != nil {
		return Outcome{}, fmt.Errorf("failed to decode stored %s record: %w", kind, err)
	}
	if base == nil {
		base = map[string]json.RawMessage{}
	}
	return e.dispatch(kind, subject, func(candidate any) ([]domain.Violation, bool) {
		changes, violations := decodeObject(patch)
		if violations != nil {
			return violations, false
		}
		for key, value := range changes {
			base[key] = value
		}
		merged, err := json.Marshal(base)
		if err != nil {
			return malformed(err), false
		}
		return decodeCandidate(merged, candidate)
	})
}

func (e *Engine) dispatch(kind domain.EventKind, subject *Subject, decode decodeFunc) (Outcome, error) {
	switch kind {
	case domain.KindProfile:
		return run(decode, e.ValidateProfile), nil
	case domain.KindFeeding:
		return run(decode, e.ValidateFeeding), nil
	case domain.KindSleep:
		return run(decode, e.ValidateSleep), nil
	case domain.KindDiaper:
		return run(decode, e.ValidateDiaper), nil
	case domain.KindGrowth:
		return run(decode, func(c domain.GrowthCandidate) Result[domain.GrowthMeasurement] {
			ageDays, sex := e.subjectAge(c, subject)
			return e.ValidateGrowth(c, ageDays, sex)
		}), nil
	case domain.KindHealth:
		return run(decode, e.ValidateHealth), nil
	default:
		return Outcome{}, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}
}

// run decodes a candidate and validates it. Fields that failed to decode are
// left unset, so rule violations on those fields are dropped in favour of the
// decode violation.
func run[C any, T domain.Record](decode decodeFunc, validate func(C) Result[T]) Outcome {
	var zero T
	var c C
	decodeViolations, ok := decode(&c)
	if !ok {
		return Outcome{Kind: zero.Kind(), Violations: decodeViolations}
	}
	out := outcome(validate(c))
	if len(decodeViolations) == 0 {
		return out
	}

	undecoded := make(map[string]bool, len(decodeViolations))
	for _, v := range decodeViolations {
		undecoded[v.Field] = true
	}
	violations := decodeViolations
	for _, v := range out.Violations {
		if !undecoded[v.Field] {
			violations = append(violations, v)
		}
	}
	return Outcome{Kind: zero.Kind(), Violations: violations}
}

// subjectAge returns the subject's age in days on the measurement date.
// Without a subject the age is negative, which no reference curve covers.
func (e *Engine) subjectAge(c domain.GrowthCandidate, subject *Subject) (int, domain.Sex) {
	if subject == nil {
		return -1, domain.SexUnknown
	}
	measured := domain.DateOf(e.clock.Now())
	if c.MeasurementDate != nil {
		if d, err := domain.ParseDate(*c.MeasurementDate); err == nil {
			measured = d
		}
	}
	return domain.DaysBetween(subject.DateOfBirth, measured), subject.Sex
}

// decodeObject parses payload as a JSON object of raw fields
func decodeObject(payload []byte) (map[string]json.RawMessage, []domain.Violation) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, []domain.Violation{{
			Field:   "body",
			Kind:    domain.FieldConstraintViolation,
			Rule:    domain.RuleRequired,
			Message: "request body is empty",
		}}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, malformed(err)
	}
	return fields, nil
}

func decodeCandidate(payload []byte, candidate any) ([]domain.Violation, bool) {
	fields, violations := decodeObject(payload)
	if violations != nil {
		return violations, false
	}
	if err := json.Unmarshal(payload, candidate); err == nil {
		return nil, true
	}
	return decodeFields(fields, candidate), true
}

// decodeFields decodes each top-level field on its own so one bad value does
// not hide the others. Fields that fail are reported and left unset.
func decodeFields(fields map[string]json.RawMessage, candidate any) []domain.Violation {
	target := reflect.ValueOf(candidate).Elem()
	target.Set(reflect.Zero(target.Type()))

	var violations []domain.Violation
	valid := make(map[string]json.RawMessage, len(fields))
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		single, err := json.Marshal(map[string]json.RawMessage{key: fields[key]})
		if err == nil {
			err = json.Unmarshal(single, reflect.New(target.Type()).Interface())
		}
		if err != nil {
			violations = append(violations, fieldViolation(key, err))
			continue
		}
		valid[key] = fields[key]
	}

	if remaining, err := json.Marshal(valid); err == nil {
		_ = json.Unmarshal(remaining, candidate)
	}
	return violations
}

func fieldViolation(key string, err error) domain.Violation {
	v := domain.Violation{Field: key, Kind: domain.FieldConstraintViolation, Rule: domain.RuleType}

	var typeErr *json.UnmarshalTypeError
	var parseErr *time.ParseError
	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			v.Field = typeErr.Field
		}
		v.Message = fmt.Sprintf("%s must be %s", v.Field, describeType(typeErr.Type))
	case errors.As(err, &parseErr):
		v.Message = fmt.Sprintf("%s must be an RFC 3339 timestamp", key)
	default:
		v.Message = fmt.Sprintf("%s is invalid: %v", key, err)
	}
	return v
}

func malformed(err error) []domain.Violation {
	return []domain.Violation{{
		Field:   "body",
		Kind:    domain.FieldConstraintViolation,
		Rule:    domain.RuleMalformed,
		Message: fmt.Sprintf("malformed request body: %v", err),
	}}
}

func describeType(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int64, reflect.Int32:
		return "an integer"
	case reflect.Float64, reflect.Float32:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice:
		return "a list"
	case reflect.Map, reflect.Struct:
		return "an object"
	default:
		return "a " + t.String()
	}
}
