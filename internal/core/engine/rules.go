package engine

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	// timezone names resolve without a system zoneinfo database
	_ "time/tzdata"

	"github.com/IANDYI/care-log/internal/core/domain"
)

// collector accumulates violations in the order rules are evaluated
type collector struct {
	violations []domain.Violation
}

func (c *collector) add(field string, kind domain.ViolationKind, rule, format string, args ...any) {
	c.violations = append(c.violations, domain.Violation{
		Field:   field,
		Kind:    kind,
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *collector) field(field, rule, format string, args ...any) {
	c.add(field, domain.FieldConstraintViolation, rule, format, args...)
}

func (c *collector) cross(field, rule, format string, args ...any) {
	c.add(field, domain.CrossFieldViolation, rule, format, args...)
}

// interval reports an end timestamp that precedes its start
func (c *collector) interval(endField, startField string) {
	c.add(endField, domain.InvalidInterval, domain.RuleEndAfterStart,
		"%s must not be before %s", endField, startField)
}

// requiredText trims value and checks it is present, non-blank and at most maxLen characters
func (c *collector) requiredText(field string, value *string, maxLen int) string {
	if value == nil {
		c.field(field, domain.RuleRequired, "%s is required", field)
		return ""
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		c.field(field, domain.RuleMinLength, "%s must not be blank", field)
		return ""
	}
	c.maxLength(field, &trimmed, maxLen)
	return trimmed
}

func (c *collector) maxLength(field string, value *string, maxLen int) {
	if value != nil && utf8.RuneCountInString(*value) > maxLen {
		c.field(field, domain.RuleMaxLength, "%s must be at most %d characters", field, maxLen)
	}
}

func (c *collector) positive(field string, value *float64) {
	if value != nil && !(*value > 0) {
		c.field(field, domain.RulePositive, "%s must be greater than 0", field)
	}
}

func (c *collector) nonNegative(field string, value *int) {
	if value != nil && *value < 0 {
		c.field(field, domain.RuleNonNegative, "%s must not be negative", field)
	}
}

func (c *collector) between(field string, value *float64, lo, hi float64) {
	if value != nil && !(*value >= lo && *value <= hi) {
		c.field(field, domain.RuleRange, "%s must be between %g and %g", field, lo, hi)
	}
}

// date parses an optional YYYY-MM-DD value, falling back to def when absent
func (c *collector) date(field string, raw *string, def domain.Date) (domain.Date, bool) {
	if raw == nil {
		return def, true
	}
	d, err := domain.ParseDate(*raw)
	if err != nil {
		c.field(field, domain.RuleFormat, "%s must be a date in YYYY-MM-DD format", field)
		return domain.Date{}, false
	}
	return d, true
}

func (c *collector) notInFuture(field string, d, today domain.Date) {
	if d.After(today) {
		c.field(field, domain.RuleNotInFuture, "%s must not be in the future", field)
	}
}

func (c *collector) timezone(field string, name string) {
	if utf8.RuneCountInString(name) > domain.TimezoneMaxLen {
		c.field(field, domain.RuleMaxLength, "%s must be at most %d characters", field, domain.TimezoneMaxLen)
		return
	}
	if _, err := time.LoadLocation(name); err != nil || name == "" || name == "Local" {
		c.field(field, domain.RuleFormat, "%s must be an IANA timezone name", field)
	}
}

// requiredEnum parses a value that must be present and one of valid
func requiredEnum[T ~string](c *collector, field string, raw *string, valid []T) T {
	if raw == nil {
		c.field(field, domain.RuleRequired, "%s is required", field)
		return ""
	}
	return enumOr(c, field, raw, valid, "")
}

// enumOr parses an optional value, falling back to def when absent
func enumOr[T ~string](c *collector, field string, raw *string, valid []T, def T) T {
	if raw == nil {
		return def
	}
	v := T(*raw)
	if !slices.Contains(valid, v) {
		c.field(field, domain.RuleEnum, "%s must be one of: %s", field, joinEnum(valid))
		return def
	}
	return v
}

// optionalEnum parses a value that stays absent when unset
func optionalEnum[T ~string](c *collector, field string, raw *string, valid []T) *T {
	if raw == nil {
		return nil
	}
	v := T(*raw)
	if !slices.Contains(valid, v) {
		c.field(field, domain.RuleEnum, "%s must be one of: %s", field, joinEnum(valid))
		return nil
	}
	return &v
}

func joinEnum[T ~string](valid []T) string {
	names := make([]string, len(valid))
	for i, v := range valid {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

func timeOr(t *time.Time, def time.Time) time.Time {
	if t == nil {
		return def
	}
	return *t
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func isPositive(v *int) bool {
	return v != nil && *v > 0
}
