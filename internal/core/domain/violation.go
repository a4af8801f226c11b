package domain

import (
	"fmt"
	"strings"
)

// ViolationKind classifies a rejected rule
type ViolationKind string

const (
	FieldConstraintViolation ViolationKind = "FieldConstraintViolation"
	CrossFieldViolation      ViolationKind = "CrossFieldViolation"
	InvalidInterval          ViolationKind = "InvalidInterval"
)

// Rule names reported on violations
const (
	RuleRequired        = "required"
	RuleMinLength       = "min_length"
	RuleMaxLength       = "max_length"
	RulePositive        = "positive"
	RuleNonNegative     = "non_negative"
	RuleRange           = "range"
	RuleEnum            = "enum"
	RuleNotInFuture     = "not_in_future"
	RuleFormat          = "format"
	RuleType            = "type"
	RuleMalformed       = "malformed"
	RuleBreastDuration  = "breast_duration_required"
	RuleBottleVolume    = "bottle_volume_required"
	RuleConsumedOffered = "consumed_not_above_offered"
	RuleEndAfterStart   = "end_not_before_start"
	RuleFollowUpDate    = "follow_up_not_before_event"
	RuleRequiresFlag    = "requires_flag"
)

// Violation describes one broken rule on one field
type Violation struct {
	Field   string        `json:"field"`
	Kind    ViolationKind `json:"kind"`
	Rule    string        `json:"rule"`
	Message string        `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Field, v.Message, v.Rule)
}

// ValidationError carries every violation found for one rejected record
type ValidationError struct {
	Kind       EventKind
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("%s rejected: %s", e.Kind, strings.Join(parts, "; "))
}

// HasViolation reports whether the error contains a violation of kind on field
func (e *ValidationError) HasViolation(field string, kind ViolationKind) bool {
	for _, v := range e.Violations {
		if v.Field == field && v.Kind == kind {
			return true
		}
	}
	return false
}
