package engine

import (
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
)

func validateHealth(c domain.HealthCandidate, now time.Time) (domain.HealthEvent, []domain.Violation) {
	var v collector
	h := domain.HealthEvent{
		EventDate:          timeOr(c.EventDate, now),
		Description:        c.Description,
		TemperatureCelsius: c.TemperatureCelsius,
		Symptoms:           c.Symptoms,
		Treatment:          c.Treatment,
		HealthcareProvider: c.HealthcareProvider,
		FollowUpRequired:   boolOr(c.FollowUpRequired, false),
		FollowUpDate:       c.FollowUpDate,
		Attachments:        c.Attachments,
		Notes:              c.Notes,
	}

	h.EventType = requiredEnum(&v, "event_type", c.EventType, domain.ValidHealthEventTypes())
	h.Title = v.requiredText("title", c.Title, domain.HealthTitleMaxLen)
	v.between("temperature_celsius", c.TemperatureCelsius, domain.MinTemperatureCelsius, domain.MaxTemperatureCelsius)
	v.maxLength("healthcare_provider", c.HealthcareProvider, domain.HealthProviderMaxLen)

	if h.FollowUpDate != nil && h.FollowUpDate.Before(h.EventDate) {
		v.cross("follow_up_date", domain.RuleFollowUpDate, "follow_up_date must not be before event_date")
	}

	return h, v.violations
}
