package engine

import (
	"strings"
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
)

func validateSleep(c domain.SleepCandidate, now time.Time) (domain.SleepSession, []domain.Violation) {
	var v collector
	s := domain.SleepSession{
		SleepStart:       timeOr(c.SleepStart, now),
		SleepEnd:         c.SleepEnd,
		SleepEnvironment: c.SleepEnvironment,
		Notes:            c.Notes,
	}

	s.SleepType = enumOr(&v, "sleep_type", c.SleepType, domain.ValidSleepKinds(), domain.SleepKindNap)
	s.Location = enumOr(&v, "location", c.Location, domain.ValidSleepLocations(), domain.SleepLocationCrib)
	s.SleepQuality = enumOr(&v, "sleep_quality", c.SleepQuality, domain.ValidSleepQualities(), domain.SleepQualityGood)
	s.WakeReason = optionalEnum(&v, "wake_reason", c.WakeReason, domain.ValidWakeReasons())
	for key := range c.SleepEnvironment {
		if strings.TrimSpace(key) == "" {
			v.field("sleep_environment", domain.RuleFormat, "sleep_environment keys must not be blank")
			break
		}
	}

	if s.SleepEnd != nil && s.SleepEnd.Before(s.SleepStart) {
		v.interval("sleep_end", "sleep_start")
	}

	return s, v.violations
}
