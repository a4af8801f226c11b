package engine

import (
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
)

func validateProfile(c domain.ProfileCandidate, now time.Time) (domain.BabyProfile, []domain.Violation) {
	var v collector
	p := domain.BabyProfile{
		Sex:                    domain.SexUnknown,
		Timezone:               domain.DefaultTimezone,
		IsActive:               true,
		BirthWeight:            c.BirthWeight,
		BirthLength:            c.BirthLength,
		BirthHeadCircumference: c.BirthHeadCircumference,
		Notes:                  c.Notes,
	}

	p.Name = v.requiredText("name", c.Name, domain.ProfileNameMaxLen)
	if c.DateOfBirth == nil {
		v.field("date_of_birth", domain.RuleRequired, "date_of_birth is required")
	} else if dob, ok := v.date("date_of_birth", c.DateOfBirth, domain.Date{}); ok {
		p.DateOfBirth = dob
		v.notInFuture("date_of_birth", dob, today(now))
	}
	v.positive("birth_weight", c.BirthWeight)
	v.positive("birth_length", c.BirthLength)
	v.positive("birth_head_circumference", c.BirthHeadCircumference)
	p.Sex = enumOr(&v, "sex", c.Sex, domain.ValidSexes(), domain.SexUnknown)
	if c.Timezone != nil {
		v.timezone("timezone", *c.Timezone)
		p.Timezone = *c.Timezone
	}

	return p, v.violations
}
