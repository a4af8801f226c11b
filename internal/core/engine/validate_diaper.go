package engine

import (
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
)

func validateDiaper(c domain.DiaperCandidate, now time.Time) (domain.DiaperEvent, []domain.Violation) {
	var v collector
	d := domain.DiaperEvent{
		Timestamp: timeOr(c.Timestamp, now),
		HasUrine:  boolOr(c.HasUrine, false),
		HasStool:  boolOr(c.HasStool, false),
		Notes:     c.Notes,
	}

	d.UrineVolume = enumOr(&v, "urine_volume", c.UrineVolume, domain.ValidUrineVolumes(), domain.UrineVolumeNone)
	d.StoolConsistency = optionalEnum(&v, "stool_consistency", c.StoolConsistency, domain.ValidStoolConsistencies())
	d.StoolColor = optionalEnum(&v, "stool_color", c.StoolColor, domain.ValidStoolColors())
	d.DiaperType = enumOr(&v, "diaper_type", c.DiaperType, domain.ValidDiaperMaterials(), domain.DiaperMaterialDisposable)

	if d.UrineVolume != domain.UrineVolumeNone && !d.HasUrine {
		v.cross("urine_volume", domain.RuleRequiresFlag, "urine_volume requires has_urine to be true")
	}
	if d.StoolConsistency != nil && !d.HasStool {
		v.cross("stool_consistency", domain.RuleRequiresFlag, "stool_consistency requires has_stool to be true")
	}
	if d.StoolColor != nil && !d.HasStool {
		v.cross("stool_color", domain.RuleRequiresFlag, "stool_color requires has_stool to be true")
	}

	return d, v.violations
}
