package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/IANDYI/care-log/internal/core/domain"
)

// logStructured logs one JSON object per line
func logStructured(entry map[string]interface{}) {
	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		log.Printf("Failed to marshal log entry: %v", err)
		return
	}
	log.Printf("%s", string(jsonBytes))
}

// logEvent logs structured JSON for care event lifecycle changes
func logEvent(record *domain.EventRecord, event string) {
	logStructured(map[string]interface{}{
		"event":       event,
		"event_id":    record.ID.String(),
		"baby_id":     record.BabyID.String(),
		"kind":        string(record.Kind),
		"occurred_at": record.OccurredAt.Format(time.RFC3339),
		"created_by":  record.CreatedBy.String(),
	})
}

// logProfile logs structured JSON for profile lifecycle changes
func logProfile(profile *domain.BabyProfile, event string) {
	logStructured(map[string]interface{}{
		"event":     event,
		"baby_id":   profile.ID.String(),
		"owner_id":  profile.OwnerUserID.String(),
		"sex":       string(profile.Sex),
		"is_active": profile.IsActive,
	})
}

// logRejection logs the rules a rejected record broke
func logRejection(kind domain.EventKind, userID string, violations []domain.Violation) {
	rules := make([]string, 0, len(violations))
	for _, v := range violations {
		rules = append(rules, v.Field+":"+v.Rule)
	}
	logStructured(map[string]interface{}{
		"event":      "rejected",
		"kind":       string(kind),
		"user_id":    userID,
		"violations": rules,
	})
}
