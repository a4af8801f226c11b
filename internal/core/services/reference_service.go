package services

import (
	"context"
	"fmt"

	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/IANDYI/care-log/internal/core/growth"
)

// ReferenceService reloads the growth reference table behind a growth.Store
type ReferenceService struct {
	store *growth.Store
	path  string
}

// NewReferenceService creates a reference service reading from path,
// or from the embedded WHO table when path is empty
func NewReferenceService(store *growth.Store, path string) *ReferenceService {
	return &ReferenceService{store: store, path: path}
}

// Reload loads the table and swaps it in. On failure the active table is kept.
func (s *ReferenceService) Reload(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	table, err := growth.LoadOrDefault(s.path)
	if err != nil {
		referenceReloadsTotal.WithLabelValues("failed").Inc()
		return "", fmt.Errorf("failed to reload growth reference: %w", err)
	}
	s.store.Swap(table)
	referenceReloadsTotal.WithLabelValues("succeeded").Inc()

	logStructured(map[string]interface{}{
		"event":    "reference_reloaded",
		"source":   table.Source(),
		"path":     s.path,
		"coverage": coverage(table),
	})
	return table.Source(), nil
}

// coverage lists the tabulated age span, in days, of every curve in table
func coverage(table *growth.Table) map[string]string {
	spans := make(map[string]string)
	for _, metric := range domain.ValidMetrics() {
		for _, sex := range []domain.Sex{domain.SexFemale, domain.SexMale} {
			if first, last, ok := table.Span(metric, sex); ok {
				spans[string(metric)+"/"+string(sex)] = fmt.Sprintf("%d-%d", first, last)
			}
		}
	}
	return spans
}
