package handler

import (
	"net/http"

	"github.com/IANDYI/care-log/internal/core/ports"
)

// ReferenceHandler exposes reloading of the growth reference table
type ReferenceHandler struct {
	referenceService ports.ReferenceService
}

func NewReferenceHandler(referenceService ports.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

// ReloadResponse reports the table now in use
type ReloadResponse struct {
	Source string `json:"source"`
}

// Reload handles POST /growth/reference/reload (ADMIN only, enforced by the router)
func (h *ReferenceHandler) Reload(w http.ResponseWriter, r *http.Request) {
	req, ok := begin(w, r)
	if !ok {
		return
	}

	source, err := h.referenceService.Reload(r.Context())
	if err != nil {
		req.fail(w, "reload growth reference", err)
		return
	}
	req.respond(w, http.StatusOK, ReloadResponse{Source: source})
}
