package handler

import (
	"net/http"
	"strconv"

	"github.com/IANDYI/care-log/internal/core/ports"
)

// ProfileHandler handles HTTP requests for baby profiles
type ProfileHandler struct {
	profileService ports.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// CreateProfile handles POST /babies
// PARENT only - the caller becomes the owner
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	req, ok := begin(w, r)
	if !ok {
		return
	}
	payload, ok := req.body(w, r)
	if !ok {
		return
	}

	profile, err := h.profileService.CreateProfile(r.Context(), payload, req.userID(), req.isAdmin())
	if err != nil {
		req.fail(w, "create baby profile", err)
		return
	}
	req.respond(w, http.StatusCreated, profile)
}

// GetProfile handles GET /babies/{baby_id}
// ADMIN: any profile, PARENT: owned only
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	req, ok := begin(w, r)
	if !ok {
		return
	}
	babyID, ok := req.pathID(w, r, "baby_id")
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), babyID, req.userID(), req.isAdmin())
	if err != nil {
		req.fail(w, "get baby profile", err)
		return
	}
	req.respond(w, http.StatusOK, profile)
}

// ListProfiles handles GET /babies?include_inactive=true
// ADMIN: all profiles, PARENT: owned only
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	req, ok := begin(w, r)
	if !ok {
		return
	}

	includeInactive := false
	if raw := r.URL.Query().Get("include_inactive"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			req.writeError(w, http.StatusBadRequest, "invalid include_inactive parameter (must be a boolean)")
			return
		}
		includeInactive = parsed
	}

	profiles, err := h.profileService.ListProfiles(r.Context(), req.userID(), req.isAdmin(), includeInactive)
	if err != nil {
		req.fail(w, "list baby profiles", err)
		return
	}
	req.respond(w, http.StatusOK, profiles)
}

// UpdateProfile handles PATCH /babies/{baby_id}
// Body is a sparse change-set; null clears a field
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	req, ok := begin(w, r)
	if !ok {
		return
	}
	babyID, ok := req.pathID(w, r, "baby_id")
	if !ok {
		return
	}
	patch, ok := req.body(w, r)
	if !ok {
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), babyID, patch, req.userID(), req.isAdmin())
	if err != nil {
		req.fail(w, "update baby profile", err)
		return
	}
	req.respond(w, http.StatusOK, profile)
}

// DeactivateProfile handles DELETE /babies/{baby_id}
// The profile is deactivated; its events are kept
func (h *ProfileHandler) DeactivateProfile(w http.ResponseWriter, r *http.Request) {
	req, ok := begin(w, r)
	if !ok {
		return
	}
	babyID, ok := req.pathID(w, r, "baby_id")
	if !ok {
		return
	}

	if err := h.profileService.DeactivateProfile(r.Context(), babyID, req.userID(), req.isAdmin()); err != nil {
		req.fail(w, "deactivate baby profile", err)
		return
	}
	req.respond(w, http.StatusNoContent, nil)
}
