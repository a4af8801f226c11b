package handler

import (
	"net/http"

	"github.com/IANDYI/care-log/internal/adapters/middleware"
)

// Router groups the handlers served by the API
type Router struct {
	Auth       *middleware.AuthMiddleware
	Health     *HealthHandler
	Profiles   *ProfileHandler
	Events     *EventHandler
	References *ReferenceHandler
}

// Handler builds the ServeMux with every route, wrapped in the metrics middleware
func (rt Router) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible, no auth required)
	mux.Handle("GET /metrics", Metrics())
	mux.HandleFunc("GET /health", rt.Health.Health)
	mux.HandleFunc("GET /health/ready", rt.Health.Ready)
	mux.HandleFunc("GET /health/live", rt.Health.Live)

	// Profiles - PARENT writes, ADMIN reads everything
	mux.HandleFunc("POST /babies", rt.Auth.RequireAuth(rt.Profiles.CreateProfile))
	mux.HandleFunc("GET /babies", rt.Auth.RequireAuth(rt.Profiles.ListProfiles))
	mux.HandleFunc("GET /babies/{baby_id}", rt.Auth.RequireAuth(rt.Profiles.GetProfile))
	mux.HandleFunc("PATCH /babies/{baby_id}", rt.Auth.RequireAuth(rt.Profiles.UpdateProfile))
	mux.HandleFunc("DELETE /babies/{baby_id}", rt.Auth.RequireAuth(rt.Profiles.DeactivateProfile))

	// Care events
	mux.HandleFunc("POST /babies/{baby_id}/events/{kind}", rt.Auth.RequireAuth(rt.Events.RecordEvent))
	mux.HandleFunc("GET /babies/{baby_id}/events", rt.Auth.RequireAuth(rt.Events.ListEvents))
	mux.HandleFunc("GET /events/{event_id}", rt.Auth.RequireAuth(rt.Events.GetEvent))
	mux.HandleFunc("PATCH /events/{event_id}", rt.Auth.RequireAuth(rt.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{event_id}", rt.Auth.RequireAuth(rt.Events.DeleteEvent))

	// Growth reference - ADMIN only
	mux.HandleFunc("POST /growth/reference/reload", rt.Auth.RequireRole(middleware.RoleAdmin, rt.References.Reload))

	return middleware.MetricsMiddleware(mux)
}
