package handler

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/IANDYI/care-log/internal/adapters/middleware"
	"github.com/IANDYI/care-log/internal/core/domain"
	"github.com/google/uuid"
)

// maxBodyBytes bounds request bodies read by the handlers
const maxBodyBytes = 1 << 20

// ErrorResponse is the JSON body of every error response
type ErrorResponse struct {
	Error      string             `json:"error"`
	Kind       domain.EventKind   `json:"kind,omitempty"`
	Violations []domain.Violation `json:"violations,omitempty"`
}

// request carries the per-request logging context
type request struct {
	id        string
	start     time.Time
	principal middleware.Principal
	method    string
	endpoint  string
}

// begin starts a request, writing 401 when no principal is present
func begin(w http.ResponseWriter, r *http.Request) (*request, bool) {
	req := &request{
		id:       generateRequestID(),
		start:    time.Now(),
		method:   r.Method,
		endpoint: r.URL.Path,
	}
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		log.Printf("[%s] Failed to get principal from context", req.id)
		req.writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	req.principal = principal
	return req, true
}

func (req *request) userID() uuid.UUID {
	return req.principal.UserID
}

func (req *request) isAdmin() bool {
	return req.principal.IsAdmin()
}

// pathID parses the UUID path value name, writing 400 on failure
func (req *request) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		log.Printf("[%s] Invalid %s: %v", req.id, name, err)
		req.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// body reads the request body, writing 400 on failure
func (req *request) body(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		log.Printf("[%s] Failed to read request body: %v", req.id, err)
		req.writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	return payload, true
}

// respond writes v as JSON and logs the request
func (req *request) respond(w http.ResponseWriter, statusCode int, v interface{}) {
	if v == nil {
		w.WriteHeader(statusCode)
		req.log(statusCode)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[%s] Failed to encode response: %v", req.id, err)
	}
	req.log(statusCode)
}

func (req *request) writeError(w http.ResponseWriter, statusCode int, message string) {
	req.respond(w, statusCode, ErrorResponse{Error: message})
}

// fail maps a service error to a status code and writes it:
// rejections 422 with their violations, ErrNotFound 404, ErrForbidden 403,
// ErrInactiveProfile 409, bad input 400, anything else 500
func (req *request) fail(w http.ResponseWriter, operation string, err error) {
	log.Printf("[%s] Failed to %s: user_id=%s, role=%s, error=%v", req.id, operation, req.userID(), req.principal.Role, err)

	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		req.respond(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:      "validation failed",
			Kind:       validationErr.Kind,
			Violations: validationErr.Violations,
		})
	case errors.Is(err, domain.ErrNotFound):
		req.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrForbidden):
		req.writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrInactiveProfile):
		req.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownKind):
		req.writeError(w, http.StatusBadRequest, err.Error())
	default:
		req.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (req *request) log(statusCode int) {
	userID := ""
	if req.principal.UserID != uuid.Nil {
		userID = req.principal.UserID.String()
	}
	logStructured(req.id, userID, req.principal.IsAdmin(), req.method, req.endpoint, statusCode, time.Since(req.start))
}

// generateRequestID generates a unique request ID for tracing
func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based ID if random generation fails
		return hex.EncodeToString([]byte(time.Now().Format(time.RFC3339Nano)))
	}
	return hex.EncodeToString(b)
}

// logStructured logs structured JSON with request metadata
// Includes: request_id, user_id, role, endpoint, status_code, duration
func logStructured(requestID, userID string, isAdmin bool, method, endpoint string, statusCode int, duration time.Duration) {
	role := middleware.RoleParent
	if isAdmin {
		role = middleware.RoleAdmin
	}

	logEntry := map[string]interface{}{
		"request_id":  requestID,
		"user_id":     userID,
		"role":        role,
		"method":      method,
		"endpoint":    endpoint,
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
	}

	jsonBytes, err := json.Marshal(logEntry)
	if err != nil {
		log.Printf("[%s] Failed to marshal log entry: %v", requestID, err)
		return
	}

	log.Printf("%s", string(jsonBytes))
}
