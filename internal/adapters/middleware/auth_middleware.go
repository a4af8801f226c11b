package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Roles issued by the identity service
const (
	RoleParent = "PARENT"
	RoleAdmin  = "ADMIN"
)

const CacheCleanupInterval = 10 * time.Minute

var (
	errMissingSubject = errors.New("missing or invalid user ID claim")
	errMissingRole    = errors.New("missing or invalid role claim")
)

// Principal is the authenticated caller
type Principal struct {
	UserID uuid.UUID
	Role   string
}

// IsAdmin reports whether the caller has read-only ADMIN access
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// cacheEntry stores a verified principal keyed by JTI (JWT ID)
type cacheEntry struct {
	token     string
	principal Principal
	exp       time.Time
}

// AuthMiddleware validates RS256 tokens signed by the identity service
// and caches verified principals by JTI until they expire
type AuthMiddleware struct {
	publicKey   *rsa.PublicKey
	parser      *jwt.Parser
	cache       sync.Map
	janitorStop chan struct{}
	stopOnce    sync.Once
}

// NewAuthMiddleware creates a new JWT authentication middleware
func NewAuthMiddleware(publicKey *rsa.PublicKey) *AuthMiddleware {
	m := &AuthMiddleware{
		publicKey: publicKey,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg(), jwt.SigningMethodRS384.Alg(), jwt.SigningMethodRS512.Alg()}),
			jwt.WithExpirationRequired(),
		),
		janitorStop: make(chan struct{}),
	}

	go m.startJanitor(CacheCleanupInterval)

	return m
}

type contextKey string

const principalKey contextKey = "principal"

// Authenticate verifies a token and returns its principal.
// A cached principal is only reused for the exact token it was verified from;
// tokens without a jti are verified on every call.
func (m *AuthMiddleware) Authenticate(tokenString string) (Principal, error) {
	claims := jwt.MapClaims{}
	if _, _, err := m.parser.ParseUnverified(tokenString, claims); err != nil {
		return Principal{}, err
	}
	jti, _ := claims["jti"].(string)

	if jti != "" {
		if entry, ok := m.cache.Load(jti); ok {
			cached := entry.(cacheEntry)
			if cached.token == tokenString && time.Now().Before(cached.exp) {
				return cached.principal, nil
			}
			if !time.Now().Before(cached.exp) {
				m.cache.Delete(jti)
			}
		}
	}

	token, err := m.parser.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return m.publicKey, nil
	})
	if err != nil {
		return Principal{}, err
	}
	verified, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errors.New("invalid token claims")
	}

	principal, err := principalFromClaims(verified)
	if err != nil {
		return Principal{}, err
	}

	if jti != "" {
		exp, err := verified.GetExpirationTime()
		if err == nil && exp != nil {
			m.cache.Store(jti, cacheEntry{token: tokenString, principal: principal, exp: exp.Time})
		}
	}
	return principal, nil
}

func principalFromClaims(claims jwt.MapClaims) (Principal, error) {
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return Principal{}, errMissingSubject
	}
	userID, err := uuid.Parse(subject)
	if err != nil {
		return Principal{}, errMissingSubject
	}
	role, _ := claims["role"].(string)
	if role == "" {
		return Principal{}, errMissingRole
	}
	return Principal{UserID: userID, Role: role}, nil
}

// RequireAuth validates the bearer token and stores the principal in the request context
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		scheme, tokenString, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			http.Error(w, "invalid authorization header", http.StatusUnauthorized)
			return
		}

		principal, err := m.Authenticate(strings.TrimSpace(tokenString))
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	}
}

// RequireRole allows access only to callers with the given role
func (m *AuthMiddleware) RequireRole(requiredRole string, next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		principal, _ := PrincipalFrom(r.Context())
		if principal.Role != requiredRole {
			log.Printf("Role mismatch: required %s, got %s", requiredRole, principal.Role)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	})
}

// startJanitor periodically removes expired cache entries
func (m *AuthMiddleware) startJanitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			deleted := 0
			m.cache.Range(func(key, value interface{}) bool {
				if entry, ok := value.(cacheEntry); ok && !now.Before(entry.exp) {
					m.cache.Delete(key)
					deleted++
				}
				return true
			})
			if deleted > 0 {
				log.Printf("Token cache janitor: purged %d expired entries", deleted)
			}
		case <-m.janitorStop:
			return
		}
	}
}

// Stop stops the background janitor
func (m *AuthMiddleware) Stop() {
	m.stopOnce.Do(func() { close(m.janitorStop) })
}

// WithPrincipal returns a context carrying principal
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// PrincipalFrom extracts the authenticated caller from the request context
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey).(Principal)
	return principal, ok
}

// IsAdmin checks if the caller in context is an ADMIN
func IsAdmin(ctx context.Context) bool {
	principal, ok := PrincipalFrom(ctx)
	return ok && principal.IsAdmin()
}
