package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/kanavphull/stores-rest-api/pkg/errors"
)

type contextKeyType string

const (
	userIDKey    contextKeyType = "user_id"
	principalKey contextKeyType = "principal"
)

// Policy declares what a route demands from the caller's token. Routes carry
// their policy as data; a single gate enforces it before the handler runs.
type Policy string

const (
	// PolicyNone lets the request through without looking at the
	// Authorization header.
	PolicyNone Policy = "none"

	// PolicyAnyValid requires a valid, non-revoked access token.
	PolicyAnyValid Policy = "any-valid"

	// PolicyFresh additionally requires the access token to be fresh,
	// i.e. obtained by direct password verification rather than refresh.
	PolicyFresh Policy = "fresh-required"

	// PolicyRefreshOnly requires a valid, non-revoked refresh token and
	// rejects access tokens.
	PolicyRefreshOnly Policy = "refresh-only"
)

// Principal describes the authenticated token accepted by the gate.
type Principal struct {
	UserID    int64
	JTI       string
	Fresh     bool
	ExpiresAt time.Time
}

// Authorizer validates a bearer token against a policy and returns the
// authenticated principal. Implementations distinguish expired, revoked,
// malformed, and insufficiently fresh tokens via pkg/errors AppError codes.
type Authorizer interface {
	Authorize(ctx context.Context, token string, policy Policy) (*Principal, error)
}

// TokenGate is the single enforcement point for route authorization policies.
type TokenGate struct {
	authorizer Authorizer
}

// NewTokenGate creates a gate backed by the given authorizer.
func NewTokenGate(a Authorizer) *TokenGate {
	return &TokenGate{authorizer: a}
}

// Require returns a middleware enforcing the given policy. On success the
// principal is stored in the request context for handlers and the request
// logger.
func (g *TokenGate) Require(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if policy == PolicyNone {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, apperrors.TokenMissing())
				return
			}

			principal, err := g.authorizer.Authorize(r.Context(), token, policy)
			if err != nil {
				var appErr *apperrors.AppError
				if errors.As(err, &appErr) {
					writeAuthError(w, appErr)
					return
				}
				writeAuthError(w, apperrors.TokenInvalid())
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			ctx = context.WithValue(ctx, userIDKey, strconv.FormatInt(principal.UserID, 10))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext extracts the authenticated principal from the request
// context. Returns nil when the route was not gated.
func PrincipalFromContext(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey).(*Principal); ok {
		return p
	}
	return nil
}

// UserIDFromContext extracts the authenticated user ID from the request
// context, or zero when the route was not gated.
func UserIDFromContext(ctx context.Context) int64 {
	if p, ok := ctx.Value(principalKey).(*Principal); ok {
		return p.UserID
	}
	return 0
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func writeAuthError(w http.ResponseWriter, appErr *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}
