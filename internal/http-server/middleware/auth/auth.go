// Package auth is the boundary to the identity collaborator: it verifies
// a bearer token and yields (participant id, role) into the request
// context. Token issuance lives outside this service; NewToken exists for
// tests and local tooling.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gatherly/internal/lib/api/response"
	"gatherly/internal/lib/logger/sl"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleParticipant = "participant"
	RoleOrganizer   = "organizer"
	RoleStaff       = "staff"
)

// Identity is the verified caller, as the identity collaborator sees it.
type Identity struct {
	ParticipantID string
	Role          string
}

type claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

type ctxKey struct{}

var errNoToken = errors.New("authorization token is missing")

// New verifies the Authorization bearer token on every request and stores
// the resulting Identity in the context. Unverifiable requests get 401.
func New(log *slog.Logger, secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log := log.With(slog.String("component", "middleware/auth"))

		fn := func(w http.ResponseWriter, r *http.Request) {
			id, err := verify(r, secret)
			if err != nil {
				log.Debug("rejected request", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

func verify(r *http.Request, secret string) (Identity, error) {
	header := r.Header.Get("Authorization")
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return Identity{}, errNoToken
	}

	var c claims
	_, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return Identity{}, err
	}
	if c.Subject == "" {
		return Identity{}, errors.New("token has no subject")
	}

	role := c.Role
	if role == "" {
		role = RoleParticipant
	}

	return Identity{ParticipantID: c.Subject, Role: role}, nil
}

// FromContext returns the verified identity stored by New.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// WithIdentity injects an identity directly, bypassing token
// verification. Test helper.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequireRole gates a route subtree to the given roles. 403 otherwise.
func RequireRole(roles ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if ok {
				for _, role := range roles {
					if id.Role == role {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("forbidden"))
		}

		return http.HandlerFunc(fn)
	}
}

// NewToken issues a signed token for the identity, valid for ttl.
func NewToken(id Identity, secret string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ParticipantID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: id.Role,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}
