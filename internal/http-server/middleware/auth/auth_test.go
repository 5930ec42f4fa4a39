package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gatherly/internal/lib/logger/handlers/slogdiscard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func okHandler(t *testing.T, wantID, wantRole string) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := FromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantID, id.ParticipantID)
		assert.Equal(t, wantRole, id.Role)

		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	t.Run("valid token passes identity through", func(t *testing.T) {
		t.Parallel()

		token, err := NewToken(Identity{ParticipantID: "alice", Role: RoleOrganizer}, testSecret, time.Hour)
		require.NoError(t, err)

		handler := New(logger, testSecret)(okHandler(t, "alice", RoleOrganizer))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing role defaults to participant", func(t *testing.T) {
		t.Parallel()

		token, err := NewToken(Identity{ParticipantID: "bob"}, testSecret, time.Hour)
		require.NoError(t, err)

		handler := New(logger, testSecret)(okHandler(t, "bob", RoleParticipant))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		t.Parallel()

		handler := New(logger, testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		}))

		req := httptest.NewRequest("GET", "/", nil)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"status":"Error","error":"unauthorized"}`, rr.Body.String())
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		t.Parallel()

		token, err := NewToken(Identity{ParticipantID: "alice"}, "other-secret", time.Hour)
		require.NoError(t, err)

		handler := New(logger, testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		}))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		t.Parallel()

		token, err := NewToken(Identity{ParticipantID: "alice"}, testSecret, -time.Minute)
		require.NoError(t, err)

		handler := New(logger, testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		}))

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allowed role passes", func(t *testing.T) {
		t.Parallel()

		handler := RequireRole(RoleStaff, RoleOrganizer)(next)

		req := httptest.NewRequest("POST", "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), Identity{ParticipantID: "s1", Role: RoleStaff}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		t.Parallel()

		handler := RequireRole(RoleOrganizer)(next)

		req := httptest.NewRequest("POST", "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), Identity{ParticipantID: "p1", Role: RoleParticipant}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.JSONEq(t, `{"status":"Error","error":"forbidden"}`, rr.Body.String())
	})

	t.Run("no identity is forbidden", func(t *testing.T) {
		t.Parallel()

		handler := RequireRole(RoleOrganizer)(next)

		req := httptest.NewRequest("POST", "/", nil)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
