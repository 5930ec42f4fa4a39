package cancelTeam

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gatherly/internal/http-server/handlers/team/cancelTeam/mocks"
	"gatherly/internal/http-server/middleware/auth"
	"gatherly/internal/lib/logger/handlers/slogdiscard"
	"gatherly/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelTeamHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name           string
		teamID         string
		identity       *auth.Identity
		mockSetup      func(mock *mocks.TeamCanceller)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "Success",
			teamID:   "team-1",
			identity: &auth.Identity{ParticipantID: "lead"},
			mockSetup: func(mock *mocks.TeamCanceller) {
				mock.On("CancelTeam", "team-1", "lead").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name:           "No identity",
			teamID:         "team-1",
			identity:       nil,
			mockSetup:      func(mock *mocks.TeamCanceller) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:     "Team not found",
			teamID:   "team-404",
			identity: &auth.Identity{ParticipantID: "lead"},
			mockSetup: func(mock *mocks.TeamCanceller) {
				mock.On("CancelTeam", "team-404", "lead").Return(storage.ErrTeamNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"team not found"}`,
		},
		{
			name:     "Team no longer forming",
			teamID:   "team-1",
			identity: &auth.Identity{ParticipantID: "lead"},
			mockSetup: func(mock *mocks.TeamCanceller) {
				mock.On("CancelTeam", "team-1", "lead").Return(storage.ErrTeamNotForming)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"team is no longer forming"}`,
		},
		{
			name:     "Not the leader",
			teamID:   "team-1",
			identity: &auth.Identity{ParticipantID: "bob"},
			mockSetup: func(mock *mocks.TeamCanceller) {
				mock.On("CancelTeam", "team-1", "bob").Return(storage.ErrNotLeader)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"only the team leader may do this"}`,
		},
		{
			name:     "Internal server error",
			teamID:   "team-1",
			identity: &auth.Identity{ParticipantID: "lead"},
			mockSetup: func(mock *mocks.TeamCanceller) {
				mock.On("CancelTeam", "team-1", "lead").Return(errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to cancel team"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockCanceller := mocks.NewTeamCanceller(t)
			tc.mockSetup(mockCanceller)

			handler := New(logger, mockCanceller)

			router := chi.NewRouter()
			router.Delete("/teams/{id}", handler)

			req, err := http.NewRequest("DELETE", "/teams/"+tc.teamID, nil)
			require.NoError(t, err)

			if tc.identity != nil {
				req = req.WithContext(auth.WithIdentity(req.Context(), *tc.identity))
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")

			mockCanceller.AssertExpectations(t)
		})
	}
}
