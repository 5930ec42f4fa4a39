package leaveTeam

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gatherly/internal/http-server/handlers/team/leaveTeam/mocks"
	"gatherly/internal/http-server/middleware/auth"
	"gatherly/internal/lib/logger/handlers/slogdiscard"
	"gatherly/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveTeamHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name           string
		teamID         string
		identity       *auth.Identity
		mockSetup      func(mock *mocks.TeamLeaver)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "Success",
			teamID:   "team-1",
			identity: &auth.Identity{ParticipantID: "bob"},
			mockSetup: func(mock *mocks.TeamLeaver) {
				mock.On("LeaveTeam", "team-1", "bob").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
		{
			name:           "No identity",
			teamID:         "team-1",
			identity:       nil,
			mockSetup:      func(mock *mocks.TeamLeaver) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:     "Team not found",
			teamID:   "team-404",
			identity: &auth.Identity{ParticipantID: "bob"},
			mockSetup: func(mock *mocks.TeamLeaver) {
				mock.On("LeaveTeam", "team-404", "bob").Return(storage.ErrTeamNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"team not found"}`,
		},
		{
			name:     "Team no longer forming",
			teamID:   "team-1",
			identity: &auth.Identity{ParticipantID: "bob"},
			mockSetup: func(mock *mocks.TeamLeaver) {
				mock.On("LeaveTeam", "team-1", "bob").Return(storage.ErrTeamNotForming)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"team is no longer forming"}`,
		},
		{
			name:     "Leader cannot leave",
			teamID:   "team-1",
			identity: &auth.Identity{ParticipantID: "lead"},
			mockSetup: func(mock *mocks.TeamLeaver) {
				mock.On("LeaveTeam", "team-1", "lead").Return(storage.ErrLeaderCannotLeave)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"team leader cannot leave, cancel the team instead"}`,
		},
		{
			name:     "Not a member",
			teamID:   "team-1",
			identity: &auth.Identity{ParticipantID: "stranger"},
			mockSetup: func(mock *mocks.TeamLeaver) {
				mock.On("LeaveTeam", "team-1", "stranger").Return(storage.ErrNotMember)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"participant is not a member of this team"}`,
		},
		{
			name:     "Internal server error",
			teamID:   "team-1",
			identity: &auth.Identity{ParticipantID: "bob"},
			mockSetup: func(mock *mocks.TeamLeaver) {
				mock.On("LeaveTeam", "team-1", "bob").Return(errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to leave team"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockLeaver := mocks.NewTeamLeaver(t)
			tc.mockSetup(mockLeaver)

			handler := New(logger, mockLeaver)

			router := chi.NewRouter()
			router.Post("/teams/{id}/leave", handler)

			req, err := http.NewRequest("POST", "/teams/"+tc.teamID+"/leave", nil)
			require.NoError(t, err)

			if tc.identity != nil {
				req = req.WithContext(auth.WithIdentity(req.Context(), *tc.identity))
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")

			mockLeaver.AssertExpectations(t)
		})
	}
}
