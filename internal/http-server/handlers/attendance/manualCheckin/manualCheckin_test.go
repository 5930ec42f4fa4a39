package manualCheckin

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gatherly/internal/http-server/handlers/attendance/manualCheckin/mocks"
	"gatherly/internal/http-server/middleware/auth"
	"gatherly/internal/lib/logger/handlers/slogdiscard"
	"gatherly/internal/models"
	"gatherly/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualCheckinHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	scannedAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		eventID        string
		identity       *auth.Identity
		requestBody    string
		mockSetup      func(mock *mocks.ManualRecorder)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "Success",
			eventID:     "ev-1",
			identity:    &auth.Identity{ParticipantID: "staff-1", Role: auth.RoleStaff},
			requestBody: `{"participant_id": "alice", "remarks": "forgot phone"}`,
			mockSetup: func(mock *mocks.ManualRecorder) {
				mock.On("RecordManual", "ev-1", "alice", "staff-1", "forgot phone").Return(
					&models.Attendance{
						ParticipantID: "alice",
						Method:        models.AttendanceMethodManual,
						ScannedAt:     scannedAt,
					},
					nil,
				)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","participant_id":"alice","scanned_at":"2026-05-01T10:00:00Z"}`,
		},
		{
			name:           "Missing participant id",
			eventID:        "ev-1",
			identity:       &auth.Identity{ParticipantID: "staff-1", Role: auth.RoleStaff},
			requestBody:    `{}`,
			mockSetup:      func(mock *mocks.ManualRecorder) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field ParticipantID is a required field"}`,
		},
		{
			name:        "No registration for participant",
			eventID:     "ev-1",
			identity:    &auth.Identity{ParticipantID: "staff-1", Role: auth.RoleStaff},
			requestBody: `{"participant_id": "nobody"}`,
			mockSetup: func(mock *mocks.ManualRecorder) {
				mock.On("RecordManual", "ev-1", "nobody", "staff-1", "").
					Return(nil, storage.ErrTicketNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"no ticket found for this participant"}`,
		},
		{
			name:        "Already checked in",
			eventID:     "ev-1",
			identity:    &auth.Identity{ParticipantID: "staff-1", Role: auth.RoleStaff},
			requestBody: `{"participant_id": "alice"}`,
			mockSetup: func(mock *mocks.ManualRecorder) {
				mock.On("RecordManual", "ev-1", "alice", "staff-1", "").
					Return(nil, &storage.AlreadyScannedError{ScannedAt: scannedAt})
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"ticket already scanned","scanned_at":"2026-05-01T10:00:00Z"}`,
		},
		{
			name:        "Internal server error",
			eventID:     "ev-1",
			identity:    &auth.Identity{ParticipantID: "staff-1", Role: auth.RoleStaff},
			requestBody: `{"participant_id": "alice"}`,
			mockSetup: func(mock *mocks.ManualRecorder) {
				mock.On("RecordManual", "ev-1", "alice", "staff-1", "").
					Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to record attendance"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockRecorder := mocks.NewManualRecorder(t)
			tc.mockSetup(mockRecorder)

			handler := New(logger, mockRecorder)

			router := chi.NewRouter()
			router.Post("/events/{id}/attendance/manual", handler)

			req, err := http.NewRequest("POST", "/events/"+tc.eventID+"/attendance/manual", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)

			if tc.identity != nil {
				req = req.WithContext(auth.WithIdentity(req.Context(), *tc.identity))
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")

			mockRecorder.AssertExpectations(t)
		})
	}
}
