package scanTicket

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gatherly/internal/http-server/handlers/attendance/scanTicket/mocks"
	"gatherly/internal/http-server/middleware/auth"
	"gatherly/internal/lib/logger/handlers/slogdiscard"
	"gatherly/internal/models"
	"gatherly/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanTicketHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	scannedAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		eventID        string
		identity       *auth.Identity
		requestBody    string
		mockSetup      func(mock *mocks.ScanRecorder)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "Success",
			eventID:     "ev-1",
			identity:    &auth.Identity{ParticipantID: "staff-1", Role: auth.RoleStaff},
			requestBody: `{"qr_code": "deadbeef"}`,
			mockSetup: func(mock *mocks.ScanRecorder) {
				mock.On("RecordScan", "ev-1", "deadbeef", "staff-1", "").Return(
					&models.Attendance{
						ID:            "att-1",
						TicketID:      "TKT-1",
						ParticipantID: "alice",
						ScannedAt:     scannedAt,
					},
					nil,
				)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","participant_id":"alice","scanned_at":"2026-05-01T10:00:00Z"}`,
		},
		{
			name:        "Remarks passed through",
			eventID:     "ev-1",
			identity:    &auth.Identity{ParticipantID: "staff-1", Role: auth.RoleStaff},
			requestBody: `{"qr_code": "deadbeef", "remarks": "vip entrance"}`,
			mockSetup: func(mock *mocks.ScanRecorder) {
				mock.On("RecordScan", "ev-1", "deadbeef", "staff-1", "vip entrance").Return(
					&models.Attendance{ParticipantID: "alice", ScannedAt: scannedAt},
					nil,
				)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","participant_id":"alice","scanned_at":"2026-05-01T10:00:00Z"}`,
		},
		{
			name:           "No identity",
			eventID:        "ev-1",
			identity:       nil,
			requestBody:    `{"qr_code": "deadbeef"}`,
			mockSetup:      func(mock *mocks.ScanRecorder) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:           "Missing QR code",
			eventID:        "ev-1",
			identity:       &auth.Identity{ParticipantID: "staff-1", Role: auth.RoleStaff},
			requestBody:    `{}`,
			mockSetup:      func(mock *mocks.ScanRecorder) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field QRCode is a required field"}`,
		},
		{
			name:        "Unknown QR code",
			eventID:     "ev-1",
			identity:    &auth.Identity{ParticipantID: "staff-1", Role: auth.RoleStaff},
			requestBody: `{"qr_code": "bogus"}`,
			mockSetup: func(mock *mocks.ScanRecorder) {
				mock.On("RecordScan", "ev-1", "bogus", "staff-1", "").
					Return(nil, storage.ErrTicketNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"ticket not found"}`,
		},
		{
			name:        "Ticket for a different event",
			eventID:     "ev-1",
			identity:    &auth.Identity{ParticipantID: "staff-1", Role: auth.RoleStaff},
			requestBody: `{"qr_code": "deadbeef"}`,
			mockSetup: func(mock *mocks.ScanRecorder) {
				mock.On("RecordScan", "ev-1", "deadbeef", "staff-1", "").
					Return(nil, storage.ErrWrongEvent)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"ticket belongs to a different event"}`,
		},
		{
			name:        "Already scanned reports the winning timestamp",
			eventID:     "ev-1",
			identity:    &auth.Identity{ParticipantID: "staff-1", Role: auth.RoleStaff},
			requestBody: `{"qr_code": "deadbeef"}`,
			mockSetup: func(mock *mocks.ScanRecorder) {
				mock.On("RecordScan", "ev-1", "deadbeef", "staff-1", "").
					Return(nil, &storage.AlreadyScannedError{ScannedAt: scannedAt})
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"ticket already scanned","scanned_at":"2026-05-01T10:00:00Z"}`,
		},
		{
			name:        "Internal server error",
			eventID:     "ev-1",
			identity:    &auth.Identity{ParticipantID: "staff-1", Role: auth.RoleStaff},
			requestBody: `{"qr_code": "deadbeef"}`,
			mockSetup: func(mock *mocks.ScanRecorder) {
				mock.On("RecordScan", "ev-1", "deadbeef", "staff-1", "").
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

			mockRecorder := mocks.NewScanRecorder(t)
			tc.mockSetup(mockRecorder)

			handler := New(logger, mockRecorder)

			router := chi.NewRouter()
			router.Post("/events/{id}/attendance/scan", handler)

			req, err := http.NewRequest("POST", "/events/"+tc.eventID+"/attendance/scan", bytes.NewBufferString(tc.requestBody))
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
