package createEvent

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gatherly/internal/http-server/handlers/event/createEvent/mocks"
	"gatherly/internal/lib/logger/handlers/slogdiscard"
	"gatherly/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	deadline := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
	limit := 100

	testCases := []struct {
		name           string
		requestBody    string
		mockSetup      func(mock *mocks.EventCreator)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success",
			requestBody: `{
				"title": "GopherCon",
				"registration_limit": 100,
				"registration_deadline": "2026-12-31T23:59:59Z",
				"teams": {"enabled": true, "min_size": 2, "max_size": 4}
			}`,
			mockSetup: func(mock *mocks.EventCreator) {
				mock.On("CreateEvent", models.Event{
					Title:                "GopherCon",
					Status:               models.EventStatusOpen,
					RegistrationLimit:    &limit,
					RegistrationDeadline: deadline,
					Teams:                models.TeamConfig{Enabled: true, MinSize: 2, MaxSize: 4},
				}).Return(&models.Event{ID: "ev-1"}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"status":"OK","event_id":"ev-1"}`,
		},
		{
			name: "Unlimited capacity",
			requestBody: `{
				"title": "Meetup",
				"registration_deadline": "2026-12-31T23:59:59Z"
			}`,
			mockSetup: func(mock *mocks.EventCreator) {
				mock.On("CreateEvent", models.Event{
					Title:                "Meetup",
					Status:               models.EventStatusOpen,
					RegistrationDeadline: deadline,
				}).Return(&models.Event{ID: "ev-2"}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"status":"OK","event_id":"ev-2"}`,
		},
		{
			name:           "Invalid JSON",
			requestBody:    `invalid json`,
			mockSetup:      func(mock *mocks.EventCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:           "Missing title",
			requestBody:    `{"registration_deadline": "2026-12-31T23:59:59Z"}`,
			mockSetup:      func(mock *mocks.EventCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field Title is a required field"}`,
		},
		{
			name: "Zero registration limit",
			requestBody: `{
				"title": "GopherCon",
				"registration_limit": 0,
				"registration_deadline": "2026-12-31T23:59:59Z"
			}`,
			mockSetup:      func(mock *mocks.EventCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"registration limit must be a positive integer"}`,
		},
		{
			name: "Inverted team size range",
			requestBody: `{
				"title": "GopherCon",
				"registration_deadline": "2026-12-31T23:59:59Z",
				"teams": {"enabled": true, "min_size": 4, "max_size": 2}
			}`,
			mockSetup:      func(mock *mocks.EventCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"team size range is invalid"}`,
		},
		{
			name: "Internal server error",
			requestBody: `{
				"title": "Meetup",
				"registration_deadline": "2026-12-31T23:59:59Z"
			}`,
			mockSetup: func(mock *mocks.EventCreator) {
				mock.On("CreateEvent", models.Event{
					Title:                "Meetup",
					Status:               models.EventStatusOpen,
					RegistrationDeadline: deadline,
				}).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to add event"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockCreator := mocks.NewEventCreator(t)
			tc.mockSetup(mockCreator)

			handler := New(logger, mockCreator)

			req, err := http.NewRequest("POST", "/events", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")

			mockCreator.AssertExpectations(t)
		})
	}
}
