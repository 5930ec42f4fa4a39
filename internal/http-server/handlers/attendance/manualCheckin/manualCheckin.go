package manualCheckin

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gatherly/internal/http-server/middleware/auth"
	"gatherly/internal/lib/api/response"
	"gatherly/internal/lib/logger/sl"
	"gatherly/internal/models"
	"gatherly/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type CheckinRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
	Remarks       string `json:"remarks,omitempty"`
}

type CheckinResponse struct {
	response.Response
	ParticipantID string     `json:"participant_id,omitempty"`
	ScannedAt     *time.Time `json:"scanned_at,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ManualRecorder
type ManualRecorder interface {
	RecordManual(eventID, participantID, staffID, remarks string) (*models.Attendance, error)
}

func New(log *slog.Logger, recorder ManualRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.attendance.manualCheckin.New"

		log = log.With(slog.String("op", op))

		eventID := chi.URLParam(r, "id")
		if eventID == "" {
			log.Error("event id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("event id is required"))
			return
		}

		id, ok := auth.FromContext(r.Context())
		if !ok {
			log.Error("no identity in request context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}

		log = log.With(
			slog.String("event_id", eventID),
			slog.String("staff_id", id.ParticipantID),
		)

		var req CheckinRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		att, err := recorder.RecordManual(eventID, req.ParticipantID, id.ParticipantID, req.Remarks)
		if err != nil {
			log.Error("failed to record manual check-in", sl.Err(err))

			var scannedErr *storage.AlreadyScannedError

			switch {
			case errors.Is(err, storage.ErrTicketNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("no ticket found for this participant"))
			case errors.Is(err, storage.ErrWrongEvent):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.As(err, &scannedErr):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, CheckinResponse{
					Response:  response.Error("ticket already scanned"),
					ScannedAt: &scannedErr.ScannedAt,
				})
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to record attendance"))
			}
			return
		}

		log.Info("manual check-in recorded",
			slog.String("ticket_id", att.TicketID),
			slog.String("participant_id", att.ParticipantID),
		)

		scannedAt := att.ScannedAt
		render.JSON(w, r, CheckinResponse{
			Response:      response.OK(),
			ParticipantID: att.ParticipantID,
			ScannedAt:     &scannedAt,
		})
	}
}
