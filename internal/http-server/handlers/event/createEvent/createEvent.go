package createEvent

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gatherly/internal/lib/api/response"
	"gatherly/internal/lib/logger/sl"
	"gatherly/internal/models"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type EventRequest struct {
	Title                string            `json:"title" validate:"required"`
	RegistrationLimit    *int              `json:"registration_limit,omitempty"`
	RegistrationDeadline time.Time         `json:"registration_deadline" validate:"required"`
	Teams                models.TeamConfig `json:"teams"`
}

type EventResponse struct {
	response.Response
	EventID string `json:"event_id,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=EventCreator
type EventCreator interface {
	CreateEvent(ev models.Event) (*models.Event, error)
}

func New(log *slog.Logger, event EventCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.createEvent.New"

		log = log.With(slog.String("op", op))

		var req EventRequest

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))

			return
		}

		log.Info("request body decoded", slog.Any("request", req))

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			errors.As(err, &validateErr)

			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		if req.RegistrationLimit != nil && *req.RegistrationLimit <= 0 {
			log.Error("invalid registration limit")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("registration limit must be a positive integer"))

			return
		}

		if req.Teams.Enabled && (req.Teams.MinSize < 1 || req.Teams.MaxSize < req.Teams.MinSize) {
			log.Error("invalid team size range")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("team size range is invalid"))

			return
		}

		ev, err := event.CreateEvent(models.Event{
			Title:                req.Title,
			Status:               models.EventStatusOpen,
			RegistrationLimit:    req.RegistrationLimit,
			RegistrationDeadline: req.RegistrationDeadline,
			Teams:                req.Teams,
		})
		if err != nil {
			log.Error("failed to add event", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to add event"))

			return
		}

		log.Info("event added", slog.String("id", ev.ID))

		responseCreated(w, r, ev.ID)
	}
}

func responseCreated(w http.ResponseWriter, r *http.Request, eventID string) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, EventResponse{
		Response: response.OK(),
		EventID:  eventID,
	})
}
