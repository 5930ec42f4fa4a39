package register

import (
	"errors"
	"log/slog"
	"net/http"

	"gatherly/internal/http-server/middleware/auth"
	"gatherly/internal/lib/api/response"
	"gatherly/internal/lib/logger/sl"
	"gatherly/internal/models"
	"gatherly/internal/notify"
	"gatherly/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type RegisterResponse struct {
	response.Response
	RegistrationID string `json:"registration_id,omitempty"`
	TicketID       string `json:"ticket_id,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ParticipantRegistrar
type ParticipantRegistrar interface {
	RegisterParticipant(eventID, participantID string) (*models.Registration, *models.Ticket, error)
}

func New(log *slog.Logger, registrar ParticipantRegistrar, notifier notify.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.event.register.New"

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
			slog.String("participant_id", id.ParticipantID),
		)

		reg, ticket, err := registrar.RegisterParticipant(eventID, id.ParticipantID)
		if err != nil {
			log.Error("failed to register participant", sl.Err(err))

			switch {
			case errors.Is(err, storage.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			case errors.Is(err, storage.ErrEventNotOpen),
				errors.Is(err, storage.ErrDeadlinePassed),
				errors.Is(err, storage.ErrEventFull):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, storage.ErrAlreadyRegistered),
				errors.Is(err, storage.ErrAlreadyInTeam):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error(err.Error()))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to register for event"))
			}
			return
		}

		log.Info("participant registered",
			slog.String("registration_id", reg.ID),
			slog.String("ticket_id", ticket.ID),
		)

		// Fire-and-forget: a notification failure never affects the
		// committed registration.
		if err = notifier.RegistrationConfirmed(*reg, *ticket); err != nil {
			log.Warn("failed to dispatch notification", sl.Err(err))
		}

		responseCreated(w, r, reg, ticket)
	}
}

func responseCreated(w http.ResponseWriter, r *http.Request, reg *models.Registration, ticket *models.Ticket) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, RegisterResponse{
		Response:       response.OK(),
		RegistrationID: reg.ID,
		TicketID:       ticket.ID,
	})
}
