package cancelRegistration

import (
	"errors"
	"log/slog"
	"net/http"

	"gatherly/internal/http-server/middleware/auth"
	"gatherly/internal/lib/api/response"
	"gatherly/internal/lib/logger/sl"
	"gatherly/internal/models"
	"gatherly/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type CancelResponse struct {
	response.Response
	RegistrationID string `json:"registration_id,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=RegistrationCanceller
type RegistrationCanceller interface {
	CancelRegistration(registrationID, participantID string) (*models.Registration, error)
}

func New(log *slog.Logger, canceller RegistrationCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.registration.cancelRegistration.New"

		log = log.With(slog.String("op", op))

		registrationID := chi.URLParam(r, "id")
		if registrationID == "" {
			log.Error("registration id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("registration id is required"))
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
			slog.String("registration_id", registrationID),
			slog.String("participant_id", id.ParticipantID),
		)

		reg, err := canceller.CancelRegistration(registrationID, id.ParticipantID)
		if err != nil {
			log.Error("failed to cancel registration", sl.Err(err))

			switch {
			case errors.Is(err, storage.ErrRegistrationNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("registration not found"))
			case errors.Is(err, storage.ErrNotOwner):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, storage.ErrAlreadyCancelled):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error(err.Error()))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to cancel registration"))
			}
			return
		}

		log.Info("registration cancelled")

		render.JSON(w, r, CancelResponse{
			Response:       response.OK(),
			RegistrationID: reg.ID,
		})
	}
}
