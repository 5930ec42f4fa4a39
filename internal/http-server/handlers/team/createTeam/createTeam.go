package createTeam

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
	"github.com/go-playground/validator/v10"
)

type TeamRequest struct {
	Name    string `json:"name" validate:"required"`
	MaxSize int    `json:"max_size" validate:"required,gt=1"`
}

type TeamResponse struct {
	response.Response
	TeamID     string `json:"team_id,omitempty"`
	InviteCode string `json:"invite_code,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TeamCreator
type TeamCreator interface {
	CreateTeam(eventID, leaderID, name string, maxSize int) (*models.Team, error)
}

func New(log *slog.Logger, creator TeamCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.team.createTeam.New"

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
			slog.String("leader_id", id.ParticipantID),
		)

		var req TeamRequest

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

		team, err := creator.CreateTeam(eventID, id.ParticipantID, req.Name, req.MaxSize)
		if err != nil {
			log.Error("failed to create team", sl.Err(err))

			switch {
			case errors.Is(err, storage.ErrEventNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("event not found"))
			case errors.Is(err, storage.ErrTeamsDisabled),
				errors.Is(err, storage.ErrTeamSizeInvalid),
				errors.Is(err, storage.ErrEventNotOpen),
				errors.Is(err, storage.ErrDeadlinePassed):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, storage.ErrAlreadyRegistered),
				errors.Is(err, storage.ErrAlreadyInTeam):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, storage.ErrCodeAllocationExhausted):
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.Error("could not allocate an invite code, retry later"))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to create team"))
			}
			return
		}

		log.Info("team created", slog.String("team_id", team.ID))

		responseCreated(w, r, team)
	}
}

func responseCreated(w http.ResponseWriter, r *http.Request, team *models.Team) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, TeamResponse{
		Response:   response.OK(),
		TeamID:     team.ID,
		InviteCode: team.InviteCode,
	})
}
