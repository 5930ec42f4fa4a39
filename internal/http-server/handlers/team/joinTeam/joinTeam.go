package joinTeam

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

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type JoinRequest struct {
	InviteCode string `json:"invite_code" validate:"required,len=6"`
}

type JoinResponse struct {
	response.Response
	TeamID string            `json:"team_id,omitempty"`
	Status models.TeamStatus `json:"team_status,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TeamJoiner
type TeamJoiner interface {
	JoinTeam(inviteCode, participantID string) (*models.Team, []models.Ticket, error)
}

func New(log *slog.Logger, joiner TeamJoiner, notifier notify.Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.team.joinTeam.New"

		log = log.With(slog.String("op", op))

		id, ok := auth.FromContext(r.Context())
		if !ok {
			log.Error("no identity in request context")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}

		log = log.With(slog.String("participant_id", id.ParticipantID))

		var req JoinRequest

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

		team, tickets, err := joiner.JoinTeam(req.InviteCode, id.ParticipantID)
		if err != nil {
			log.Error("failed to join team", sl.Err(err))

			switch {
			case errors.Is(err, storage.ErrTeamNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("team not found"))
			case errors.Is(err, storage.ErrEventNotOpen),
				errors.Is(err, storage.ErrDeadlinePassed),
				errors.Is(err, storage.ErrEventFull):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, storage.ErrTeamNotForming),
				errors.Is(err, storage.ErrTeamFull),
				errors.Is(err, storage.ErrAlreadyMember),
				errors.Is(err, storage.ErrAlreadyInTeam),
				errors.Is(err, storage.ErrAlreadyRegistered):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error(err.Error()))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to join team"))
			}
			return
		}

		log.Info("joined team",
			slog.String("team_id", team.ID),
			slog.String("team_status", string(team.Status)),
			slog.Int("tickets_issued", len(tickets)),
		)

		if team.Status == models.TeamStatusComplete {
			if err = notifier.TeamCompleted(*team); err != nil {
				log.Warn("failed to dispatch notification", sl.Err(err))
			}
		}

		render.JSON(w, r, JoinResponse{
			Response: response.OK(),
			TeamID:   team.ID,
			Status:   team.Status,
		})
	}
}
