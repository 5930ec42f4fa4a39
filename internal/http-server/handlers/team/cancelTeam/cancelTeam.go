package cancelTeam

import (
	"errors"
	"log/slog"
	"net/http"

	"gatherly/internal/http-server/middleware/auth"
	"gatherly/internal/lib/api/response"
	"gatherly/internal/lib/logger/sl"
	"gatherly/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TeamCanceller
type TeamCanceller interface {
	CancelTeam(teamID, leaderID string) error
}

func New(log *slog.Logger, canceller TeamCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.team.cancelTeam.New"

		log = log.With(slog.String("op", op))

		teamID := chi.URLParam(r, "id")
		if teamID == "" {
			log.Error("team id is required")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("team id is required"))
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
			slog.String("team_id", teamID),
			slog.String("participant_id", id.ParticipantID),
		)

		err := canceller.CancelTeam(teamID, id.ParticipantID)
		if err != nil {
			log.Error("failed to cancel team", sl.Err(err))

			switch {
			case errors.Is(err, storage.ErrTeamNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("team not found"))
			case errors.Is(err, storage.ErrTeamNotForming):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error(err.Error()))
			case errors.Is(err, storage.ErrNotLeader):
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error(err.Error()))
			default:
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to cancel team"))
			}
			return
		}

		log.Info("team cancelled")

		render.JSON(w, r, response.OK())
	}
}
