package scanTicket

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

type ScanRequest struct {
	QRCode  string `json:"qr_code" validate:"required"`
	Remarks string `json:"remarks,omitempty"`
}

type ScanResponse struct {
	response.Response
	ParticipantID string     `json:"participant_id,omitempty"`
	ScannedAt     *time.Time `json:"scanned_at,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=ScanRecorder
type ScanRecorder interface {
	RecordScan(eventID, qrCode, staffID, remarks string) (*models.Attendance, error)
}

func New(log *slog.Logger, recorder ScanRecorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.attendance.scanTicket.New"

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

		var req ScanRequest

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

		att, err := recorder.RecordScan(eventID, req.QRCode, id.ParticipantID, req.Remarks)
		if err != nil {
			log.Error("failed to record attendance", sl.Err(err))
			respondScanError(w, r, err)
			return
		}

		log.Info("attendance recorded",
			slog.String("ticket_id", att.TicketID),
			slog.String("participant_id", att.ParticipantID),
		)

		responseOK(w, r, att)
	}
}

// respondScanError maps redemption failures for both scan and manual
// check-in. A duplicate scan reports the winning scan's timestamp.
func respondScanError(w http.ResponseWriter, r *http.Request, err error) {
	var scannedErr *storage.AlreadyScannedError

	switch {
	case errors.Is(err, storage.ErrTicketNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("ticket not found"))
	case errors.Is(err, storage.ErrWrongEvent):
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error(err.Error()))
	case errors.As(err, &scannedErr):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, ScanResponse{
			Response:  response.Error("ticket already scanned"),
			ScannedAt: &scannedErr.ScannedAt,
		})
	default:
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to record attendance"))
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, att *models.Attendance) {
	scannedAt := att.ScannedAt
	render.JSON(w, r, ScanResponse{
		Response:      response.OK(),
		ParticipantID: att.ParticipantID,
		ScannedAt:     &scannedAt,
	})
}
