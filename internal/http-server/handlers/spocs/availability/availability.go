package availability

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"spoc-booking-service/api"
	"spoc-booking-service/pkg/response"
	"spoc-booking-service/pkg/sl"
)

type AvailabilityGetter interface {
	GetSpocAvailability(ctx context.Context, spocID int, from, to *time.Time) (*api.SpocAvailabilityResponse, error)
}

type Response struct {
	response.Response
	Spoc *api.SpocAvailabilityResponse `json:"spoc,omitempty"`
}

func New(log *slog.Logger, getter AvailabilityGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.spocs.availability.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			log.Error("Invalid spoc id", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid spoc id"))
			return
		}

		from := parseDate(r.URL.Query().Get("start_date"))
		to := parseDate(r.URL.Query().Get("end_date"))

		spoc, err := getter.GetSpocAvailability(r.Context(), id, from, to)

		if errors.Is(err, response.ErrSpocNotFound) {
			log.Error("spoc not found", slog.Int("spoc_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.SPOC_NOT_FOUND), "spoc not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get availability", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get availability"))
			return
		}

		log.Info("Availability retrieved",
			slog.Int("spoc_id", id),
			slog.Int("available_slots", len(spoc.AvailableSlots)),
		)

		render.JSON(w, r, Response{Spoc: spoc})
	}
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}
