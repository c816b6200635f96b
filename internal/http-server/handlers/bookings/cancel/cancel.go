package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"spoc-booking-service/api"
	"spoc-booking-service/pkg/response"
	"spoc-booking-service/pkg/sl"
)

type BookingCanceller interface {
	CancelBooking(ctx context.Context, bookingID string) (*api.CancellationResponse, error)
}

type Response struct {
	response.Response
	Cancellation *api.CancellationResponse `json:"cancellation,omitempty"`
}

func New(log *slog.Logger, canceller BookingCanceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.cancel.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id is required"))
			return
		}

		cancellation, err := canceller.CancelBooking(r.Context(), id)

		if errors.Is(err, response.ErrBookingNotFound) {
			log.Error("booking not found", slog.String("booking_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.BOOKING_NOT_FOUND), "booking not found"))
			return
		}

		if errors.Is(err, response.ErrBookingCancelled) {
			log.Error("booking already cancelled", slog.String("booking_id", id))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.ALREADY_CANCELLED), "booking already cancelled"))
			return
		}

		if err != nil {
			log.Error("Failed to cancel booking", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to cancel booking"))
			return
		}

		log.Info("Booking cancelled", slog.String("booking_id", id))

		render.JSON(w, r, Response{Cancellation: cancellation})
	}
}
