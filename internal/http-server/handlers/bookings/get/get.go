package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"spoc-booking-service/api"
	"spoc-booking-service/pkg/response"
	"spoc-booking-service/pkg/sl"
)

const defaultLimit = 100

type BookingGetter interface {
	GetBooking(ctx context.Context, bookingID string) (*api.BookingResponse, error)
	ListBookings(ctx context.Context, status *string, spocID *int, skip, limit int) ([]*api.BookingResponse, error)
}

type Response struct {
	response.Response
	Bookings []api.BookingResponse `json:"bookings,omitempty"`
	Booking  *api.BookingResponse  `json:"booking,omitempty"`
}

func New(log *slog.Logger, getter BookingGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if id := chi.URLParam(r, "id"); id != "" {
			booking, err := getter.GetBooking(r.Context(), id)

			if errors.Is(err, response.ErrBookingNotFound) {
				log.Error("booking not found", slog.String("booking_id", id))
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.BOOKING_NOT_FOUND), "booking not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get booking", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get booking"))
				return
			}

			log.Info("Booking retrieved", slog.String("booking_id", id))
			render.JSON(w, r, Response{Booking: booking})
			return
		}

		var status *string
		if v := r.URL.Query().Get("status"); v != "" {
			status = &v
		}

		var spocID *int
		if v := r.URL.Query().Get("spoc_id"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				spocID = &n
			}
		}

		skip := queryInt(r, "skip", 0)
		limit := queryInt(r, "limit", defaultLimit)

		bookings, err := getter.ListBookings(r.Context(), status, spocID, skip, limit)
		if err != nil {
			log.Error("Failed to list bookings", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list bookings"))
			return
		}

		log.Info("Bookings retrieved", slog.Int("count", len(bookings)))

		bookingsResponse := make([]api.BookingResponse, len(bookings))
		for i, b := range bookings {
			bookingsResponse[i] = *b
		}
		render.JSON(w, r, Response{Bookings: bookingsResponse})
	}
}

func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
