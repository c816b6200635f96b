package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"spoc-booking-service/api"
	"spoc-booking-service/pkg/response"
	"spoc-booking-service/pkg/sl"
)

type BookingCreator interface {
	CreateBooking(ctx context.Context, req *api.BookingRequest) (*api.BookingConfirmation, error)
}

type Request struct {
	api.BookingRequest
}

type Response struct {
	response.Response
	Confirmation *api.BookingConfirmation `json:"confirmation,omitempty"`
}

func New(log *slog.Logger, creator BookingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if req.ClientID == "" {
			log.Error("client_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "client_id is required"))
			return
		}

		if req.SpocID <= 0 {
			log.Error("spoc_id is missing")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "spoc_id is required"))
			return
		}

		if req.SlotID <= 0 {
			log.Error("slot_id is missing")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "slot_id is required"))
			return
		}

		confirmation, err := creator.CreateBooking(r.Context(), &req.BookingRequest)

		if errors.Is(err, response.ErrLocked) {
			log.Error("slot is locked by another request")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "resource is locked"))
			return
		}

		if errors.Is(err, response.ErrSlotNotAvailable) {
			log.Error("slot is not available")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.SLOT_NOT_AVAILABLE), "slot not available or does not exist"))
			return
		}

		if errors.Is(err, response.ErrSlotSpocMismatch) {
			log.Error("slot does not belong to requested spoc")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.SLOT_SPOC_MISMATCH), "selected slot does not belong to this spoc"))
			return
		}

		if errors.Is(err, response.ErrSpocNotFound) {
			log.Error("spoc not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.SPOC_NOT_FOUND), "spoc not found"))
			return
		}

		if errors.Is(err, response.ErrClientNotFound) {
			log.Error("client not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.CLIENT_NOT_FOUND), "client not found"))
			return
		}

		if err != nil {
			log.Error("Failed to create booking", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create booking"))
			return
		}

		log.Info("Booking created", slog.String("booking_id", confirmation.BookingID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Confirmation: confirmation})
	}
}
