package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"spoc-booking-service/api"
	"spoc-booking-service/pkg/response"
	"spoc-booking-service/pkg/sl"
)

type ClientCreator interface {
	CreateClient(ctx context.Context, req *api.ClientCreateRequest) (*api.ClientResponse, error)
}

type Request struct {
	api.ClientCreateRequest
}

type Response struct {
	response.Response
	Client *api.ClientResponse `json:"client,omitempty"`
}

func New(log *slog.Logger, creator ClientCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.clients.create.New"

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

		if req.CompanyName == "" {
			log.Error("company_name is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "company_name is required"))
			return
		}

		client, err := creator.CreateClient(r.Context(), &req.ClientCreateRequest)
		if err != nil {
			log.Error("Failed to create client", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create client"))
			return
		}

		log.Info("Client created", slog.String("client_id", client.ClientID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Client: client})
	}
}
