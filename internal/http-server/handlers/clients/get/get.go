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

type ClientGetter interface {
	GetClient(ctx context.Context, clientID string) (*api.ClientResponse, error)
	ListClients(ctx context.Context, skip, limit int) ([]*api.ClientResponse, error)
}

type Response struct {
	response.Response
	Clients []api.ClientResponse `json:"clients,omitempty"`
	Client  *api.ClientResponse  `json:"client,omitempty"`
}

func New(log *slog.Logger, getter ClientGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.clients.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if id := chi.URLParam(r, "id"); id != "" {
			client, err := getter.GetClient(r.Context(), id)

			if errors.Is(err, response.ErrClientNotFound) {
				log.Error("client not found", slog.String("client_id", id))
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.CLIENT_NOT_FOUND), "client not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get client", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get client"))
				return
			}

			log.Info("Client retrieved", slog.String("client_id", id))
			render.JSON(w, r, Response{Client: client})
			return
		}

		skip := queryInt(r, "skip", 0)
		limit := queryInt(r, "limit", defaultLimit)

		clients, err := getter.ListClients(r.Context(), skip, limit)
		if err != nil {
			log.Error("Failed to list clients", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list clients"))
			return
		}

		log.Info("Clients retrieved", slog.Int("count", len(clients)))

		clientsResponse := make([]api.ClientResponse, len(clients))
		for i, c := range clients {
			clientsResponse[i] = *c
		}
		render.JSON(w, r, Response{Clients: clientsResponse})
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
