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

type SpocGetter interface {
	GetSpoc(ctx context.Context, spocID int) (*api.SpocResponse, error)
	ListSpocs(ctx context.Context, solutionType, expertise *string) ([]*api.SpocResponse, error)
}

type Response struct {
	response.Response
	Spocs []api.SpocResponse `json:"spocs,omitempty"`
	Spoc  *api.SpocResponse  `json:"spoc,omitempty"`
}

func New(log *slog.Logger, getter SpocGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.spocs.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if idStr := chi.URLParam(r, "id"); idStr != "" {
			id, err := strconv.Atoi(idStr)
			if err != nil {
				log.Error("Invalid spoc id", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid spoc id"))
				return
			}

			spoc, err := getter.GetSpoc(r.Context(), id)

			if errors.Is(err, response.ErrSpocNotFound) {
				log.Error("spoc not found", slog.Int("spoc_id", id))
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.SPOC_NOT_FOUND), "spoc not found"))
				return
			}

			if err != nil {
				log.Error("Failed to get spoc", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get spoc"))
				return
			}

			log.Info("Spoc retrieved", slog.Int("spoc_id", id))
			render.JSON(w, r, Response{Spoc: spoc})
			return
		}

		var solutionType, expertise *string
		if v := r.URL.Query().Get("solution_type"); v != "" {
			solutionType = &v
		}
		if v := r.URL.Query().Get("expertise"); v != "" {
			expertise = &v
		}

		spocs, err := getter.ListSpocs(r.Context(), solutionType, expertise)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("no spocs matched filters")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "no spocs found matching criteria"))
			return
		}

		if err != nil {
			log.Error("Failed to list spocs", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list spocs"))
			return
		}

		log.Info("Spocs retrieved", slog.Int("count", len(spocs)))

		spocsResponse := make([]api.SpocResponse, len(spocs))
		for i, s := range spocs {
			spocsResponse[i] = *s
		}
		render.JSON(w, r, Response{Spocs: spocsResponse})
	}
}
