package health

import (
	"net/http"

	"github.com/go-chi/render"
)

type HealthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}

type InfoResponse struct {
	Message string `json:"message"`
	Health  string `json:"health"`
	Metrics string `json:"metrics"`
}

func New(mode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, HealthResponse{
			Status: "healthy",
			Mode:   mode,
		})
	}
}

func Info() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, InfoResponse{
			Message: "SPOC Booking Platform API",
			Health:  "/health",
			Metrics: "/metrics",
		})
	}
}
