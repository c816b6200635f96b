package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"

	"spoc-booking-service/internal/config"
	bookingCancel "spoc-booking-service/internal/http-server/handlers/bookings/cancel"
	bookingCreate "spoc-booking-service/internal/http-server/handlers/bookings/create"
	bookingGet "spoc-booking-service/internal/http-server/handlers/bookings/get"
	clientCreate "spoc-booking-service/internal/http-server/handlers/clients/create"
	clientGet "spoc-booking-service/internal/http-server/handlers/clients/get"
	"spoc-booking-service/internal/http-server/handlers/health"
	spocAvailability "spoc-booking-service/internal/http-server/handlers/spocs/availability"
	spocGet "spoc-booking-service/internal/http-server/handlers/spocs/get"
	"spoc-booking-service/internal/lock"
	"spoc-booking-service/internal/models"
	svc "spoc-booking-service/internal/service"
	"spoc-booking-service/internal/storage/memory"
	"spoc-booking-service/internal/storage/postgres"
	slogpretty "spoc-booking-service/pkg/handlers/slogPretty"
	"spoc-booking-service/pkg/metrics"
	"spoc-booking-service/pkg/middleware/mwLogger"
	"spoc-booking-service/pkg/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type storage interface {
	svc.Store
	Close() error
}

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	var store storage
	storageMode := "in-memory"

	if cfg.StoragePath != "" {
		pg, err := postgres.New(cfg.StoragePath)
		if err != nil {
			log.Error("Failed to init storage", sl.Err(err))
			os.Exit(1)
		}
		if err := pg.Migrate(context.Background()); err != nil {
			log.Error("Failed to run migrations", sl.Err(err))
			os.Exit(1)
		}
		store = pg
		storageMode = "postgres"
	} else {
		store = memory.New()
	}

	log.Info("Storage ready", slog.String("mode", storageMode))

	var locker lock.Locker
	if cfg.RedisAddr != "" {
		redisLocker, err := lock.NewRedisLock(cfg.RedisAddr)
		if err != nil {
			log.Error("Failed to init redis lock", sl.Err(err))
			os.Exit(1)
		}
		locker = redisLocker
	} else {
		locker = lock.NewMemoryLock()
	}

	service := svc.NewService(store, locker)

	spocs := make([]*models.Spoc, 0, len(cfg.Spocs))
	for _, s := range cfg.Spocs {
		spocs = append(spocs, &models.Spoc{
			SpocID:         s.SpocID,
			Name:           s.Name,
			Expertise:      s.Expertise,
			Specialization: s.Specialization,
			Email:          s.Email,
			Phone:          s.Phone,
		})
	}

	if err := service.SeedSpocs(context.Background(), spocs); err != nil {
		log.Error("Failed to seed spocs", sl.Err(err))
		os.Exit(1)
	}

	windows := make([]svc.SlotWindow, 0, len(cfg.Schedule.Windows))
	for _, w := range cfg.Schedule.Windows {
		windows = append(windows, svc.SlotWindow{StartHour: w.StartHour, EndHour: w.EndHour})
	}

	created, err := service.GenerateSlots(context.Background(), cfg.Schedule.HorizonDays, windows)
	if err != nil {
		log.Error("Failed to generate slots", sl.Err(err))
		os.Exit(1)
	}

	log.Info("Slot calendar ready",
		slog.Int("spocs", len(spocs)),
		slog.Int("slots", created),
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	router.Get("/", health.Info())
	router.Get("/health", health.New(storageMode))
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Spocs
	router.Get("/spocs", spocGet.New(log, service))
	router.Get("/spocs/{id}", spocGet.New(log, service))
	router.Get("/spocs/{id}/availability", spocAvailability.New(log, service))

	// Clients
	router.Post("/clients", clientCreate.New(log, service))
	router.Get("/clients", clientGet.New(log, service))
	router.Get("/clients/{id}", clientGet.New(log, service))

	// Bookings
	router.Post("/bookings", bookingCreate.New(log, service))
	router.Get("/bookings", bookingGet.New(log, service))
	router.Get("/bookings/{id}", bookingGet.New(log, service))
	router.Post("/bookings/{id}/cancel", bookingCancel.New(log, service))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	if err := store.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	} else {
		log.Info("Storage closed")
	}

	if err := locker.Close(); err != nil {
		log.Error("Failed to close locker", sl.Err(err))
	} else {
		log.Info("Locker closed")
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
