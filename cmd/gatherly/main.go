package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gatherly/internal/config"
	"gatherly/internal/http-server/handlers/attendance/manualCheckin"
	"gatherly/internal/http-server/handlers/attendance/scanTicket"
	"gatherly/internal/http-server/handlers/event/createEvent"
	"gatherly/internal/http-server/handlers/event/getEventInfo"
	"gatherly/internal/http-server/handlers/event/listEvents"
	"gatherly/internal/http-server/handlers/event/register"
	"gatherly/internal/http-server/handlers/registration/cancelRegistration"
	"gatherly/internal/http-server/handlers/team/cancelTeam"
	"gatherly/internal/http-server/handlers/team/createTeam"
	"gatherly/internal/http-server/handlers/team/joinTeam"
	"gatherly/internal/http-server/handlers/team/leaveTeam"
	"gatherly/internal/http-server/middleware/auth"
	"gatherly/internal/http-server/middleware/mwlogger"
	"gatherly/internal/lib/logger/handlers/slogpretty"
	"gatherly/internal/lib/logger/sl"
	"gatherly/internal/notify"
	"gatherly/internal/storage"
	"gatherly/internal/storage/memory"
	"gatherly/internal/storage/postgres"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("starting gatherly", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	store, closeStore, err := setupStorage(cfg)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	notifier := notify.NewLogNotifier(log)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Group(func(r chi.Router) {
		r.Use(auth.New(log, cfg.Auth.Secret))

		r.Route("/events", func(r chi.Router) {
			r.With(auth.RequireRole(auth.RoleOrganizer)).
				Post("/", createEvent.New(log, store))
			r.Get("/", listEvents.New(log, store))
			r.Get("/{id}", getEventInfo.New(log, store))
			r.Post("/{id}/register", register.New(log, store, notifier))
			r.Post("/{id}/teams", createTeam.New(log, store))

			r.Route("/{id}/attendance", func(r chi.Router) {
				r.Use(auth.RequireRole(auth.RoleStaff, auth.RoleOrganizer))
				r.Post("/scan", scanTicket.New(log, store))
				r.Post("/manual", manualCheckin.New(log, store))
			})
		})

		r.Post("/teams/join", joinTeam.New(log, store, notifier))
		r.Post("/teams/{id}/leave", leaveTeam.New(log, store))
		r.Delete("/teams/{id}", cancelTeam.New(log, store))

		r.Post("/registrations/{id}/cancel", cancelRegistration.New(log, store))
	})

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	go func() {
		if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	log.Info("application stopped")

	if err = closeStore(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
	}

	log.Info("storage closed")
}

func setupStorage(cfg *config.Config) (storage.Storage, func() error, error) {
	if cfg.Storage.Driver == "memory" {
		return memory.New(), func() error { return nil }, nil
	}

	pg, err := postgres.InitDB(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	return pg, pg.Close, nil
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
