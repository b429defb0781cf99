package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handlers "github.com/de-tools/report-atlas/pkg/handlers/report"
	"github.com/de-tools/report-atlas/pkg/models/api"
	reportatlasmiddleware "github.com/de-tools/report-atlas/pkg/server/middleware"
	"github.com/de-tools/report-atlas/pkg/services/chunking"
	"github.com/de-tools/report-atlas/pkg/services/report"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          http.Handler
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Report   report.Service
	Chunking chunking.Options
	TopN     int
	Logger   zerolog.Logger
}

type Config struct {
	AppName         string
	Env             string
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	logger := config.Dependencies.Logger

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

func ConfigureRouter(config Config) http.Handler {
	deps := config.Dependencies
	reportHandler := handlers.NewHandler(deps.Report, deps.Chunking, deps.TopN)

	router := chi.NewRouter()

	router.Use(reportatlasmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(api.HealthResponse{Status: "ok", App: config.AppName, Env: config.Env})
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode health")
		}
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/uploads/{upload}", func(r chi.Router) {
			r.Put("/pages", reportHandler.PutPages)
			r.Get("/chunks", reportHandler.GetChunks)
			r.Post("/metrics", reportHandler.BuildMetrics)
			r.Get("/metrics", reportHandler.GetMetrics)
			r.Post("/ask", reportHandler.Ask)
		})
		r.Post("/variance/{base}/{compare}", reportHandler.Variance)
		r.Get("/variance/{base}/{compare}", reportHandler.GetVariance)
		r.Get("/variance/{base}/{compare}/narrative", reportHandler.Narrative)
		r.Get("/variance/{base}/{compare}/history", reportHandler.History)
	})

	return router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Dur("timeout", w.shutdownTimeout).Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
