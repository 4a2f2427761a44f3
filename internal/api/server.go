// Package api exposes the HTTP interface for the port monitoring service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/clock"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/config"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/ditkapel"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/fetch"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/inaportnet"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/ports"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/ranking"
	"github.com/majeri03/web-fetchapiINAPORTNETandDITKAPEL/internal/telemetry"
)

// ActivityService is the slice of the Inaportnet client the handlers need.
type ActivityService interface {
	FetchRange(ctx context.Context, w inaportnet.FetchWindow) (inaportnet.RangeResult, error)
	FetchDetail(ctx context.Context, nomorPKK string) (inaportnet.DetailRecord, error)
	CountMonth(ctx context.Context, port string, category inaportnet.Category, year, month int) (int, error)
}

// VesselService is the slice of the Ditkapel client the handlers need.
type VesselService interface {
	LookupVessel(ctx context.Context, name string) (ditkapel.LookupResult, error)
	BatchLookup(ctx context.Context, names []string, checkpoint int) (ditkapel.LookupResult, error)
}

// Server wires HTTP handlers to the upstream clients and the port directory.
type Server struct {
	router    chi.Router
	activity  ActivityService
	vessels   VesselService
	directory ports.Directory
	ranker    *ranking.Ranker
	logger    *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(
	activity ActivityService,
	vessels VesselService,
	directory ports.Directory,
	clk clock.Clock,
	cfg config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		activity:  activity,
		vessels:   vessels,
		directory: directory,
		ranker:    ranking.New(domesticCounter{activity}, clk, logger),
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(telemetry.Middleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", telemetry.Handler())

	r.Route("/api", func(r chi.Router) {
		if cfg.Auth.Enabled {
			r.Use(apiKeyMiddleware(cfg.Auth.APIKey))
		}
		r.Get("/list", s.getList)
		r.Get("/detail", s.getDetail)
		r.Get("/kapal", s.getVessel)
		r.Post("/kapal/batch", s.batchVessels)
		r.Get("/pelabuhan", s.getPorts)
		r.Get("/ranks/global", s.getGlobalRanks)
	})

	s.router = r
	return s
}

// Handler returns the routing stack wrapped in CORS for use with http.Server.
func (s *Server) Handler() http.Handler {
	return cors.AllowAll().Handler(s.router)
}

// domesticCounter adapts the activity client to the ranking counter: the
// global ranking scores domestic traffic only.
type domesticCounter struct {
	activity ActivityService
}

func (d domesticCounter) CountPort(ctx context.Context, code string, year, month int) (int, error) {
	return d.activity.CountMonth(ctx, code, inaportnet.CategoryDomestic, year, month)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(s.logger, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	if len(s.directory) == 0 {
		writeError(s.logger, w, http.StatusServiceUnavailable, "port directory not loaded")
		return
	}
	writeJSON(s.logger, w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("write JSON failed", zap.Error(err))
	}
}

func writeError(logger *zap.Logger, w http.ResponseWriter, status int, msg string) {
	writeJSON(logger, w, status, map[string]string{"error": msg})
}

// statusFromErr maps domain errors onto HTTP statuses: caller mistakes are
// 400, upstream trouble is 502, anything else is 500.
func statusFromErr(err error) int {
	var vErr *inaportnet.ValidationError
	var upErr *fetch.UpstreamError
	var netErr *fetch.NetworkError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.As(err, &upErr), errors.As(err, &netErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
