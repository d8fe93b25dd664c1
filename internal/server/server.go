// Package server assembles the HTTP handler: the Connect services, the
// workbook download route, health and metrics endpoints, and the shared
// middleware chain.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/tripsplit/internal/export"
	"github.com/mmynk/tripsplit/internal/middleware"
	"github.com/mmynk/tripsplit/internal/service"
	"github.com/mmynk/tripsplit/internal/storage"
	"github.com/mmynk/tripsplit/pkg/api/apiconnect"
)

// Options configures a Server.
type Options struct {
	// AllowedOrigins lists the CORS origins. Empty means any origin.
	AllowedOrigins []string
	// Registry receives the RPC and runtime collectors. A fresh registry is
	// created when nil.
	Registry *prometheus.Registry
}

// Server routes the Connect services and the plain HTTP endpoints over one
// store.
type Server struct {
	router      *mux.Router
	trips       *service.TripService
	settlements *service.SettlementService
	registry    *prometheus.Registry
	opts        Options
}

// New builds a Server over store and registers the RPC metrics with
// opts.Registry.
func New(store storage.Store, opts Options) *Server {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	s := &Server{
		router:      mux.NewRouter(),
		trips:       service.NewTripService(store),
		settlements: service.NewSettlementService(store),
		registry:    reg,
		opts:        opts,
	}
	s.setupRoutes(middleware.NewMetrics(reg))
	return s
}

func (s *Server) setupRoutes(metrics *middleware.Metrics) {
	interceptors := connect.WithInterceptors(
		middleware.RequestIDInterceptor(),
		metrics.Interceptor(),
		middleware.LoggingInterceptor(),
	)

	tripPath, tripHandler := apiconnect.NewTripServiceHandler(s.trips, interceptors)
	s.router.PathPrefix(tripPath).Handler(tripHandler)

	settlementPath, settlementHandler := apiconnect.NewSettlementServiceHandler(s.settlements, interceptors)
	s.router.PathPrefix(settlementPath).Handler(settlementHandler)

	s.router.HandleFunc("/trips/{trip_id}/report.xlsx", s.handleWorkbook).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

// Handler returns the root handler with CORS, request IDs, access logging
// and h2c applied.
func (s *Server) Handler() http.Handler {
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Content-Type",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
			middleware.RequestIDHeader,
		},
		ExposedHeaders: []string{
			"Connect-Protocol-Version",
			"Content-Disposition",
			middleware.RequestIDHeader,
		},
	})

	var h http.Handler = s.router
	h = c.Handler(h)
	h = middleware.RequestID(h)
	h = middleware.Logging(h)

	// HTTP/2 without TLS for Connect clients
	return h2c.NewHandler(h, &http2.Server{})
}

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	tripID := mux.Vars(r)["trip_id"]

	trip, data, err := s.settlements.Workbook(r.Context(), tripID)
	if err != nil {
		status := httpStatus(connect.CodeOf(err))
		if status >= http.StatusInternalServerError {
			slog.Error("Workbook download failed", "trip_id", tripID, "error", err)
		}
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", service.ReportFilename(trip.Name)))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	if _, err := w.Write(data); err != nil {
		slog.Warn("Workbook write failed", "trip_id", tripID, "error", err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func httpStatus(code connect.Code) int {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeOutOfRange:
		return http.StatusBadRequest
	case connect.CodeNotFound:
		return http.StatusNotFound
	case connect.CodeUnimplemented:
		return http.StatusNotImplemented
	case connect.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
