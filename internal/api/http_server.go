package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"barberm/internal/config"
	"barberm/internal/export"
	"barberm/internal/logging"
	"barberm/internal/scheduling"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the booking engine over HTTP. Public routes need no
// credentials; everything under /api/v1/admin/ requires an API key with
// the manage:appointments permission. The split mirrors the two engine
// surfaces: handlers for public routes only ever touch the public one.
type HTTPServer struct {
	cfg      config.APIConfig
	public   scheduling.PublicScheduler
	admin    scheduling.AdminScheduler
	exporter *export.Exporter
	cleanup  config.CleanupConfig
	server   *http.Server
	auth     *HTTPAuth
	logger   zerolog.Logger
}

func NewHTTPServer(
	cfg config.APIConfig,
	public scheduling.PublicScheduler,
	admin scheduling.AdminScheduler,
	exporter *export.Exporter,
	cleanup config.CleanupConfig,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		public:   public,
		admin:    admin,
		exporter: exporter,
		cleanup:  cleanup,
		logger:   logging.Component(logger, "api"),
	}
	srv.auth = NewHTTPAuth(cfg)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/services", srv.handleServices)
	mux.HandleFunc("GET /api/v1/open-days", srv.handleOpenDays)
	mux.HandleFunc("GET /api/v1/slots", srv.handleSlots)
	mux.HandleFunc("POST /api/v1/appointments", srv.handleCreateAppointment)
	mux.HandleFunc("GET /api/v1/appointments/lookup", srv.handleClientLookup)

	mux.HandleFunc("GET /api/v1/admin/appointments", srv.handleListAppointments)
	mux.HandleFunc("GET /api/v1/admin/appointments/{id}", srv.handleGetAppointment)
	mux.HandleFunc("POST /api/v1/admin/appointments/{id}/confirm", srv.handleConfirm)
	mux.HandleFunc("POST /api/v1/admin/appointments/{id}/reject", srv.handleReject)
	mux.HandleFunc("POST /api/v1/admin/appointments/{id}/complete", srv.handleComplete)
	mux.HandleFunc("POST /api/v1/admin/appointments/{id}/cancel", srv.handleCancel)
	mux.HandleFunc("PATCH /api/v1/admin/appointments/{id}", srv.handlePatch)
	mux.HandleFunc("DELETE /api/v1/admin/appointments/{id}", srv.handleDelete)
	mux.HandleFunc("GET /api/v1/admin/stats", srv.handleStats)
	mux.HandleFunc("POST /api/v1/admin/export", srv.handleExport)
	mux.HandleFunc("POST /api/v1/admin/cleanup", srv.handleCleanup)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	return srv
}

// Handler returns the configured root handler, used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func intQuery(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
