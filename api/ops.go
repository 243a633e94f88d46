package api

import (
	"context"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"

	"chatbi/internal"
	"chatbi/internal/config"
)

// OpsServer serves the operational endpoints (health, readiness, pprof) on
// a separate port so they stay off the public API surface.
type OpsServer struct {
	router *chi.Mux
	cfg    config.OpsConfig
	store  *sqlx.DB
	log    *internal.Logger
}

// NewOpsServer creates the ops server. store may be nil in tests; readiness
// then reports ready unconditionally.
func NewOpsServer(cfg config.OpsConfig, store *sqlx.DB, logger *internal.Logger) *OpsServer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &OpsServer{
		router: chi.NewRouter(),
		cfg:    cfg,
		store:  store,
		log:    logger.WithComponent("Ops"),
	}

	s.router.Use(middleware.Recoverer)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleReady)

	if cfg.PprofEnabled {
		s.router.HandleFunc("/debug/pprof/", pprof.Index)
		s.router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		s.router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		s.router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		s.router.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	return s
}

// Handler exposes the router for tests
func (s *OpsServer) Handler() http.Handler {
	return s.router
}

// Run starts the ops server and shuts it down when ctx is cancelled
func (s *OpsServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Port,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("ops endpoints on :%s", s.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *OpsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *OpsServer) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.PingContext(ctx); err != nil {
			s.log.Warn("readiness check failed: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("store unreachable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
