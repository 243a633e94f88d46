// Package api exposes the REST surface consumed by the web frontend:
// the statistical analysis endpoints, data-source management, the chat
// query flow and report export.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chatbi/domain/core"
	"chatbi/internal"
	"chatbi/internal/config"
	"chatbi/ports"
)

// Server is the REST API server
type Server struct {
	router    *gin.Engine
	cfg       config.ServerConfig
	sources   ports.DataSourceRepository
	tables    ports.DataTableRepository
	relations ports.RelationRepository
	executor  ports.QueryExecutor
	generator ports.SQLGenerator
	pools     ports.PoolInvalidator
	log       *internal.Logger
}

// Deps bundles the collaborators the server needs
type Deps struct {
	Sources   ports.DataSourceRepository
	Tables    ports.DataTableRepository
	Relations ports.RelationRepository
	Executor  ports.QueryExecutor
	Generator ports.SQLGenerator
	Pools     ports.PoolInvalidator
	Logger    *internal.Logger
}

// NewServer creates the API server and registers all routes
func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	gin.SetMode(cfg.GinMode)

	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}

	s := &Server{
		router:    gin.New(),
		cfg:       cfg,
		sources:   deps.Sources,
		tables:    deps.Tables,
		relations: deps.Relations,
		executor:  deps.Executor,
		generator: deps.Generator,
		pools:     deps.Pools,
		log:       logger.WithComponent("API"),
	}

	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
	if cfg.RequestTimeout > 0 {
		s.router.Use(requestTimeout(cfg.RequestTimeout))
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Statistical analysis over caller-supplied query results
	s.router.POST("/analyze/time-series", s.handleAnalyzeTimeSeries)
	s.router.POST("/analyze/multi-dimensional", s.handleAnalyzeMultiDimensional)
	s.router.POST("/detect-anomalies", s.handleDetectAnomalies)
	s.router.POST("/compare/detailed", s.handleCompareDetailed)

	// Data source and table management
	api := s.router.Group("/api")
	{
		api.POST("/datasources", s.handleCreateDataSource)
		api.GET("/datasources", s.handleListDataSources)
		api.GET("/datasources/:id", s.handleGetDataSource)
		api.PUT("/datasources/:id", s.handleUpdateDataSource)
		api.DELETE("/datasources/:id", s.handleDeleteDataSource)
		api.POST("/datasources/:id/test", s.handleTestDataSource)
		api.GET("/datasources/:id/schema", s.handleIntrospectDataSource)
		api.POST("/datasources/:id/query", s.handleRunQuery)

		api.POST("/datasources/:id/tables", s.handleCreateDataTable)
		api.GET("/datasources/:id/tables", s.handleListDataTables)
		api.PUT("/tables/:id", s.handleUpdateDataTable)
		api.DELETE("/tables/:id", s.handleDeleteDataTable)

		api.POST("/relations", s.handleCreateRelation)
		api.GET("/tables/:id/relations", s.handleListRelations)
		api.DELETE("/relations/:id", s.handleDeleteRelation)
	}

	// Conversational flow and report export
	s.router.POST("/chat/query", s.handleChatQuery)
	s.router.POST("/report/export", s.handleReportExport)
}

// Handler exposes the router for tests and for the HTTP server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server and shuts it down when ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.cfg.Port,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on :%s", s.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) invalidatePool(id core.ID) {
	if s.pools != nil {
		s.pools.Invalidate(id)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// requestTimeout imposes the request-level deadline that wraps the whole
// request: database fetch, model call and analysis alike.
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
