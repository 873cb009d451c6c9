package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swipebite/backend/config"
	"github.com/swipebite/backend/internal/api"
	"github.com/swipebite/backend/internal/logger"
	"github.com/swipebite/backend/internal/middleware"
)

// Server wraps the gin engine and the underlying http.Server so the
// binary can run it and shut it down cleanly.
type Server struct {
	router *gin.Engine
	http   *http.Server
	log    *logger.Logger
}

// New assembles the engine: recovery, CORS and error logging first,
// then every route from the api package.
func New(cfg *config.Config, deps api.Deps) *Server {
	if config.GetEnvironment() == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler(deps.Log))

	api.RegisterRoutes(router, deps)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.ServerHost + ":" + cfg.ServerPort,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: deps.Log,
	}
}

// Start blocks serving HTTP until Shutdown is called or the listener
// fails.
func (s *Server) Start() error {
	s.log.Infow("http server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the routed engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
