// Package httpserver exposes the authentication service over REST. It maps
// engine results to status codes and JSON bodies; all token semantics live
// in the services and repositories layers.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wayfarer-app/wayfarer/internal/logging"
	"github.com/wayfarer-app/wayfarer/internal/server/auth"
	"github.com/wayfarer-app/wayfarer/internal/server/services"
)

// Server hosts the /auth endpoints.
type Server struct {
	address string
	auth    *services.AuthService
	codec   *auth.Codec
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, as *services.AuthService, codec *auth.Codec) *Server {
	return &Server{
		address: address,
		auth:    as,
		codec:   codec,
		logger:  l.With("module", "http_server"),
	}
}

// Router builds the Gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", s.handleRegister)
		authGroup.POST("/login", s.handleLogin)
		authGroup.POST("/refresh", s.handleRefresh)
		authGroup.POST("/logout", s.handleLogout)
		authGroup.POST("/logout-all", s.requireAccessToken(), s.handleLogoutAll)
	}

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "addr", s.address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
