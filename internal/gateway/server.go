package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// Server is the HTTP front of the gateway.
type Server struct {
	httpServer *http.Server
}

func NewServer(addr string, api *API, allowedOrigins []string) *Server {
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      c.Handler(mux),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0, // websocket connections write indefinitely
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.httpServer.Addr).Msg("gateway listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("gateway server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
