package server

import (
	"context"
	"net/http"
	"time"

	"github.com/oggyb/pagecache/internal/middleware"
	routes "github.com/oggyb/pagecache/internal/router"
)

// Server owns the underlying http.Server instance.
type Server struct {
	http *http.Server
}

// New creates a new HTTP server bound to addr, routing to deps through
// the request ID and request logging middleware.
func New(addr string, deps routes.AppDeps) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           Handler(deps),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler builds the routed, middleware-wrapped root handler.
func Handler(deps routes.AppDeps) http.Handler {
	mux := http.NewServeMux()
	routes.Register(mux, deps)

	return Chain(
		mux,
		middleware.RequestID(),
		middleware.RequestLogger(),
	)
}

// Start runs the HTTP server and blocks until ListenAndServe returns.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server, waiting for in-flight
// requests to complete until the given context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
