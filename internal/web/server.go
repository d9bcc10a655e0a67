// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web is the interactive front-end: an upload form, a conversion
// endpoint returning a JSON preview, per-run artifact downloads, and a
// run-history listing. The batch CLI remains the canonical path for
// scripted conversions; this server wraps the same engine for browser use.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Server wraps http.Server with the timeouts and shutdown behavior used
// across our services.
type Server struct {
	srv  *http.Server
	addr string
}

// NewServer builds a server for the given handler. addr is the listen
// address, e.g. ":8080".
func NewServer(addr string, h *Handler) *Server {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start blocks serving requests until Stop is called or the listener
// fails.
func (s *Server) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving on %s: %w", s.addr, err)
	}
	return nil
}

// Stop drains in-flight requests and shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
