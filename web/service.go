// SPDX-License-Identifier: GPL-3.0-or-later

// Package web exposes the diagnostic engine over HTTP. All endpoints are
// stateless; the only state is a small TTL cache of analyze reports.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/netutil"

	"github.com/Santipap250/configdoctor/logger"
)

// Service is the HTTP front end of the diagnostic engine.
type Service struct {
	*logger.Logger

	cfg   Config
	srv   *http.Server
	cache *reportCache

	mux  sync.Mutex
	addr net.Addr
}

// New creates a Service from the given config. Call Run to serve.
func New(cfg Config) *Service {
	s := &Service{
		Logger: logger.New().With(slog.String("component", "web")),
		cfg:    cfg,
		cache:  newReportCache(cfg.CacheTTL.Duration(), cfg.CacheSize),
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.srv = &http.Server{
		Handler:      s.logRequests(mux),
		ReadTimeout:  cfg.ReadTimeout.Duration(),
		WriteTimeout: cfg.WriteTimeout.Duration(),
	}

	return s
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen on '%s': %v", s.cfg.ListenAddr, err)
	}

	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}

	s.setAddr(ln.Addr())
	s.Infof("listening on %s (max conns %d, max body %d bytes)",
		ln.Addr(), s.cfg.MaxConns, s.cfg.MaxBodyBytes)

	done := make(chan error, 1)
	go func() { done <- s.srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		s.Infof("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := s.srv.Shutdown(shutCtx); err != nil {
			return fmt.Errorf("shutdown: %v", err)
		}
		<-done
		return nil
	case err := <-done:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Addr returns the bound listen address, or nil before Run has bound it.
// With a ":0" listen address this is the only way to learn the port.
func (s *Service) Addr() net.Addr {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.addr
}

func (s *Service) setAddr(addr net.Addr) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.addr = addr
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.Debugf("%s %s %d %s (%s)",
			r.Method, r.URL.Path, rec.status, r.RemoteAddr, time.Since(started))
	})
}
