// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

var ErrDuplicateRoute = errors.New("duplicate route")

type HTTPConfig struct {
	ReadTimeout       time.Duration `json:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
}

func NewDefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// Server maintains the HTTP router of the node.
type Server struct {
	log             logging.Logger
	shutdownTimeout time.Duration

	routeLock sync.Mutex
	router    *mux.Router
	routes    map[string]struct{}

	srv      *http.Server
	listener net.Listener
}

// New returns a server listening on [listener]. Requests from origins not in
// [allowedOrigins] are refused by the browser, and requests whose Host is not
// in [allowedHosts] are rejected. A "*" entry allows everything.
func New(
	log logging.Logger,
	listener net.Listener,
	httpConfig HTTPConfig,
	allowedOrigins []string,
	allowedHosts []string,
	shutdownTimeout time.Duration,
) *Server {
	router := mux.NewRouter()
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
	}).Handler(filterInvalidHosts(router, allowedHosts))
	gzipHandler := gziphandler.GzipHandler(corsHandler)

	log.Info("API created",
		zap.Strings("allowedOrigins", allowedOrigins),
		zap.Strings("allowedHosts", allowedHosts),
	)
	return &Server{
		log:             log,
		shutdownTimeout: shutdownTimeout,
		router:          router,
		routes:          map[string]struct{}{},
		srv: &http.Server{
			Handler:           gzipHandler,
			ReadTimeout:       httpConfig.ReadTimeout,
			ReadHeaderTimeout: httpConfig.ReadHeaderTimeout,
			WriteTimeout:      httpConfig.WriteTimeout,
			IdleTimeout:       httpConfig.IdleTimeout,
		},
		listener: listener,
	}
}

// AddRoute serves [handler] at [endpoint].
func (s *Server) AddRoute(handler http.Handler, endpoint string) error {
	s.routeLock.Lock()
	defer s.routeLock.Unlock()

	if _, ok := s.routes[endpoint]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, endpoint)
	}
	s.log.Info("adding route", zap.String("endpoint", endpoint))
	s.routes[endpoint] = struct{}{}
	s.router.Handle(endpoint, handler)
	return nil
}

// Handler is the fully wrapped handler of the server.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Dispatch serves requests until [Shutdown] is called.
func (s *Server) Dispatch() error {
	return s.srv.Serve(s.listener)
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	err := s.srv.Shutdown(ctx)
	cancel()

	// If shutdown times out, make sure the server is still shutdown.
	_ = s.srv.Close()
	return err
}

func filterInvalidHosts(handler http.Handler, allowed []string) http.Handler {
	hosts := make(map[string]struct{}, len(allowed))
	for _, host := range allowed {
		if host == "*" {
			return handler
		}
		hosts[strings.ToLower(host)] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if h, _, err := net.SplitHostPort(r.Host); err == nil {
			host = h
		}
		// Direct IP access is always allowed.
		if net.ParseIP(host) != nil {
			handler.ServeHTTP(w, r)
			return
		}
		if _, ok := hosts[strings.ToLower(host)]; !ok {
			http.Error(w, "invalid host specified", http.StatusForbidden)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
