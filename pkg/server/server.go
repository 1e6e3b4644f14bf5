// Copyright 2024 Nokia
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/iptecharch/leafref-server/pkg/config"
	"github.com/iptecharch/leafref-server/pkg/validator"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	config *config.Config

	validator *validator.Validator

	router *mux.Router
	reg    *prometheus.Registry
}

// New returns a server for v. reg is exposed on /metrics and should be the
// registry the validator metrics are registered on.
func New(c *config.Config, v *validator.Validator, reg *prometheus.Registry) *Server {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s := &Server{
		config:    c,
		validator: v,
		router:    mux.NewRouter(),
		reg:       reg,
	}
	s.reg.MustRegister(collectors.NewGoCollector())
	s.reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/validate", s.handleValidate).Methods(http.MethodPost)
	s.router.HandleFunc("/validate/batch", s.handleValidateBatch).Methods(http.MethodPost)
	s.router.HandleFunc("/leafrefs", s.handleLeafRefs).Methods(http.MethodGet)
	s.router.HandleFunc("/reload", s.handleReload).Methods(http.MethodPost)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on the configured address until ctx is done, then shuts
// down gracefully. A separate metrics listener is started if the prometheus
// address is configured.
func (s *Server) Serve(ctx context.Context) error {
	l, err := net.Listen("tcp", s.config.HTTPServer.Address)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}
	if s.config.HTTPServer.TLS != nil {
		tlsCfg, err := s.config.HTTPServer.TLS.NewConfig(ctx)
		if err != nil {
			l.Close()
			return err
		}
		srv.TLSConfig = tlsCfg
	}

	if s.config.Prometheus != nil && s.config.Prometheus.Address != "" {
		go s.ServeMetrics(ctx)
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Errorf("HTTP server shutdown: %v", err)
		}
	}()

	log.Infof("starting server on %s", l.Addr())
	if srv.TLSConfig != nil {
		// certificates come from TLSConfig.GetCertificate
		err = srv.ServeTLS(l, "", "")
	} else {
		err = srv.Serve(l)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ServeMetrics serves /metrics on the prometheus address until ctx is done.
func (s *Server) ServeMetrics(ctx context.Context) {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:         s.config.Prometheus.Address,
		Handler:      router,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("metrics server stopped: %v", err)
	}
}
