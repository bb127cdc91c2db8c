// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	handler "github.com/MKhiriev/go-task-keeper/internal/handler/http"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

type server struct {
	httpServer *httpServer
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handler, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	srv := new(server)

	if cfg.HTTPAddress != "" {
		srv.httpServer = newHTTPServer(handlers.Init(), cfg, logger)
	}

	if srv.httpServer == nil {
		return nil, errNoServersAreCreated
	}

	srv.logger = logger

	return srv, nil
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		s.logger.Err(err).Msg("error running server")
	}
}

func (s *server) Shutdown() {
	if s.httpServer != nil {
		s.httpServer.Shutdown()
	}
}

func (s *server) run() error {
	if s.httpServer == nil {
		return errNoServersAreCreated
	}

	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// listen for stop signals
	go func() {
		<-ctx.Done()

		s.Shutdown()

		close(idleConnectionsClosed)
	}()

	s.logger.Info().Str("address", s.httpServer.server.Addr).Msg("launching HTTP server")
	go s.httpServer.RunServer()

	<-idleConnectionsClosed
	s.logger.Info().Msg("server shut down gracefully")

	return nil
}
