/*
 * Copyright 2026 The Tactix Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package rpc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tactix-team/tactix/server/backend"
	"github.com/tactix-team/tactix/server/logging"
)

// Server is the WebSocket server clients connect to.
type Server struct {
	conf       *Config
	handler    *Handler
	httpServer *http.Server
	logger     logging.Logger
}

// NewServer creates a new instance of Server.
func NewServer(conf *Config, be *backend.Backend) (*Server, error) {
	handler := NewHandler(be)

	router := mux.NewRouter()
	router.HandleFunc("/ws", handler.ServeWS)
	router.HandleFunc("/healthz", handleHealth).Methods("GET")

	return &Server{
		conf:    conf,
		handler: handler,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", conf.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		logger: logging.New("rpc"),
	}, nil
}

// Start starts this server: it hydrates the handler's library from the
// persistence gateway and opens the listen port.
func (s *Server) Start() error {
	if err := s.handler.Load(context.Background()); err != nil {
		// Storage unavailable is not fatal: the board still works, the
		// library starts empty.
		s.logger.Warnf("load stored library: %s", err)
	}

	go func() {
		s.logger.Infof("serving rpc on %d", s.conf.Port)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Errorf("HTTP server ListenAndServe: %v", err)
		}
	}()
	return nil
}

// Shutdown shuts down this server.
func (s *Server) Shutdown(graceful bool) {
	if graceful {
		if err := s.httpServer.Shutdown(context.Background()); err != nil {
			s.logger.Errorf("HTTP server Shutdown: %v", err)
		}
		return
	}

	if err := s.httpServer.Close(); err != nil {
		s.logger.Errorf("HTTP server close: %v", err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
