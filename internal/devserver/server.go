// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package devserver is a reference implementation of the user-directory
// service contract: an in-memory store behind GET /users, POST /users and
// GET /users/{id}. It backs `userdesk serve` and the integration tests.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/toeirei/userdesk/internal/model"
)

const (
	usersBasePath = "/users"
	paramID       = "id"

	shutdownTimeout = 5 * time.Second
)

// Server serves the directory contract over HTTP.
type Server struct {
	store  *MemoryStore
	logger *log.Logger
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithStore replaces the default UUID-assigning store.
func WithStore(store *MemoryStore) Option {
	return func(s *Server) { s.store = store }
}

// New builds a server around a fresh store.
func New(opts ...Option) *Server {
	s := &Server{store: NewMemoryStore(), logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the backing store, mainly for tests.
func (s *Server) Store() *MemoryStore {
	return s.store
}

// Handler returns the chi router with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(allowAllOrigins)

	r.Route(usersBasePath, func(r chi.Router) {
		r.Get("/", s.makeHandler(s.handleListUsers))
		r.Post("/", s.makeHandler(s.handleCreateUser))
		r.Get("/{"+paramID+"}", s.makeHandler(s.handleGetUser))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(s.logger, w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled. ready, if non-nil,
// receives the bound address once the listener is open.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleListUsers(w http.ResponseWriter, _ *http.Request) error {
	body, err := encodeUserMap(s.store.All())
	if err != nil {
		return err
	}
	w.Header().Set(headerContentType, contentTypeJSONUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	return nil
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	var draft model.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		return errBadRequest("Invalid request payload", err)
	}

	if fields := validateDraft(draft); len(fields) > 0 {
		return errValidation(fields)
	}

	user := s.store.Create(draft)
	s.logger.Info("user created", "id", user.ID, "email", user.Email)
	respondJSON(s.logger, w, http.StatusCreated, user)
	return nil
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) error {
	id := strings.TrimSpace(chi.URLParam(r, paramID))
	if id == "" {
		return errBadRequest("User ID is required", nil)
	}
	user, ok := s.store.Get(model.ID(id))
	if !ok {
		return errNotFound("User not found")
	}
	respondJSON(s.logger, w, http.StatusOK, user)
	return nil
}

// validateDraft returns field→message for every violated constraint.
func validateDraft(d model.Draft) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(d.Name) == "" {
		fields["name"] = "Name is required"
	}
	email := strings.TrimSpace(d.Email)
	switch {
	case email == "":
		fields["email"] = "Email is required"
	case !validEmail(email):
		fields["email"] = "Email should be valid"
	}
	return fields
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start),
		)
	})
}

func allowAllOrigins(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
