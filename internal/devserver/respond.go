// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package devserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/toeirei/userdesk/internal/model"
)

const (
	headerContentType   = "Content-Type"
	contentTypeJSONUTF8 = "application/json; charset=utf-8"
)

// httpError is an error with an HTTP status and a user-facing message.
type httpError struct {
	Code    int
	Message string
	// Fields, when set, is sent as {"errors": Fields} instead of {"error": Message}.
	Fields map[string]string
	cause  error
}

func (e *httpError) Error() string { return e.Message }
func (e *httpError) Unwrap() error { return e.cause }

func errBadRequest(message string, cause error) *httpError {
	return &httpError{Code: http.StatusBadRequest, Message: message, cause: cause}
}

func errNotFound(message string) *httpError {
	return &httpError{Code: http.StatusNotFound, Message: message}
}

func errValidation(fields map[string]string) *httpError {
	return &httpError{Code: http.StatusBadRequest, Message: "validation failed", Fields: fields}
}

// appHandler is a handler that reports failures by returning an error.
type appHandler func(w http.ResponseWriter, r *http.Request) error

// makeHandler adapts an appHandler and renders its error as JSON.
func (s *Server) makeHandler(h appHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		var he *httpError
		if !errors.As(err, &he) {
			s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
			respondJSON(s.logger, w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
			return
		}
		s.logger.Warn("client error", "code", he.Code, "msg", he.Message, "method", r.Method, "path", r.URL.Path)
		if he.Fields != nil {
			respondJSON(s.logger, w, he.Code, map[string]map[string]string{"errors": he.Fields})
			return
		}
		respondJSON(s.logger, w, he.Code, map[string]string{"error": he.Message})
	}
}

func respondJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal JSON response", "err", err)
		w.Header().Set(headerContentType, contentTypeJSONUTF8)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
		return
	}
	w.Header().Set(headerContentType, contentTypeJSONUTF8)
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// encodeUserMap renders users as a JSON object keyed by id, keeping slice order.
func encodeUserMap(users []model.User) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, u := range users {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(u.ID.String())
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(u)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
