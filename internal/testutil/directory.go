// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package testutil holds fakes and fixtures shared by package tests.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/toeirei/userdesk/internal/devserver"
)

// Directory is a reference directory server running on a loopback port.
type Directory struct {
	*httptest.Server
	Dev *devserver.Server

	requests atomic.Int64
}

// NewDirectory starts a directory server that assigns sequential ids
// ("1", "2", ...) and stops it when the test ends.
func NewDirectory(t *testing.T) *Directory {
	t.Helper()
	d := &Directory{
		Dev: devserver.New(
			devserver.WithStore(devserver.NewSequentialStore()),
			devserver.WithLogger(log.New(io.Discard)),
		),
	}
	h := d.Dev.Handler()
	d.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d.requests.Add(1)
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(d.Server.Close)
	return d
}

// Requests returns how many requests reached the server.
func (d *Directory) Requests() int {
	return int(d.requests.Load())
}

// UnreachableURL returns the address of a server that has already been
// closed, so every request to it fails at the transport level.
func UnreachableURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}
