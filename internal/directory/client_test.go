// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package directory_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toeirei/userdesk/internal/directory"
	"github.com/toeirei/userdesk/internal/model"
	"github.com/toeirei/userdesk/internal/testutil"
)

func newClient(url string) *directory.Client {
	return directory.NewClient(directory.Config{BaseURL: url, Timeout: 5 * time.Second})
}

func TestNewClient(t *testing.T) {
	t.Run("trims trailing slash", func(t *testing.T) {
		client := directory.NewClient(directory.Config{BaseURL: "http://localhost:8080/"})
		assert.Equal(t, "http://localhost:8080", client.BaseURL())
	})

	t.Run("uses custom HTTP client", func(t *testing.T) {
		var hit atomic.Bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hit.Store(true)
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := directory.NewClient(directory.Config{
			BaseURL:    server.URL,
			HTTPClient: &http.Client{Timeout: time.Second},
		})
		_, err := client.ListAll(context.Background())
		require.NoError(t, err)
		assert.True(t, hit.Load())
	})
}

func TestClient_CreateThenList(t *testing.T) {
	dir := testutil.NewDirectory(t)
	client := newClient(dir.URL)
	ctx := context.Background()

	created, err := client.Create(ctx, model.Draft{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, model.User{ID: "1", Name: "Ada", Email: "ada@example.com"}, created)

	users, err := client.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.User{created}, users)

	got, err := client.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestClient_ListAll_PreservesOrderAndFillsIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err, "requests carry a uuid request id")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"z": {"id": "z", "name": "Zed", "email": "zed@example.com"},
			"7": {"id": 7, "name": "Seven", "email": "seven@example.com"},
			"a": {"name": "NoID", "email": "noid@example.com"}
		}`))
	}))
	defer server.Close()

	users, err := newClient(server.URL).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, model.ID("z"), users[0].ID)
	assert.Equal(t, model.ID("7"), users[1].ID)
	assert.Equal(t, model.User{ID: "a", Name: "NoID", Email: "noid@example.com"}, users[2])
}

func TestClient_ListAll_Empty(t *testing.T) {
	dir := testutil.NewDirectory(t)
	users, err := newClient(dir.URL).ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestClient_ListAll_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"boom"}`))
			},
		},
		{
			name: "array instead of object",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`[{"id":"1"}]`))
			},
		},
		{
			name: "truncated body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"1": {"id": "1", "name"`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			users, err := newClient(server.URL).ListAll(context.Background())
			require.Error(t, err)
			assert.Nil(t, users)
			assert.ErrorIs(t, err, directory.ErrListUnavailable)
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		_, err := newClient(testutil.UnreachableURL(t)).ListAll(context.Background())
		assert.ErrorIs(t, err, directory.ErrListUnavailable)
		assert.True(t, directory.IsTransport(err))
	})
}

func TestClient_Create_Failures(t *testing.T) {
	t.Run("service message is surfaced verbatim", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"Email already registered"}`))
		}))
		defer server.Close()

		_, err := newClient(server.URL).Create(context.Background(), model.Draft{Name: "Ada", Email: "ada@example.com"})
		var appErr *directory.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusConflict, appErr.StatusCode)
		assert.Equal(t, "Email already registered", appErr.Message)
		assert.Equal(t, "Email already registered", err.Error())
	})

	t.Run("field errors fall back to generic message", func(t *testing.T) {
		dir := testutil.NewDirectory(t)
		_, err := newClient(dir.URL).Create(context.Background(), model.Draft{Name: "Ada", Email: "nope"})
		var appErr *directory.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
		assert.Empty(t, appErr.Message)
		assert.Equal(t, "Failed to create user", err.Error())
		assert.Equal(t, []string{"email: Email should be valid"}, appErr.FieldErrorList())
	})

	t.Run("non-json error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html>bad gateway</html>`))
		}))
		defer server.Close()

		_, err := newClient(server.URL).Create(context.Background(), model.Draft{Name: "Ada", Email: "ada@example.com"})
		var appErr *directory.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Failed to create user", err.Error())
		assert.Contains(t, errors.Unwrap(err).Error(), "bad gateway")
	})

	t.Run("undecodable success body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		_, err := newClient(server.URL).Create(context.Background(), model.Draft{Name: "Ada", Email: "ada@example.com"})
		var appErr *directory.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusCreated, appErr.StatusCode)
	})

	t.Run("unreachable", func(t *testing.T) {
		_, err := newClient(testutil.UnreachableURL(t)).Create(context.Background(), model.Draft{Name: "Ada", Email: "ada@example.com"})
		var tErr *directory.TransportError
		require.ErrorAs(t, err, &tErr)
		assert.Equal(t, directory.OpCreate, tErr.Op)
		assert.NotNil(t, tErr.Unwrap())
	})
}

func TestClient_GetByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		dir := testutil.NewDirectory(t)
		_, err := newClient(dir.URL).GetByID(context.Background(), "99")
		require.Error(t, err)
		assert.True(t, directory.IsNotFound(err))
		assert.Equal(t, "User not found", err.Error())
	})

	t.Run("fallback message when body has none", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		_, err := newClient(server.URL).GetByID(context.Background(), "1")
		assert.Equal(t, "User not found", err.Error())
	})

	t.Run("id is path escaped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/a%2Fb", r.URL.EscapedPath())
			_, _ = w.Write([]byte(`{"id":"a/b","name":"Slash","email":"s@example.com"}`))
		}))
		defer server.Close()

		u, err := newClient(server.URL).GetByID(context.Background(), "a/b")
		require.NoError(t, err)
		assert.Equal(t, model.ID("a/b"), u.ID)
	})

	t.Run("cancelled context is a transport failure", func(t *testing.T) {
		dir := testutil.NewDirectory(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newClient(dir.URL).GetByID(ctx, "1")
		assert.True(t, directory.IsTransport(err))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
