// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "x")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLogActionAndRecent(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	require.NoError(t, s.LogAction(ctx, "user.create", "id=1"))
	require.NoError(t, s.LogAction(ctx, "user.search", "id=1 found=true"))
	require.NoError(t, s.LogAction(ctx, "user.create_failed", "reason=boom"))

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "user.create_failed", all[0].Action)
	assert.Equal(t, "user.search", all[1].Action)
	assert.Equal(t, "user.create", all[2].Action)
	assert.Equal(t, "id=1", all[2].Details)
	assert.NotEmpty(t, all[0].Username)
	assert.True(t, all[2].Timestamp.Equal(base.Add(time.Second)))

	limited, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "user.create_failed", limited[0].Action)
}

func TestRecent_Empty(t *testing.T) {
	entries, err := openMemory(t).Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpen_FileReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DefaultFileName)

	s, err := Open(ctx, "sqlite", path)
	require.NoError(t, err)
	require.NoError(t, s.LogAction(ctx, "user.create", "id=1"))
	require.NoError(t, s.Close())

	s, err = Open(ctx, "sqlite", path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)

	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, DefaultFileName, filepath.Base(p))
	assert.DirExists(t, filepath.Dir(p))
}

func TestDriverFor(t *testing.T) {
	tests := map[string]string{"sqlite": "sqlite", "postgres": "pgx", "mysql": "mysql"}
	for dbType, want := range tests {
		got, err := driverFor(dbType)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
