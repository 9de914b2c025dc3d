// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package devserver

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/toeirei/userdesk/internal/model"
)

// MemoryStore keeps users in insertion order. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	order []model.ID
	users map[model.ID]model.User
	newID func() model.ID
}

// NewMemoryStore returns an empty store that assigns random UUIDs.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: map[model.ID]model.User{},
		newID: func() model.ID { return model.ID(uuid.NewString()) },
	}
}

// NewSequentialStore returns an empty store that assigns "1", "2", ... as ids.
func NewSequentialStore() *MemoryStore {
	s := NewMemoryStore()
	var n int
	s.newID = func() model.ID {
		n++
		return model.ID(strconv.Itoa(n))
	}
	return s
}

// Create stores a new user built from draft and returns it.
func (s *MemoryStore) Create(draft model.Draft) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := model.User{ID: s.newID(), Name: draft.Name, Email: draft.Email}
	s.users[u.ID] = u
	s.order = append(s.order, u.ID)
	return u
}

// Get returns the user with id.
func (s *MemoryStore) Get(id model.ID) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// All returns every user in insertion order.
func (s *MemoryStore) All() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.users[id])
	}
	return out
}

// Len returns the number of stored users.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
