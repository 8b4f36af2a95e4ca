package store

import (
	"context"
	"sync"
)

// Memory is the default user store: a process-local map, good enough
// for development and single-node deployments. Lost on restart.
type Memory struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]*User)}
}

func (m *Memory) Create(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ErrDuplicate
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *Memory) FindByID(_ context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *Memory) FindByEmail(_ context.Context, email string) (*User, error) {
	return m.find(func(u *User) bool { return u.Email == email })
}

func (m *Memory) FindByUsername(_ context.Context, username string) (*User, error) {
	return m.find(func(u *User) bool { return u.Username == username })
}

func (m *Memory) ListExcept(_ context.Context, excludeID string) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		if u.ID == excludeID {
			continue
		}
		copied := *u
		users = append(users, &copied)
	}
	return users, nil
}

func (m *Memory) Search(_ context.Context, query string) (*User, error) {
	return m.find(func(u *User) bool { return u.Username == query || u.Email == query })
}

func (m *Memory) find(match func(*User) bool) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}
