package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Provider. It is used by tests and by the memory
// backend for throwaway sessions. The *Err fields inject failures.
type Memory struct {
	mu     sync.Mutex
	data   map[string]string
	closed bool

	GetErr    error
	SetErr    error
	RemoveErr error
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Init() error { return nil }
func (m *Memory) Load() error { return nil }

func (m *Memory) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrNotLoaded
	}
	return nil
}

func (m *Memory) Location() string { return "memory" }

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	if m.closed {
		return "", false, ErrNotLoaded
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.closed {
		return ErrNotLoaded
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	if m.closed {
		return ErrNotLoaded
	}
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetFailures replaces the injected errors under the lock.
func (m *Memory) SetFailures(get, set, remove error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetErr, m.SetErr, m.RemoveErr = get, set, remove
}

// Raw returns the stored value without any failure injection.
func (m *Memory) Raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}
