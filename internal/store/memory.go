package store

import (
	"maps"
	"slices"
	"sync"
)

// Memory is a volatile store. It stands in when the database cannot be
// opened and is what tests use.
type Memory struct {
	mu       sync.Mutex
	settings map[string]string
	undo     []int

	// FailWith, when set, is returned by every operation.
	FailWith error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{settings: make(map[string]string)}
}

func (m *Memory) LoadSettings() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return maps.Clone(m.settings), nil
}

func (m *Memory) SaveSettings(kv map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if m.settings == nil {
		m.settings = make(map[string]string)
	}
	maps.Copy(m.settings, kv)
	return nil
}

func (m *Memory) LoadUndo() ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return slices.Clone(m.undo), nil
}

func (m *Memory) SaveUndo(values []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.undo = slices.Clone(values)
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.settings = make(map[string]string)
	m.undo = nil
	return nil
}

func (m *Memory) Close() error { return nil }
