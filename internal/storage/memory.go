package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps items in a map. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]string)}
}

func (m *MemoryStore) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStore) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStore) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Devices hands out one MemoryStore per device id.
type Devices struct {
	mu     sync.Mutex
	stores map[string]*MemoryStore
}

func NewDevices() *Devices {
	return &Devices{stores: make(map[string]*MemoryStore)}
}

func (d *Devices) ForDevice(deviceID string) Storage {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.stores[deviceID]
	if !ok {
		s = NewMemoryStore()
		d.stores[deviceID] = s
	}
	return s
}
