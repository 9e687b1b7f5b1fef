package ledger

import (
	"context"
	"sync"

	"github.com/CodeRunne/burgershop/internal/domain/order"
)

var _ Ledger = (*Memory)(nil)

// Memory is an in-process Ledger holding the append log and the id index as
// a slice and a map. Every id present in one view is present in the other
// with an identical order snapshot.
type Memory struct {
	mu    sync.RWMutex
	log   []Entry
	index map[uint32]order.Order
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		index: make(map[uint32]order.Order),
	}
}

func (m *Memory) NextID(_ context.Context) (uint32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint32(len(m.log)), nil
}

func (m *Memory) Insert(_ context.Context, id uint32, o order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.index[id]; exists {
		return &DuplicateIDError{ID: id}
	}
	m.index[id] = o
	m.log = append(m.log, Entry{ID: id, Order: o})
	return nil
}

func (m *Memory) Get(_ context.Context, id uint32) (order.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.index[id]
	if !ok {
		return order.Order{}, ErrNotFound
	}
	return o, nil
}

func (m *Memory) List(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.log) == 0 {
		return nil, nil
	}
	entries := make([]Entry, len(m.log))
	copy(entries, m.log)
	return entries, nil
}
