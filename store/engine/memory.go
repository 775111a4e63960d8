package engine

import (
	"sync"
	"time"

	"github.com/nvkalinin/workday-locator/store"
)

type Memory struct {
	mu    sync.RWMutex
	store map[int]store.Months
}

func NewMemory() *Memory {
	return &Memory{
		store: make(map[int]store.Months, 3),
	}
}

func (m *Memory) FindMonth(y int, mon time.Month) (store.Days, bool) {
	year, ok := m.FindYear(y)
	if !ok {
		return nil, false
	}

	days, ok := year[mon]
	if !ok {
		return nil, false
	}

	return days, true
}

func (m *Memory) FindYear(y int) (store.Months, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	year, ok := m.store[y]
	if !ok {
		return nil, false
	}

	return year.Copy(), true
}

func (m *Memory) PutYear(y int, data store.Months) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store[y] = data.Copy()
	return nil
}
