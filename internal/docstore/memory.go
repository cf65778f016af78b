package docstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and local runs.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	now         func() time.Time
	newID       func() string
	unavailable bool
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]Document),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// SetClock replaces the clock used for server timestamps.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// SetUnavailable makes every following call fail with ErrUnavailable.
func (m *Memory) SetUnavailable(unavailable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = unavailable
}

func (m *Memory) check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if m.unavailable {
		return ErrUnavailable
	}
	return nil
}

func (m *Memory) Find(ctx context.Context, collection string, filter *Filter) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}

	result := make([]Document, 0)
	for _, doc := range m.collections[collection] {
		if matches(doc.Data, filter) {
			result = append(result, doc)
		}
	}

	slices.SortFunc(result, func(a, b Document) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return result, nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}

	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &doc, nil
}

func (m *Memory) Create(ctx context.Context, collection, id string, fields map[string]any) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx); err != nil {
		return nil, err
	}

	if id == "" {
		id = m.newID()
	}

	data, err := mergeFields(nil, fields, m.now)
	if err != nil {
		return nil, err
	}

	now := m.now().UTC()
	doc := Document{ID: id, Data: data, CreatedAt: now, UpdatedAt: now}
	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]Document)
	}
	m.collections[collection][id] = doc
	return &doc, nil
}

func (m *Memory) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx); err != nil {
		return err
	}

	doc, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	data, err := mergeFields(doc.Data, fields, m.now)
	if err != nil {
		return err
	}
	doc.Data = data
	doc.UpdatedAt = m.now().UTC()
	m.collections[collection][id] = doc
	return nil
}

func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(ctx); err != nil {
		return err
	}

	delete(m.collections[collection], id)
	return nil
}

func (m *Memory) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.check(ctx)
}
