package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Store. It is the default backend and the test
// double for endpoint tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]Document // collection -> id -> document
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]Document)}
}

func (m *Memory) Write(ctx context.Context, collection, id string, fields map[string]any, merge bool) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()

	col := m.data[collection]
	if col == nil {
		col = make(map[string]Document)
		m.data[collection] = col
	}

	existing, exists := col[id]

	doc := Document{CreatedAt: now, UpdatedAt: now}
	if exists {
		doc.CreatedAt = existing.CreatedAt
	}

	if merge && exists {
		merged := copyFields(existing.Fields)
		for k, v := range fields {
			merged[k] = v
		}
		doc.Fields = merged
	} else {
		doc.Fields = copyFields(fields)
	}

	col[id] = doc
	return doc, nil
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.data[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	doc.Fields = copyFields(doc.Fields)
	return doc, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
