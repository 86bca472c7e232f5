package mongo

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// memoryStore is an in-memory Store. Documents keep insertion order, so the
// last matching document is the newest one.
type memoryStore struct {
	mu          sync.Mutex
	collections map[string][]Document
	insertErr   error
	closed      int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{collections: make(map[string][]Document)}
}

func (m *memoryStore) Insert(_ context.Context, collection string, doc any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	var stored Document
	switch d := doc.(type) {
	case bson.M:
		stored = Document(d)
	case map[string]any:
		stored = d
	}
	m.collections[collection] = append(m.collections[collection], stored)
	return nil
}

func (m *memoryStore) First(_ context.Context, collection string) (Document, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.collections[collection]
	if len(docs) == 0 {
		return nil, false, nil
	}
	return docs[0], true, nil
}

func (m *memoryStore) FindWithKey(_ context.Context, collection, key string) (Document, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.collections[collection] {
		if _, ok := doc[key]; ok {
			return doc, true, nil
		}
	}
	return nil, false, nil
}

func (m *memoryStore) Latest(_ context.Context, collection, field string, value any) (Document, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.collections[collection]
	for i := len(docs) - 1; i >= 0; i-- {
		if docs[i][field] == value {
			return docs[i], true, nil
		}
	}
	return nil, false, nil
}

func (m *memoryStore) CollectionNames(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *memoryStore) Close(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// recordingDialer hands out store and remembers the settings it was given.
type recordingDialer struct {
	store    *memoryStore
	err      error
	settings []Settings
}

func (d *recordingDialer) dial(_ context.Context, s Settings) (Store, error) {
	d.settings = append(d.settings, s)
	if d.err != nil {
		return nil, d.err
	}
	return d.store, nil
}
