package listing

import (
	"context"
	"sync"
	"time"

	"etsy-viewer-api/core/domain"
	"etsy-viewer-api/core/interfaces"
)

// mockProvider is a mock implementation of the ListingProvider interface
type mockProvider struct {
	mu        sync.Mutex
	calls     []string
	fetchFunc func(ctx context.Context, listingID string) (*domain.ListingDetails, error)
}

func (m *mockProvider) FetchListing(ctx context.Context, listingID string) (*domain.ListingDetails, error) {
	m.mu.Lock()
	m.calls = append(m.calls, listingID)
	m.mu.Unlock()

	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, listingID)
	}
	return &domain.ListingDetails{Title: "listing " + listingID}, nil
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockCache is an in-memory Cache that records TTLs
type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	getErr  error
	setErr  error
	delErr  error
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

type logEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

// mockLogger records log calls
type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (m *mockLogger) log(level, msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{level: level, msg: msg, fields: fields})
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) { m.log("DEBUG", msg, fields) }
func (m *mockLogger) Info(msg string, fields map[string]interface{})  { m.log("INFO", msg, fields) }
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  { m.log("WARN", msg, fields) }
func (m *mockLogger) Error(msg string, fields map[string]interface{}) { m.log("ERROR", msg, fields) }

func (m *mockLogger) has(level, msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}
