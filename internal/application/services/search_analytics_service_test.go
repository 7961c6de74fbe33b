package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niramaya-health/hospital-finder/internal/domain/entities"
)

// memoryCache is an in-memory CacheProvider for tests.
type memoryCache struct {
	data map[string][]byte
	ttls map[string]int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte), ttls: make(map[string]int)}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("key not found")
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.data[key] = value
	m.ttls[key] = expirationSeconds
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func TestRecord_StoresEventInCache(t *testing.T) {
	cache := newMemoryCache()
	svc := NewSearchAnalyticsService(cache)

	event := &entities.SearchEvent{
		Condition:   "heart attack",
		Location:    "Delhi",
		ResultCount: 3,
		DurationMs:  12,
	}
	svc.Record(context.Background(), event)

	require.NotEmpty(t, event.ID)
	require.False(t, event.Timestamp.IsZero())

	stored, ok := cache.data["search:event:"+event.ID]
	require.True(t, ok)

	var decoded entities.SearchEvent
	require.NoError(t, json.Unmarshal(stored, &decoded))
	assert.Equal(t, "heart attack", decoded.Condition)
	assert.Equal(t, 3, decoded.ResultCount)
}

func TestRecord_UniqueIDsPerEvent(t *testing.T) {
	svc := NewSearchAnalyticsService(nil)

	a := &entities.SearchEvent{Condition: "fever"}
	b := &entities.SearchEvent{Condition: "fever"}
	svc.Record(context.Background(), a)
	svc.Record(context.Background(), b)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestRecord_NoCacheConfigured(t *testing.T) {
	svc := NewSearchAnalyticsService(nil)

	event := &entities.SearchEvent{Condition: "fever"}
	// Must not panic without a cache.
	svc.Record(context.Background(), event)
	assert.NotEmpty(t, event.ID)
}
