package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("key not found")
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.data[key] = value
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

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})
}

func TestCacheMiddleware_CachesReferenceRoute(t *testing.T) {
	cache := newMemoryCache()
	m := NewCacheMiddleware(cache, nil)

	calls := 0
	handler := m.Middleware(countingHandler(&calls))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/cities", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/cities", nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestCacheMiddleware_NeverCachesSearch(t *testing.T) {
	cache := newMemoryCache()
	m := NewCacheMiddleware(cache, nil)

	calls := 0
	handler := m.Middleware(countingHandler(&calls))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hospitals/search?condition=fever", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}

	assert.Equal(t, 2, calls)
	assert.Empty(t, cache.data)
}

func TestCacheMiddleware_ExactPathOnly(t *testing.T) {
	cache := newMemoryCache()
	m := NewCacheMiddleware(cache, nil)

	calls := 0
	handler := m.Middleware(countingHandler(&calls))

	// A subpath of a cached route must not inherit its config.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hospitals/Some%20Hospital", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, cache.data)
}

func TestCacheMiddleware_QueryIsPartOfKey(t *testing.T) {
	cache := newMemoryCache()
	m := NewCacheMiddleware(cache, nil)

	calls := 0
	handler := m.Middleware(countingHandler(&calls))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/hospitals?city=delhi", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/hospitals?city=mumbai", nil))

	assert.Equal(t, 2, calls)
	assert.Len(t, cache.data, 2)
}

func TestCacheMiddleware_NilCachePassesThrough(t *testing.T) {
	m := NewCacheMiddleware(nil, nil)

	calls := 0
	handler := m.Middleware(countingHandler(&calls))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cities", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, calls)
}
