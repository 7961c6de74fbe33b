package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/niramaya-health/hospital-finder/internal/domain/entities"
	"github.com/niramaya-health/hospital-finder/internal/domain/providers"
	"github.com/niramaya-health/hospital-finder/internal/infrastructure/observability"
)

// How long recorded search events stay in the cache.
const searchEventTTLSeconds = 7 * 24 * 60 * 60

// SearchAnalyticsService records executed searches for later analysis. Events
// are logged and, when a cache is configured, stored best-effort; recording
// never fails the search that produced the event.
type SearchAnalyticsService struct {
	cache providers.CacheProvider
}

// NewSearchAnalyticsService creates an analytics recorder. Cache may be nil,
// in which case events are only logged.
func NewSearchAnalyticsService(cache providers.CacheProvider) *SearchAnalyticsService {
	return &SearchAnalyticsService{cache: cache}
}

// Record tags the event with an ID and timestamp, logs it, and persists it to
// the cache when one is available.
func (s *SearchAnalyticsService) Record(ctx context.Context, event *entities.SearchEvent) {
	event.ID = uuid.New().String()
	event.Timestamp = time.Now().UTC()

	logger := observability.LoggerFromContext(ctx)
	logger.Info().
		Str("event_id", event.ID).
		Str("condition", event.Condition).
		Str("location", event.Location).
		Bool("degraded", event.Degraded).
		Int("result_count", event.ResultCount).
		Int64("duration_ms", event.DurationMs).
		Msg("search executed")

	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to marshal search event")
		return
	}
	if err := s.cache.Set(ctx, "search:event:"+event.ID, payload, searchEventTTLSeconds); err != nil {
		logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to store search event")
	}
}
