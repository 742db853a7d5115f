package repositories

import (
	"context"

	"github.com/mbengwi/pharmafind/backend/internal/domain/entities"
)

// SearchAnalyticsRepository persists search events for later analysis.
// Logging is best effort; a failed write never fails the search.
type SearchAnalyticsRepository interface {
	LogEvent(ctx context.Context, event *entities.SearchEvent) error
	ZeroResultTerms(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
