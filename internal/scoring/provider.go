package scoring

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/trendforge/fantasymarket/internal/models"
)

// ErrNoMetrics is returned by a provider when an entity has no recorded
// activity for the requested period.
var ErrNoMetrics = errors.New("no trend metrics for entity in period")

// TrendMetricsProvider supplies the per-entity daily/weekly volume and rank
// series the engine scores. It is owned by the data-collection side; the
// scoring engine only consumes it.
type TrendMetricsProvider interface {
	Snapshot(ctx context.Context, entityID uuid.UUID, period string) (models.TrendSnapshot, error)
}
