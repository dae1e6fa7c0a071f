package ports

import (
	"context"

	"statadvisor/domain/core"
	"statadvisor/domain/recommendation"
)

// RecommendationRepository stores issued recommendations for later lookup
type RecommendationRepository interface {
	Save(ctx context.Context, record *recommendation.Record) error
	Get(ctx context.Context, id core.RecommendationID) (*recommendation.Record, error)
	ListByFingerprint(ctx context.Context, fingerprint core.DatasetFingerprint, limit int) ([]*recommendation.Record, error)
}
