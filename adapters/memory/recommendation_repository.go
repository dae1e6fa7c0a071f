// Package memory holds process-local adapters used when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"statadvisor/domain/core"
	"statadvisor/domain/recommendation"
	"statadvisor/internal/errors"
	"statadvisor/ports"
)

// RecommendationRepository keeps records in a map guarded by a RWMutex
type RecommendationRepository struct {
	mu      sync.RWMutex
	records map[core.RecommendationID]recommendation.Record
}

// NewRecommendationRepository creates an empty in-memory repository
func NewRecommendationRepository() ports.RecommendationRepository {
	return &RecommendationRepository{records: make(map[core.RecommendationID]recommendation.Record)}
}

// Save stores a deep copy of the record
func (r *RecommendationRepository) Save(ctx context.Context, record *recommendation.Record) error {
	if record == nil || record.ID == "" {
		return errors.ValidationError("recommendation record requires an id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.records[record.ID]; exists {
		return errors.ValidationError("recommendation " + record.ID.String() + " already exists")
	}
	r.records[record.ID] = *record.Clone()
	return nil
}

// Get returns a deep copy of the stored record
func (r *RecommendationRepository) Get(ctx context.Context, id core.RecommendationID) (*recommendation.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[id]
	if !ok {
		return nil, errors.WithCode(errors.CodeNotFound, core.ErrRecommendationNotFound)
	}
	return record.Clone(), nil
}

// ListByFingerprint returns the newest records for a fingerprint first
func (r *RecommendationRepository) ListByFingerprint(ctx context.Context, fingerprint core.DatasetFingerprint, limit int) ([]*recommendation.Record, error) {
	r.mu.RLock()
	var out []*recommendation.Record
	for _, record := range r.records {
		if record.Fingerprint == fingerprint {
			out = append(out, record.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		ti, tj := out[i].CreatedAt.Time(), out[j].CreatedAt.Time()
		if ti.Equal(tj) {
			return out[i].ID > out[j].ID
		}
		return ti.After(tj)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
