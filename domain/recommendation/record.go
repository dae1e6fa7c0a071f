package recommendation

import "statadvisor/domain/core"

// Record is a persisted recommendation together with the request that produced it.
// The identifier and timestamp live here so Recommendation stays a pure value.
type Record struct {
	ID                 core.RecommendationID   `json:"id"`
	Fingerprint        core.DatasetFingerprint `json:"fingerprint"`
	Purpose            Purpose                 `json:"purpose"`
	ValueColumn        string                  `json:"value_column,omitempty"`
	GroupColumn        string                  `json:"group_column,omitempty"`
	AssumptionsSkipped bool                    `json:"assumptions_skipped"`
	CatalogVersion     string                  `json:"catalog_version"`
	Recommendation     Recommendation          `json:"recommendation"`
	CreatedAt          core.Timestamp          `json:"created_at"`
}

// Clone returns a deep copy of the record
func (r Record) Clone() *Record {
	r.Recommendation = r.Recommendation.Clone()
	return &r
}
