package ports

import (
	"context"

	"statadvisor/domain/assumption"
)

// NumericBackend runs assumption tests on behalf of the recommender. Each
// method is an independent call that may fail without affecting the other.
type NumericBackend interface {
	// TestNormality runs a normality test (Shapiro-Wilk) on req.Values
	TestNormality(ctx context.Context, req assumption.Request) (*assumption.NormalityPayload, error)

	// TestHomogeneity runs a homogeneity-of-variance test (Levene) on req.Groups
	TestHomogeneity(ctx context.Context, req assumption.Request) (*assumption.HomogeneityPayload, error)
}
