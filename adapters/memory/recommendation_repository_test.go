package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statadvisor/domain/core"
	"statadvisor/domain/recommendation"
	"statadvisor/internal/errors"
)

func record(fp core.DatasetFingerprint, at time.Time) *recommendation.Record {
	return &recommendation.Record{
		ID:          core.NewRecommendationID(),
		Fingerprint: fp,
		Purpose:     recommendation.PurposeCompare,
		Recommendation: recommendation.Recommendation{
			Method:     recommendation.MethodDescriptor{ID: "mann-whitney-u"},
			Confidence: 0.9,
			Reasoning:  []string{"two groups"},
		},
		CreatedAt: core.NewTimestamp(at),
	}
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewRecommendationRepository()
	rec := record("fp", time.Now())

	require.NoError(t, repo.Save(ctx, rec))
	got, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	err = repo.Save(ctx, rec)
	assert.Equal(t, errors.CodeValidationError, errors.GetCode(err))
}

func TestGetMissing(t *testing.T) {
	_, err := NewRecommendationRepository().Get(context.Background(), core.NewRecommendationID())
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListByFingerprintNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRecommendationRepository()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	older := record("a", base)
	newer := record("a", base.Add(time.Hour))
	other := record("b", base.Add(2*time.Hour))
	for _, r := range []*recommendation.Record{older, newer, other} {
		require.NoError(t, repo.Save(ctx, r))
	}

	list, err := repo.ListByFingerprint(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	list, err = repo.ListByFingerprint(ctx, "a", 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStoredRecordsDoNotShareSlices(t *testing.T) {
	ctx := context.Background()
	repo := NewRecommendationRepository()
	p := 0.2
	rec := record("fp", time.Now())
	rec.Recommendation.Alternatives = []recommendation.MethodDescriptor{{ID: "independent-t-test"}}
	rec.Recommendation.AssumptionsChecked = []recommendation.AssumptionCheck{{Name: "normality", PValue: &p}}
	require.NoError(t, repo.Save(ctx, rec))

	rec.Recommendation.Reasoning[0] = "changed by caller"
	rec.Recommendation.Alternatives[0].ID = "changed"
	*rec.Recommendation.AssumptionsChecked[0].PValue = 0.9

	got, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "two groups", got.Recommendation.Reasoning[0])
	assert.Equal(t, "independent-t-test", got.Recommendation.Alternatives[0].ID)
	assert.Equal(t, 0.2, *got.Recommendation.AssumptionsChecked[0].PValue)

	got.Recommendation.Reasoning[0] = "changed by reader"
	again, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "two groups", again.Recommendation.Reasoning[0])

	listed, err := repo.ListByFingerprint(ctx, "fp", 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	listed[0].Recommendation.Reasoning[0] = "changed by lister"
	again, err = repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "two groups", again.Recommendation.Reasoning[0])
}
