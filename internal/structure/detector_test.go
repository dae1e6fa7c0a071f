package structure

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "statadvisor/domain/profiling"
	"statadvisor/internal/profiling"
	"statadvisor/internal/testkit"
)

func subjectRows(ids, repeats int) []domain.Row {
	var rows []domain.Row
	for r := 0; r < repeats; r++ {
		for i := 0; i < ids; i++ {
			rows = append(rows, domain.Row{
				"subject": fmt.Sprintf("P%02d", i),
				"time":    []string{"pre", "post", "follow"}[r%3],
				"score":   float64(10+i) + float64(r)*0.5,
			})
		}
	}
	return rows
}

func TestDetectPairedDesign(t *testing.T) {
	cols := []string{"subject", "time", "score"}

	twice := subjectRows(10, 2)
	assert.True(t, DetectPairedDesign(twice, profiling.ProfileColumns(domain.Dataset{Columns: cols, Rows: twice})))

	once := subjectRows(10, 1)
	assert.False(t, DetectPairedDesign(once, profiling.ProfileColumns(domain.Dataset{Columns: cols, Rows: once})))
}

func TestDetectPairedDesignThresholdIsStrict(t *testing.T) {
	// 4 distinct ids, exactly 2 repeat: 0.5 is not > 0.5.
	rows := []domain.Row{
		{"id": "a"}, {"id": "a"}, {"id": "b"}, {"id": "b"}, {"id": "c"}, {"id": "d"},
	}
	profiles := profiling.ProfileColumns(domain.Dataset{Columns: []string{"id"}, Rows: rows})
	assert.False(t, DetectPairedDesign(rows, profiles))

	rows = append(rows, domain.Row{"id": "c"})
	assert.True(t, DetectPairedDesign(rows, profiles))
}

func TestDetectPairedDesignWithoutIdentifier(t *testing.T) {
	rows := []domain.Row{{"group": "a"}, {"group": "a"}}
	profiles := profiling.ProfileColumns(domain.Dataset{Columns: []string{"group"}, Rows: rows})
	assert.False(t, DetectPairedDesign(rows, profiles))
}

func profile(name string, unique int) domain.ColumnProfile {
	return domain.ColumnProfile{Name: name, Kind: domain.KindCategorical, UniqueCount: unique}
}

func TestFindGroupVariable(t *testing.T) {
	none := []domain.ColumnProfile{profile("city", 25), profile("constant", 1)}
	assert.Nil(t, FindGroupVariable(none))
	assert.Equal(t, 0, DetectGroupCount(none, nil))

	id := profile("subject", 4)
	id.IDLikelihood.IsID = true
	numeric := domain.ColumnProfile{Name: "score", Kind: domain.KindNumeric, UniqueCount: 3}
	several := []domain.ColumnProfile{id, numeric, profile("city", 25), profile("arm", 3), profile("sex", 2)}

	got := FindGroupVariable(several)
	require.NotNil(t, got)
	assert.Equal(t, "arm", *got)
	assert.Equal(t, 3, DetectGroupCount(several, got))
	assert.Equal(t, []string{"arm", "sex"}, DetectFactors(several))
}

func TestFactorBoundaries(t *testing.T) {
	ps := []domain.ColumnProfile{profile("ten", 10), profile("eleven", 11), profile("two", 2)}
	assert.Equal(t, []string{"ten", "two"}, DetectFactors(ps))
	assert.Empty(t, DetectFactors(nil))
}

func TestDetectAndSummarize(t *testing.T) {
	rows := subjectRows(10, 2)
	for i, r := range rows {
		r["day"] = fmt.Sprintf("2024-02-%02d", i%20+1)
		r["arm"] = []string{"a", "b"}[i%2]
	}
	cols := []string{"subject", "time", "arm", "score", "day"}
	profiles := profiling.ProfileColumns(domain.Dataset{Columns: cols, Rows: rows})

	facts := Detect(rows, profiles)
	assert.True(t, facts.IsPaired)
	assert.Equal(t, []string{"time", "arm"}, facts.Factors)
	require.True(t, facts.HasGroupVariable())
	assert.Equal(t, "time", *facts.GroupVariable)
	assert.Equal(t, 2, facts.GroupCount)

	summary := Summarize(rows, profiles)
	assert.Equal(t, 20, summary.Size)
	assert.Equal(t, []string{"score"}, summary.NumericColumns)
	assert.Equal(t, []string{"time", "arm"}, summary.BinaryColumns)
	assert.Equal(t, []string{"day"}, summary.TemporalColumns)

	assert.Equal(t, facts, Detect(rows, profiles))
}

func TestDetectOnGeneratedTrials(t *testing.T) {
	parallel := testkit.NewTrialDataGenerator(testkit.DefaultTrialConfig()).Generate()
	profiles := profiling.ProfileColumns(parallel)
	facts := Detect(parallel.Rows, profiles)

	assert.False(t, facts.IsPaired)
	require.NotNil(t, facts.GroupVariable)
	assert.Equal(t, "arm", *facts.GroupVariable)
	assert.Equal(t, 2, facts.GroupCount)
	assert.Equal(t, []string{"arm", "responded"}, facts.Factors)

	summary := Summarize(parallel.Rows, profiles)
	assert.Equal(t, 60, summary.Size)
	assert.Equal(t, []string{"baseline", "score"}, summary.NumericColumns)
	assert.Equal(t, []string{"arm", "responded"}, summary.BinaryColumns)
	assert.Equal(t, []string{"visit_date"}, summary.TemporalColumns)

	cfg := testkit.DefaultTrialConfig()
	cfg.Subjects = 20
	cfg.Visits = 2
	cfg.Arms = []string{"a", "b", "c"}
	repeated := testkit.NewTrialDataGenerator(cfg).Generate()
	repeatedFacts := Detect(repeated.Rows, profiling.ProfileColumns(repeated))

	assert.True(t, repeatedFacts.IsPaired)
	assert.Equal(t, 3, repeatedFacts.GroupCount)
}

func TestPartlyNumericLevelsStillGroup(t *testing.T) {
	rows := make([]domain.Row, 0, 30)
	for i := 0; i < 30; i++ {
		rows = append(rows, domain.Row{
			"dose":  []string{"0", "low", "high"}[i%3],
			"score": float64(20+i%7) + 0.25,
		})
	}
	profiles := profiling.ProfileColumns(domain.Dataset{Columns: []string{"dose", "score"}, Rows: rows})
	dose, ok := profiling.Find(profiles, "dose")
	require.True(t, ok)
	assert.Equal(t, domain.KindMixed, dose.Kind)
	assert.Equal(t, 3, dose.UniqueCount)

	facts := Detect(rows, profiles)
	require.NotNil(t, facts.GroupVariable)
	assert.Equal(t, "dose", *facts.GroupVariable)
	assert.Equal(t, 3, facts.GroupCount)
	assert.Equal(t, []string{"dose"}, facts.Factors)

	summary := Summarize(rows, profiles)
	assert.Equal(t, []string{"dose"}, summary.CategoricalColumns)
	assert.Equal(t, []string{"score"}, summary.NumericColumns)
}
