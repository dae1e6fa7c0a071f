package profiling

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "statadvisor/domain/profiling"
	"statadvisor/internal/testkit"
)

func TestPercentileLinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1.75, Percentile(sorted, 0.25), 1e-12)
	assert.InDelta(t, 2.5, Percentile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 3.25, Percentile(sorted, 0.75), 1e-12)
	assert.Equal(t, 1.0, Percentile(sorted, 0))
	assert.Equal(t, 4.0, Percentile(sorted, 1))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 0.9))
}

func TestDescribeQuartileOrdering(t *testing.T) {
	samples := [][]float64{
		{5, 1, 4, 2, 3},
		{10, 10, 10, 11},
		{-3.5, 2.25, 100, 0, 0, 7, 8, 9},
		{1e6, 2, 3, 4, 5, 6},
	}
	for i, s := range samples {
		t.Run(fmt.Sprintf("sample_%d", i), func(t *testing.T) {
			st := Describe(s)
			require.NotNil(t, st)
			assert.LessOrEqual(t, st.Min, st.Q1)
			assert.LessOrEqual(t, st.Q1, st.Median)
			assert.LessOrEqual(t, st.Median, st.Q3)
			assert.LessOrEqual(t, st.Q3, st.Max)
		})
	}
}

func TestDescribeMomentsGuarded(t *testing.T) {
	assert.Nil(t, Describe(nil))

	two := Describe([]float64{1, 2})
	require.NotNil(t, two)
	assert.Nil(t, two.Skewness)
	assert.Nil(t, two.Kurtosis)

	three := Describe([]float64{1, 2, 10})
	require.NotNil(t, three)
	assert.NotNil(t, three.Skewness)
	assert.Nil(t, three.Kurtosis)
	assert.Greater(t, *three.Skewness, 0.0)

	constant := Describe([]float64{4, 4, 4, 4, 4})
	require.NotNil(t, constant)
	assert.Equal(t, 0.0, constant.Std)
	assert.Nil(t, constant.Skewness)
	assert.Nil(t, constant.Kurtosis)
}

func TestDescribePopulationStd(t *testing.T) {
	st := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NotNil(t, st)
	assert.InDelta(t, 5.0, st.Mean, 1e-12)
	assert.InDelta(t, 2.0, st.Std, 1e-12)
	require.NotNil(t, st.Kurtosis)
	assert.InDelta(t, -0.21875, *st.Kurtosis, 1e-9)
}

func outlierDataset() domain.Dataset {
	values := []interface{}{40.0, 1.0, 2.0, 3.0, 4.0, 20.0, 5.0, 6.0, 7.0, 8.0, 9.0, ""}
	rows := make([]domain.Row, len(values))
	for i, v := range values {
		rows[i] = domain.Row{"score": v, "group": []string{"a", "b"}[i%2]}
	}
	return domain.Dataset{Columns: []string{"group", "score"}, Rows: rows}
}

func TestOutlierFences(t *testing.T) {
	report := GetOutlierDetails(outlierDataset(), "score")
	require.NotNil(t, report)

	st := report.Statistics
	assert.InDelta(t, 3.5, st.Q1, 1e-12)
	assert.InDelta(t, 6.0, st.Median, 1e-12)
	assert.InDelta(t, 8.5, st.Q3, 1e-12)
	assert.InDelta(t, 5.0, st.IQR, 1e-12)
	assert.InDelta(t, -4.0, st.LowerBound, 1e-12)
	assert.InDelta(t, 16.0, st.UpperBound, 1e-12)
	assert.InDelta(t, 23.5, st.ExtremeUpperBound, 1e-12)
	assert.Equal(t, 1.0, st.Min)
	assert.Equal(t, 40.0, st.Max)
	require.NotNil(t, st.Mean)

	assert.Equal(t, []domain.OutlierDetail{
		{Value: 40, RowIndex: 1, IsExtreme: true},
		{Value: 20, RowIndex: 6, IsExtreme: false},
	}, report.Outliers)
}

func TestOutlierFlagMatchesBounds(t *testing.T) {
	report := GetOutlierDetails(outlierDataset(), "score")
	require.NotNil(t, report)
	flagged := map[float64]bool{}
	for _, o := range report.Outliers {
		flagged[o.Value] = true
	}
	values, _ := ColumnValues(outlierDataset().Rows, "score")
	for _, v := range values {
		want := v < report.Statistics.LowerBound || v > report.Statistics.UpperBound
		assert.Equal(t, want, flagged[v], "value %v", v)
	}
}

func TestGetOutlierDetailsNil(t *testing.T) {
	ds := outlierDataset()
	assert.Nil(t, GetOutlierDetails(ds, "missing_column"))
	assert.Nil(t, GetOutlierDetails(ds, "group"))

	empty := domain.Dataset{Columns: []string{"x"}, Rows: []domain.Row{{"x": ""}, {"x": nil}}}
	assert.Nil(t, GetOutlierDetails(empty, "x"))
}

func mixedDataset() domain.Dataset {
	rows := []domain.Row{}
	for i := 0; i < 12; i++ {
		rows = append(rows, domain.Row{
			"subject_id": fmt.Sprintf("S%02d", i/2),
			"row":        i + 1,
			"group":      []string{"control", "treatment"}[i%2],
			"score":      fmt.Sprintf("%d.5", 10+i),
			"note":       []interface{}{"1", "x", "y"}[i%3],
			"visit_date": fmt.Sprintf("2024-01-%02d", i+1),
			"width":      float64(i % 4),
		})
	}
	rows[3]["score"] = "n/a"
	rows[4]["score"] = nil
	return domain.Dataset{
		Columns: []string{"subject_id", "row", "group", "score", "note", "visit_date", "width"},
		Rows:    rows,
	}
}

func TestProfileColumnsClassification(t *testing.T) {
	profiles := ProfileColumns(mixedDataset())
	require.Len(t, profiles, 7)

	byName := map[string]domain.ColumnProfile{}
	for _, p := range profiles {
		byName[p.Name] = p
	}

	subject := byName["subject_id"]
	assert.True(t, subject.IDLikelihood.IsID)
	assert.Equal(t, domain.KindCategorical, subject.Kind)
	assert.Equal(t, 6, subject.UniqueCount)

	row := byName["row"]
	assert.True(t, row.IDLikelihood.IsID, "consecutive integers look like row numbers")
	assert.Equal(t, domain.KindCategorical, row.Kind)
	assert.Nil(t, row.NumericStats)

	group := byName["group"]
	assert.Equal(t, domain.KindCategorical, group.Kind)
	assert.False(t, group.IDLikelihood.IsID)
	assert.Equal(t, 2, group.UniqueCount)
	require.Len(t, group.TopCategories, 2)
	assert.Equal(t, 6, group.TopCategories[0].Count)

	score := byName["score"]
	assert.Equal(t, domain.KindNumeric, score.Kind)
	assert.Equal(t, 11, score.Count)
	assert.Equal(t, 1, score.MissingCount)
	require.NotNil(t, score.NumericStats)
	assert.Equal(t, 10.5, score.NumericStats.Min)

	note := byName["note"]
	assert.Equal(t, domain.KindMixed, note.Kind)
	assert.True(t, note.IsCategorical())
	assert.Nil(t, note.NumericStats)
	assert.NotEmpty(t, note.TopCategories)
	assert.True(t, byName["visit_date"].Temporal)
	assert.False(t, byName["visit_date"].IDLikelihood.IsID)

	width := byName["width"]
	assert.Equal(t, domain.KindNumeric, width.Kind)
	assert.False(t, width.IDLikelihood.IsID)

	assert.Equal(t, []string{"score", "width"}, NumericColumns(profiles))
	assert.Equal(t, []string{"group", "note", "visit_date"}, CategoricalColumns(profiles))
}

func TestUniqueMeasurementsAreNotIdentifiers(t *testing.T) {
	ds := domain.Dataset{Columns: []string{"weight", "seq", "code"}}
	for i := 0; i < 20; i++ {
		ds.Rows = append(ds.Rows, domain.Row{
			"weight": 60.25 + float64(i)*1.37,
			"seq":    i + 5,
			"code":   fmt.Sprintf("K%03d", i*7),
		})
	}
	profiles := ProfileColumns(ds)

	weight, ok := Find(profiles, "weight")
	require.True(t, ok)
	assert.Equal(t, 20, weight.UniqueCount)
	assert.Equal(t, domain.KindNumeric, weight.Kind)
	assert.False(t, weight.IDLikelihood.IsID, "all-unique measurements are still variables")

	seq, ok := Find(profiles, "seq")
	require.True(t, ok)
	assert.True(t, seq.IDLikelihood.IsID)

	code, ok := Find(profiles, "code")
	require.True(t, ok)
	assert.True(t, code.IDLikelihood.IsID)

	assert.Equal(t, []string{"weight"}, NumericColumns(profiles))
}

func TestNameLooksLikeID(t *testing.T) {
	cases := map[string]bool{
		"id":             true,
		"ID":             true,
		"userId":         true,
		"subject_id":     true,
		"Participant No": true,
		"SubjectCode":    true,
		"width":          false,
		"valid":          false,
		"paid_amount":    false,
	}
	for name, want := range cases {
		assert.Equal(t, want, nameLooksLikeID(name), name)
	}
}

func TestProfileColumnsIsDeterministic(t *testing.T) {
	ds := mixedDataset()
	assert.Equal(t, ProfileColumns(ds), ProfileColumns(ds))
}

func TestSampleSizeLimitsTypeInference(t *testing.T) {
	rows := []domain.Row{{"v": "a"}, {"v": "b"}, {"v": "1"}, {"v": "2"}, {"v": "3"}}
	ds := domain.Dataset{Columns: []string{"v"}, Rows: rows}

	full := NewProfiler(domain.ProfilingConfig{}).ProfileColumns(ds)
	assert.Equal(t, domain.KindNumeric, full[0].Kind)

	sampled := NewProfiler(domain.ProfilingConfig{SampleSize: 2}).ProfileColumns(ds)
	assert.Equal(t, domain.KindCategorical, sampled[0].Kind)
}

func TestProfileGeneratedScoreSkew(t *testing.T) {
	cfg := testkit.DefaultTrialConfig()
	cfg.Subjects = 200

	normal := ProfileColumns(testkit.NewTrialDataGenerator(cfg).Generate())
	cfg.Skewed = true
	skewed := ProfileColumns(testkit.NewTrialDataGenerator(cfg).Generate())

	normalScore, ok := Find(normal, "score")
	require.True(t, ok)
	skewedScore, ok := Find(skewed, "score")
	require.True(t, ok)

	require.NotNil(t, normalScore.NumericStats.Skewness)
	require.NotNil(t, skewedScore.NumericStats.Skewness)
	assert.Less(t, *normalScore.NumericStats.Skewness, 1.0)
	assert.Greater(t, *skewedScore.NumericStats.Skewness, 1.0)

	id, ok := Find(normal, "subject_id")
	require.True(t, ok)
	assert.True(t, id.IDLikelihood.IsID)
}
