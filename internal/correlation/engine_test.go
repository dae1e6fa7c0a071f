package correlation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "statadvisor/domain/profiling"
	"statadvisor/internal/profiling"
)

func TestCalculateCorrelationSelfIsOne(t *testing.T) {
	samples := [][]float64{
		{1, 2, 3, 4, 5},
		{3.3, -1.2, 8.9, 0.01, 42},
		{100, 100, 101},
	}
	for _, x := range samples {
		assert.InDelta(t, 1.0, CalculateCorrelation(x, x), 1e-9)
	}
}

func TestCalculateCorrelationSymmetric(t *testing.T) {
	x := []float64{1, 4, 2, 8, 5, 7}
	y := []float64{2.5, 3.1, 0.4, 9.9, 4.4, 6.0}
	assert.Equal(t, CalculateCorrelation(x, y), CalculateCorrelation(y, x))

	neg := []float64{6, 5, 4, 3, 2, 1}
	assert.InDelta(t, -1.0, CalculateCorrelation([]float64{1, 2, 3, 4, 5, 6}, neg), 1e-9)
}

func TestCalculateCorrelationDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, CalculateCorrelation([]float64{1}, []float64{2}))
	assert.Equal(t, 0.0, CalculateCorrelation(nil, nil))
	assert.Equal(t, 0.0, CalculateCorrelation([]float64{3, 3, 3}, []float64{1, 2, 3}))
	assert.Equal(t, 0.0, CalculateCorrelation([]float64{1, 2}, []float64{1, 2, 3}))
}

func TestClassifyStrength(t *testing.T) {
	assert.Equal(t, StrengthVeryStrong, ClassifyStrength(-0.7))
	assert.Equal(t, StrengthStrong, ClassifyStrength(0.69))
	assert.Equal(t, StrengthStrong, ClassifyStrength(0.5))
	assert.Equal(t, StrengthMedium, ClassifyStrength(-0.3))
	assert.Equal(t, StrengthWeak, ClassifyStrength(0.29))
}

func TestPairwiseDeletion(t *testing.T) {
	rows := []domain.Row{
		{"a": 1.0, "b": 2.0, "c": nil},
		{"a": 2.0, "b": "", "c": 5.0},
		{"a": 3.0, "b": 6.0, "c": 7.0},
		{"a": "x", "b": 8.0, "c": 9.0},
		{"a": 5.0, "b": 10.0, "c": 11.0},
	}

	x, y := PairedValues(rows, "a", "b")
	assert.Equal(t, []float64{1, 3, 5}, x)
	assert.Equal(t, []float64{2, 6, 10}, y)

	x, y = PairedValues(rows, "b", "c")
	assert.Equal(t, []float64{6, 8, 10}, x)
	assert.Equal(t, []float64{7, 9, 11}, y)

	pairs := CorrelationMatrix(rows, []string{"a", "b", "c"})
	require.Len(t, pairs, 3)
	byKey := map[string]CorrelationPair{}
	for _, p := range pairs {
		byKey[p.ColumnX+"|"+p.ColumnY] = p
	}
	assert.Equal(t, 3, byKey["a|b"].N)
	assert.Equal(t, 3, byKey["a|c"].N)
	assert.Equal(t, 3, byKey["b|c"].N)
}

func TestCorrelationMatrixSortedByMagnitude(t *testing.T) {
	rows := []domain.Row{}
	for i := 0; i < 20; i++ {
		f := float64(i)
		rows = append(rows, domain.Row{
			"x":     f,
			"twice": 2 * f,
			"noise": float64((i * 7) % 5),
			"inv":   -f + float64(i%3),
		})
	}
	cols := []string{"x", "twice", "noise", "inv"}
	pairs := CorrelationMatrix(rows, cols)
	require.Len(t, pairs, 6)
	for i := 1; i < len(pairs); i++ {
		assert.GreaterOrEqual(t, abs(pairs[i-1].R), abs(pairs[i].R))
	}
	assert.Equal(t, "x", pairs[0].ColumnX)
	assert.Equal(t, "twice", pairs[0].ColumnY)
	assert.InDelta(t, 1.0, pairs[0].RSquared, 1e-9)
	assert.Equal(t, StrengthVeryStrong, pairs[0].Strength)
}

func TestDenseMatrix(t *testing.T) {
	cols := []string{"a", "b", "c"}
	pairs := []CorrelationPair{
		{ColumnX: "a", ColumnY: "b", R: 0.5},
		{ColumnX: "b", ColumnY: "c", R: -0.25},
		{ColumnX: "a", ColumnY: "zzz", R: 0.9},
	}
	m := DenseMatrix(cols, pairs)
	require.Len(t, m, 3)
	for i := range cols {
		assert.Equal(t, 1.0, m[i][i])
		for j := range cols {
			assert.Equal(t, m[i][j], m[j][i])
		}
	}
	assert.Equal(t, 0.5, m[0][1])
	assert.Equal(t, -0.25, m[2][1])
	assert.Equal(t, 0.0, m[0][2])
}

func TestProfiledNumericColumnsSkipIdentifiers(t *testing.T) {
	rows := []domain.Row{}
	for i := 0; i < 12; i++ {
		rows = append(rows, domain.Row{"participant": i, "h": float64(i) + 0.5, "w": float64(i * i)})
	}
	dataset := domain.Dataset{Columns: []string{"participant", "h", "w"}, Rows: rows}
	cols := profiling.NumericColumns(profiling.ProfileColumns(dataset))
	assert.Equal(t, []string{"h", "w"}, cols)
	pairs := CorrelationMatrix(dataset.Rows, cols)
	require.Len(t, pairs, 1)
	assert.Equal(t, "h", pairs[0].ColumnX)
	assert.Equal(t, "w", pairs[0].ColumnY)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
