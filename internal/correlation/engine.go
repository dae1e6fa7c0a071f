// Package correlation computes pairwise Pearson correlations between numeric
// columns with pairwise deletion of missing values.
package correlation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	domain "statadvisor/domain/profiling"
	"statadvisor/internal/profiling"
)

// Strength is the verbal band of |r|
type Strength string

const (
	StrengthVeryStrong Strength = "very_strong"
	StrengthStrong     Strength = "strong"
	StrengthMedium     Strength = "medium"
	StrengthWeak       Strength = "weak"
)

// CorrelationPair is the correlation of one unordered column pair
type CorrelationPair struct {
	ColumnX  string   `json:"column_x"`
	ColumnY  string   `json:"column_y"`
	R        float64  `json:"r"`
	RSquared float64  `json:"r_squared"`
	N        int      `json:"n"`
	Strength Strength `json:"strength"`
}

// ClassifyStrength buckets a coefficient into four bands
func ClassifyStrength(r float64) Strength {
	abs := math.Abs(r)
	switch {
	case abs >= 0.7:
		return StrengthVeryStrong
	case abs >= 0.5:
		return StrengthStrong
	case abs >= 0.3:
		return StrengthMedium
	default:
		return StrengthWeak
	}
}

// CalculateCorrelation returns Pearson's r from the sum-of-products formula.
// It is 0 when fewer than two pairs exist or either side has no variance.
// The inputs must have equal length.
func CalculateCorrelation(x, y []float64) float64 {
	n := len(x)
	if n < 2 || len(y) != n {
		return 0
	}
	fn := float64(n)
	sumX := floats.Sum(x)
	sumY := floats.Sum(y)
	sumXY := floats.Dot(x, y)
	sumX2 := floats.Dot(x, x)
	sumY2 := floats.Dot(y, y)

	numerator := fn*sumXY - sumX*sumY
	denominator := math.Sqrt((fn*sumX2 - sumX*sumX) * (fn*sumY2 - sumY*sumY))
	if denominator == 0 || math.IsNaN(denominator) {
		return 0
	}
	r := numerator / denominator
	// Rounding can push |r| a hair past 1 for perfectly collinear data.
	return math.Max(-1, math.Min(1, r))
}

// PairedValues extracts row-aligned values of two columns, keeping a row only
// when both cells are valid numbers. Other pairs do not affect the selection.
func PairedValues(rows []domain.Row, colX, colY string) (x, y []float64) {
	for _, row := range rows {
		vx, okX := profiling.CellFloat(row[colX])
		if !okX {
			continue
		}
		vy, okY := profiling.CellFloat(row[colY])
		if !okY {
			continue
		}
		x = append(x, vx)
		y = append(y, vy)
	}
	return x, y
}

// CorrelationMatrix correlates every unordered pair of the given numeric
// columns and returns the pairs sorted by descending |r|. Ties keep column order.
func CorrelationMatrix(rows []domain.Row, numericColumns []string) []CorrelationPair {
	pairs := make([]CorrelationPair, 0, len(numericColumns)*(len(numericColumns)-1)/2+1)
	for i := 0; i < len(numericColumns); i++ {
		for j := i + 1; j < len(numericColumns); j++ {
			x, y := PairedValues(rows, numericColumns[i], numericColumns[j])
			r := CalculateCorrelation(x, y)
			pairs = append(pairs, CorrelationPair{
				ColumnX:  numericColumns[i],
				ColumnY:  numericColumns[j],
				R:        r,
				RSquared: r * r,
				N:        len(x),
				Strength: ClassifyStrength(r),
			})
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return math.Abs(pairs[a].R) > math.Abs(pairs[b].R)
	})
	return pairs
}

// DenseMatrix lays the pair list out as a symmetric matrix with a unit
// diagonal, indexed in the order of columns. Pairs naming unknown columns are ignored.
func DenseMatrix(columns []string, pairs []CorrelationPair) [][]float64 {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	matrix := make([][]float64, len(columns))
	for i := range matrix {
		matrix[i] = make([]float64, len(columns))
		matrix[i][i] = 1
	}
	for _, p := range pairs {
		i, okI := index[p.ColumnX]
		j, okJ := index[p.ColumnY]
		if !okI || !okJ || i == j {
			continue
		}
		matrix[i][j] = p.R
		matrix[j][i] = p.R
	}
	return matrix
}
