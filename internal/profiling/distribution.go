package profiling

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	gonumstat "gonum.org/v1/gonum/stat"

	domain "statadvisor/domain/profiling"
)

const (
	outlierFence = 1.5
	extremeFence = 3.0
)

// Percentile returns the p-quantile (0..1) of an ascending-sorted sample by
// linear interpolation at index (n-1)*p. The sample must not be empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	index := float64(n-1) * p
	lower := math.Floor(index)
	upper := math.Ceil(index)
	if lower == upper {
		return sorted[int(lower)]
	}
	weight := index - lower
	return sorted[int(lower)]*(1-weight) + sorted[int(upper)]*weight
}

// Fences are the IQR outlier thresholds of a sample
type Fences struct {
	Q1, Median, Q3 float64
	IQR            float64
	Lower, Upper   float64
	ExtremeLower   float64
	ExtremeUpper   float64
}

// ComputeFences derives quartiles and the 1.5·IQR / 3.0·IQR bounds from a sorted sample
func ComputeFences(sorted []float64) Fences {
	q1 := Percentile(sorted, 0.25)
	q3 := Percentile(sorted, 0.75)
	iqr := q3 - q1
	return Fences{
		Q1:           q1,
		Median:       Percentile(sorted, 0.5),
		Q3:           q3,
		IQR:          iqr,
		Lower:        q1 - outlierFence*iqr,
		Upper:        q3 + outlierFence*iqr,
		ExtremeLower: q1 - extremeFence*iqr,
		ExtremeUpper: q3 + extremeFence*iqr,
	}
}

// IsOutlier reports whether v falls outside the 1.5·IQR fences
func (f Fences) IsOutlier(v float64) bool {
	return v < f.Lower || v > f.Upper
}

// IsExtreme reports whether v falls outside the 3.0·IQR fences
func (f Fences) IsExtreme(v float64) bool {
	return v < f.ExtremeLower || v > f.ExtremeUpper
}

// Describe computes descriptive statistics for a numeric sample. It returns
// nil for an empty sample instead of an error.
func Describe(values []float64) *domain.NumericStats {
	if len(values) == 0 {
		return nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean, err := stats.Mean(sorted)
	if err != nil {
		return nil
	}
	std, err := stats.StandardDeviationPopulation(sorted)
	if err != nil {
		return nil
	}
	minV, _ := stats.Min(sorted)
	maxV, _ := stats.Max(sorted)

	fences := ComputeFences(sorted)
	outliers := 0
	for _, v := range sorted {
		if fences.IsOutlier(v) {
			outliers++
		}
	}

	return &domain.NumericStats{
		Mean:         mean,
		Median:       fences.Median,
		Std:          std,
		Min:          minV,
		Max:          maxV,
		Q1:           fences.Q1,
		Q3:           fences.Q3,
		Skewness:     skewness(sorted, std),
		Kurtosis:     excessKurtosis(sorted, std),
		OutlierCount: outliers,
	}
}

// skewness is the standardized third central moment; undefined below 3 values or with zero spread
func skewness(values []float64, std float64) *float64 {
	if len(values) < 3 || std == 0 {
		return nil
	}
	s := gonumstat.Moment(3, values, nil) / math.Pow(std, 3)
	return &s
}

// excessKurtosis is the standardized fourth central moment minus 3; undefined below 4 values or with zero spread
func excessKurtosis(values []float64, std float64) *float64 {
	if len(values) < 4 || std == 0 {
		return nil
	}
	k := gonumstat.Moment(4, values, nil)/math.Pow(std, 4) - 3
	return &k
}
