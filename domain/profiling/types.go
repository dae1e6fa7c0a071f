package profiling

import "statadvisor/domain/core"

// Row is one record of an uploaded dataset: column name to scalar cell.
// Cells are strings, numbers, or nil/empty for missing values.
type Row map[string]interface{}

// Dataset is an ordered column list plus its rows. Column order is significant:
// grouping-variable selection scans it and the first eligible column wins.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows
func (d Dataset) Len() int {
	return len(d.Rows)
}

// HasColumn reports whether the column is part of the dataset
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnKind represents the automatically detected column type
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
	KindMixed       ColumnKind = "mixed" // categorical with some numeric-looking values
)

// ColumnProfile is the profile of one column. It is computed once per dataset
// snapshot and never mutated; a new dataset gets a new set of profiles.
type ColumnProfile struct {
	Name          string          `json:"name"`
	Kind          ColumnKind      `json:"kind"`
	Count         int             `json:"count"`
	MissingCount  int             `json:"missing_count"`
	UniqueCount   int             `json:"unique_count"`
	IDLikelihood  IDLikelihood    `json:"id_likelihood"`
	Temporal      bool            `json:"temporal"`
	NumericStats  *NumericStats   `json:"numeric_stats,omitempty"`
	TopCategories []CategoryCount `json:"top_categories,omitempty"`
}

// IsNumeric reports whether the column can feed numeric analysis
func (p ColumnProfile) IsNumeric() bool {
	return p.Kind == KindNumeric && !p.IDLikelihood.IsID
}

// IsCategorical reports whether the column is a non-identifier categorical.
// Mixed columns (a minority of numeric-looking levels such as "0" next to
// "low"/"high") are categorical for grouping and factor detection.
func (p ColumnProfile) IsCategorical() bool {
	return (p.Kind == KindCategorical || p.Kind == KindMixed) && !p.IDLikelihood.IsID
}

// IDLikelihood is advisory: a column flagged as an identifier is excluded
// from grouping and correlation even when its values look numeric.
type IDLikelihood struct {
	IsID       bool    `json:"is_id"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason,omitempty"`
}

// NumericStats holds descriptive statistics over the valid numeric values.
// Skewness and Kurtosis are nil when the sample is too small or has zero spread.
type NumericStats struct {
	Mean         float64  `json:"mean"`
	Median       float64  `json:"median"`
	Std          float64  `json:"std"`
	Min          float64  `json:"min"`
	Max          float64  `json:"max"`
	Q1           float64  `json:"q1"`
	Q3           float64  `json:"q3"`
	Skewness     *float64 `json:"skewness,omitempty"`
	Kurtosis     *float64 `json:"kurtosis,omitempty"`
	OutlierCount int      `json:"outlier_count"`
}

// CategoryCount is one frequent value of a categorical column
type CategoryCount struct {
	Value string  `json:"value"`
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
}

// OutlierDetail is one value outside the 1.5·IQR fences
type OutlierDetail struct {
	Value     float64 `json:"value"`
	RowIndex  int     `json:"row_index"` // 1-based
	IsExtreme bool    `json:"is_extreme"`
}

// OutlierStatistics are the quartiles and fences behind an outlier report
type OutlierStatistics struct {
	Min               float64  `json:"min"`
	Q1                float64  `json:"q1"`
	Median            float64  `json:"median"`
	Q3                float64  `json:"q3"`
	Max               float64  `json:"max"`
	Mean              *float64 `json:"mean,omitempty"`
	IQR               float64  `json:"iqr"`
	LowerBound        float64  `json:"lower_bound"`
	UpperBound        float64  `json:"upper_bound"`
	ExtremeLowerBound float64  `json:"extreme_lower_bound"`
	ExtremeUpperBound float64  `json:"extreme_upper_bound"`
}

// OutlierReport is the on-demand outlier view of a single numeric column
type OutlierReport struct {
	Column     string            `json:"column"`
	Outliers   []OutlierDetail   `json:"outliers"`
	Statistics OutlierStatistics `json:"statistics"`
}

// ProfilingConfig defines the profiling parameters
type ProfilingConfig struct {
	SampleSize        int     `json:"sample_size"`        // rows sampled for type inference
	TemporalThreshold float64 `json:"temporal_threshold"` // share of values that must parse as dates
	IDUniqueRatio     float64 `json:"id_unique_ratio"`    // uniqueness above which text columns look like IDs
	IDMinValues       int     `json:"id_min_values"`      // minimum values before uniqueness counts as ID evidence
	TopCategories     int     `json:"top_categories"`
}

// DefaultProfilingConfig returns sensible defaults
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		SampleSize:        10000,
		TemporalThreshold: 0.8,
		IDUniqueRatio:     0.95,
		IDMinValues:       10,
		TopCategories:     5,
	}
}

// Fingerprint identifies this snapshot of the dataset
func (d Dataset) Fingerprint() core.DatasetFingerprint {
	rows := make([]map[string]interface{}, len(d.Rows))
	for i, r := range d.Rows {
		rows[i] = r
	}
	return core.ComputeDatasetFingerprint(d.Columns, rows)
}
