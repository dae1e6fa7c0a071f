package structure

// StructuralFacts describe the experimental design inferred from a dataset
// without running any statistical test.
type StructuralFacts struct {
	IsPaired      bool     `json:"is_paired"`
	Factors       []string `json:"factors"`
	GroupVariable *string  `json:"group_variable"`
	GroupCount    int      `json:"group_count"`
}

// HasGroupVariable reports whether a usable grouping column was found
func (f StructuralFacts) HasGroupVariable() bool {
	return f.GroupVariable != nil && *f.GroupVariable != ""
}

// DatasetSummary carries the column inventory the recommender needs for the
// relationship, prediction and timeseries purposes.
type DatasetSummary struct {
	Size               int      `json:"size"`
	NumericColumns     []string `json:"numeric_columns"`
	CategoricalColumns []string `json:"categorical_columns"`
	BinaryColumns      []string `json:"binary_columns"`
	TemporalColumns    []string `json:"temporal_columns"`
}
