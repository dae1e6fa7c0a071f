// Package structure infers the shape of an experimental design from column
// profiles and raw rows. No statistical test is run here.
package structure

import (
	domain "statadvisor/domain/profiling"
	"statadvisor/domain/structure"
	"statadvisor/internal/profiling"
)

// Factor levels outside this range do not make a usable grouping column.
const (
	MinGroupLevels = 2
	MaxGroupLevels = 10
)

// PairedRepeatShare is the share of identifier values that must repeat before
// the design counts as paired. Kept as the documented heuristic threshold.
const PairedRepeatShare = 0.5

func isEligibleFactor(p domain.ColumnProfile) bool {
	return p.IsCategorical() && p.UniqueCount >= MinGroupLevels && p.UniqueCount <= MaxGroupLevels
}

// DetectPairedDesign looks at the first identifier column and reports a
// paired design when more than half of its distinct values occur more than once.
func DetectPairedDesign(rows []domain.Row, profiles []domain.ColumnProfile) bool {
	idColumn := ""
	for _, p := range profiles {
		if p.IDLikelihood.IsID {
			idColumn = p.Name
			break
		}
	}
	if idColumn == "" {
		return false
	}

	counts := make(map[string]int)
	for _, row := range rows {
		if key, ok := profiling.CellKey(row[idColumn]); ok {
			counts[key]++
		}
	}
	if len(counts) == 0 {
		return false
	}
	repeated := 0
	for _, c := range counts {
		if c > 1 {
			repeated++
		}
	}
	return float64(repeated)/float64(len(counts)) > PairedRepeatShare
}

// DetectFactors returns every categorical, non-identifier column with 2..10 levels, in column order
func DetectFactors(profiles []domain.ColumnProfile) []string {
	factors := []string{}
	for _, p := range profiles {
		if isEligibleFactor(p) {
			factors = append(factors, p.Name)
		}
	}
	return factors
}

// FindGroupVariable returns the first eligible factor in column order, or nil.
// First match wins; later columns are never preferred even with more levels.
func FindGroupVariable(profiles []domain.ColumnProfile) *string {
	for _, p := range profiles {
		if isEligibleFactor(p) {
			name := p.Name
			return &name
		}
	}
	return nil
}

// DetectGroupCount returns the number of levels of the group variable, or 0
func DetectGroupCount(profiles []domain.ColumnProfile, groupVariable *string) int {
	if groupVariable == nil {
		return 0
	}
	if p, ok := profiling.Find(profiles, *groupVariable); ok {
		return p.UniqueCount
	}
	return 0
}

// Detect derives all structural facts for a dataset snapshot
func Detect(rows []domain.Row, profiles []domain.ColumnProfile) structure.StructuralFacts {
	group := FindGroupVariable(profiles)
	return structure.StructuralFacts{
		IsPaired:      DetectPairedDesign(rows, profiles),
		Factors:       DetectFactors(profiles),
		GroupVariable: group,
		GroupCount:    DetectGroupCount(profiles, group),
	}
}

// Summarize builds the column inventory used by non-comparison purposes
func Summarize(rows []domain.Row, profiles []domain.ColumnProfile) structure.DatasetSummary {
	summary := structure.DatasetSummary{
		Size:               len(rows),
		NumericColumns:     profiling.NumericColumns(profiles),
		CategoricalColumns: profiling.CategoricalColumns(profiles),
	}
	for _, p := range profiles {
		if p.IDLikelihood.IsID {
			continue
		}
		if p.IsCategorical() && p.UniqueCount == 2 {
			summary.BinaryColumns = append(summary.BinaryColumns, p.Name)
		}
		if p.Temporal {
			summary.TemporalColumns = append(summary.TemporalColumns, p.Name)
		}
	}
	return summary
}
