// Package profiling classifies dataset columns and computes descriptive
// statistics and IQR outliers. Every function here is pure: the same rows
// always give the same profiles, and nothing is cached between calls.
package profiling

import (
	"sort"

	domain "statadvisor/domain/profiling"
)

// Profiler computes column profiles with a fixed configuration
type Profiler struct {
	config domain.ProfilingConfig
}

// NewProfiler creates a profiler; zero-valued config fields fall back to defaults
func NewProfiler(config domain.ProfilingConfig) *Profiler {
	def := domain.DefaultProfilingConfig()
	if config.SampleSize <= 0 {
		config.SampleSize = def.SampleSize
	}
	if config.TemporalThreshold <= 0 {
		config.TemporalThreshold = def.TemporalThreshold
	}
	if config.IDUniqueRatio <= 0 {
		config.IDUniqueRatio = def.IDUniqueRatio
	}
	if config.IDMinValues <= 0 {
		config.IDMinValues = def.IDMinValues
	}
	if config.TopCategories <= 0 {
		config.TopCategories = def.TopCategories
	}
	return &Profiler{config: config}
}

// ProfileColumns profiles a dataset with the default configuration
func ProfileColumns(dataset domain.Dataset) []domain.ColumnProfile {
	return NewProfiler(domain.DefaultProfilingConfig()).ProfileColumns(dataset)
}

// ProfileColumns returns one profile per column, in column order
func (p *Profiler) ProfileColumns(dataset domain.Dataset) []domain.ColumnProfile {
	profiles := make([]domain.ColumnProfile, 0, len(dataset.Columns))
	for _, col := range dataset.Columns {
		profiles = append(profiles, p.profileColumn(col, dataset.Rows))
	}
	return profiles
}

func (p *Profiler) profileColumn(name string, rows []domain.Row) domain.ColumnProfile {
	profile := domain.ColumnProfile{Name: name}

	freq := make(map[string]int)
	var order []string
	var numbers []float64
	for _, row := range rows {
		v := row[name]
		if isMissing(v) {
			profile.MissingCount++
			continue
		}
		profile.Count++
		key := valueKey(v)
		if freq[key] == 0 {
			order = append(order, key)
		}
		freq[key]++
		if f, ok := toFloat(v); ok {
			numbers = append(numbers, f)
		}
	}
	profile.UniqueCount = len(freq)

	// Type inference runs on the sample; statistics use every row.
	sample := rows
	if len(sample) > p.config.SampleSize {
		sample = sample[:p.config.SampleSize]
	}
	present, numeric, temporal := 0, 0, 0
	for _, row := range sample {
		v := row[name]
		if isMissing(v) {
			continue
		}
		present++
		if _, ok := toFloat(v); ok {
			numeric++
		} else if looksLikeTime(v) {
			temporal++
		}
	}
	numericMost := present > 0 && numeric*2 > present
	profile.Temporal = present > 0 && float64(temporal)/float64(present) >= p.config.TemporalThreshold

	profile.IDLikelihood = detectIdentifier(idEvidence{
		name:        name,
		present:     profile.Count,
		unique:      profile.UniqueCount,
		numericMost: numericMost,
		temporal:    profile.Temporal,
		numbers:     numbers,
	}, p.config)

	switch {
	case profile.IDLikelihood.IsID:
		profile.Kind = domain.KindCategorical
	case numericMost:
		profile.Kind = domain.KindNumeric
	case numeric > 0:
		profile.Kind = domain.KindMixed
	default:
		profile.Kind = domain.KindCategorical
	}

	if profile.Kind == domain.KindNumeric {
		profile.NumericStats = Describe(numbers)
	} else {
		profile.TopCategories = topCategories(freq, order, profile.Count, p.config.TopCategories)
	}

	return profile
}

// topCategories orders by count descending, then by first appearance
func topCategories(freq map[string]int, order []string, total, limit int) []domain.CategoryCount {
	if total == 0 {
		return nil
	}
	ranked := append([]string(nil), order...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return freq[ranked[i]] > freq[ranked[j]]
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]domain.CategoryCount, 0, len(ranked))
	for _, v := range ranked {
		out = append(out, domain.CategoryCount{
			Value: v,
			Count: freq[v],
			Ratio: float64(freq[v]) / float64(total),
		})
	}
	return out
}

// NumericColumns returns the names of numeric, non-identifier columns in column order
func NumericColumns(profiles []domain.ColumnProfile) []string {
	var out []string
	for _, p := range profiles {
		if p.IsNumeric() {
			out = append(out, p.Name)
		}
	}
	return out
}

// CategoricalColumns returns the names of categorical, non-identifier columns in column order
func CategoricalColumns(profiles []domain.ColumnProfile) []string {
	var out []string
	for _, p := range profiles {
		if p.IsCategorical() {
			out = append(out, p.Name)
		}
	}
	return out
}

// Find returns the profile of a column
func Find(profiles []domain.ColumnProfile, name string) (domain.ColumnProfile, bool) {
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}
	return domain.ColumnProfile{}, false
}
