package assumption

import (
	"statadvisor/domain/assumption"
	domain "statadvisor/domain/profiling"
	"statadvisor/internal/profiling"
)

// BuildRequest translates a dataset column (and optional grouping column)
// into the backend contract. ok is false when neither normality nor
// homogeneity can be requested; that is a designed no-op, not an error.
func BuildRequest(rows []domain.Row, valueColumn, groupColumn string, alpha float64) (req assumption.Request, ok bool) {
	if alpha <= 0 || alpha >= 1 {
		alpha = assumption.DefaultAlpha
	}
	req = assumption.Request{
		Alpha:         alpha,
		NormalityRule: assumption.RuleAny,
	}
	if valueColumn == "" {
		return req, false
	}

	values, _ := profiling.ColumnValues(rows, valueColumn)
	if len(values) >= 3 {
		req.Values = values
	}

	if groupColumn != "" && groupColumn != valueColumn {
		if groups := splitGroups(rows, valueColumn, groupColumn); len(groups) >= 2 {
			req.Groups = groups
		}
	}

	return req, req.HasValues() || req.HasGroups()
}

// splitGroups partitions the valid values of valueColumn by the levels of
// groupColumn in order of first appearance. Rows with a missing level and
// levels without any valid value are dropped.
func splitGroups(rows []domain.Row, valueColumn, groupColumn string) [][]float64 {
	index := make(map[string]int)
	var groups [][]float64
	for _, row := range rows {
		level, ok := profiling.CellKey(row[groupColumn])
		if !ok {
			continue
		}
		v, ok := profiling.CellFloat(row[valueColumn])
		if !ok {
			continue
		}
		i, seen := index[level]
		if !seen {
			i = len(groups)
			index[level] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], v)
	}
	return groups
}

// NormalizeNormality converts the raw normality payload into a typed leaf.
// A missing isNormal is derived from the p-value; with neither the leaf is absent.
func NormalizeNormality(p *assumption.NormalityPayload, alpha float64) *assumption.ShapiroWilk {
	if p == nil || p.ShapiroWilk == nil {
		return nil
	}
	sw := p.ShapiroWilk
	out := &assumption.ShapiroWilk{Statistic: sw.Statistic, PValue: sw.PValue}
	switch {
	case sw.IsNormal != nil:
		out.IsNormal = *sw.IsNormal
	case sw.PValue != nil:
		out.IsNormal = *sw.PValue > alpha
	default:
		return nil
	}
	return out
}

// NormalizeHomogeneity converts the raw homogeneity payload into a typed leaf
func NormalizeHomogeneity(p *assumption.HomogeneityPayload, alpha float64) *assumption.Levene {
	if p == nil || p.Levene == nil {
		return nil
	}
	lv := p.Levene
	out := &assumption.Levene{Statistic: lv.Statistic, PValue: lv.PValue}
	switch {
	case lv.EqualVariance != nil:
		out.EqualVariance = *lv.EqualVariance
	case lv.PValue != nil:
		out.EqualVariance = *lv.PValue > alpha
	default:
		return nil
	}
	return out
}

// NormalizeResponse converts a combined backend response; nil when nothing usable came back
func NormalizeResponse(resp *assumption.Response, alpha float64) *assumption.Result {
	if resp == nil {
		return nil
	}
	return assemble(NormalizeNormality(resp.Normality, alpha), NormalizeHomogeneity(resp.Homogeneity, alpha))
}

func assemble(sw *assumption.ShapiroWilk, lv *assumption.Levene) *assumption.Result {
	if sw == nil && lv == nil {
		return nil
	}
	result := &assumption.Result{}
	if sw != nil {
		result.Normality = &assumption.Normality{ShapiroWilk: sw}
	}
	if lv != nil {
		result.Homogeneity = &assumption.Homogeneity{Levene: lv}
	}
	return result
}
