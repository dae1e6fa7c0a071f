package assumption

// ShapiroWilk is a normalized normality outcome. Statistic and PValue are
// nil when the backend omitted them; IsNormal is always resolved.
type ShapiroWilk struct {
	Statistic *float64 `json:"statistic,omitempty"`
	PValue    *float64 `json:"pValue,omitempty"`
	IsNormal  bool     `json:"isNormal"`
}

// Levene is a normalized homogeneity-of-variance outcome
type Levene struct {
	Statistic     *float64 `json:"statistic,omitempty"`
	PValue        *float64 `json:"pValue,omitempty"`
	EqualVariance bool     `json:"equalVariance"`
}

// Normality groups the normality sub-results
type Normality struct {
	ShapiroWilk *ShapiroWilk `json:"shapiroWilk,omitempty"`
}

// Homogeneity groups the homogeneity sub-results
type Homogeneity struct {
	Levene *Levene `json:"levene,omitempty"`
}

// Result holds independently optional assumption outcomes. Each leaf is
// produced by a separate backend call and can be missing on its own.
type Result struct {
	Normality   *Normality   `json:"normality,omitempty"`
	Homogeneity *Homogeneity `json:"homogeneity,omitempty"`
}

// ShapiroWilkEvidence returns the normality leaf; safe on a nil Result
func (r *Result) ShapiroWilkEvidence() Evidence[ShapiroWilk] {
	if r == nil || r.Normality == nil || r.Normality.ShapiroWilk == nil {
		return Unknown[ShapiroWilk]()
	}
	return Known(*r.Normality.ShapiroWilk)
}

// LeveneEvidence returns the homogeneity leaf; safe on a nil Result
func (r *Result) LeveneEvidence() Evidence[Levene] {
	if r == nil || r.Homogeneity == nil || r.Homogeneity.Levene == nil {
		return Unknown[Levene]()
	}
	return Known(*r.Homogeneity.Levene)
}

// Normal returns the normality verdict as evidence
func (r *Result) Normal() Evidence[bool] {
	sw, ok := r.ShapiroWilkEvidence().Get()
	if !ok {
		return Unknown[bool]()
	}
	return Known(sw.IsNormal)
}

// EqualVariance returns the homogeneity verdict as evidence
func (r *Result) EqualVariance() Evidence[bool] {
	lv, ok := r.LeveneEvidence().Get()
	if !ok {
		return Unknown[bool]()
	}
	return Known(lv.EqualVariance)
}

// IsEmpty reports whether no leaf was computed at all
func (r *Result) IsEmpty() bool {
	return !r.ShapiroWilkEvidence().Known() && !r.LeveneEvidence().Known()
}
