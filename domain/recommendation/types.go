package recommendation

import (
	"fmt"
	"strings"
)

// Purpose is the analysis goal declared by the user
type Purpose string

const (
	PurposeCompare      Purpose = "compare"
	PurposeRelationship Purpose = "relationship"
	PurposeDistribution Purpose = "distribution"
	PurposePrediction   Purpose = "prediction"
	PurposeTimeseries   Purpose = "timeseries"
)

// Purposes lists every supported purpose in display order
var Purposes = []Purpose{
	PurposeCompare,
	PurposeRelationship,
	PurposeDistribution,
	PurposePrediction,
	PurposeTimeseries,
}

// ParsePurpose accepts a purpose name case-insensitively
func ParsePurpose(s string) (Purpose, error) {
	p := Purpose(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Purposes {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown purpose %q", s)
}

// Category groups catalog methods
type Category string

const (
	CategoryDescriptive   Category = "descriptive"
	CategoryParametric    Category = "parametric"
	CategoryNonparametric Category = "nonparametric"
	CategoryCorrelation   Category = "correlation"
	CategoryRegression    Category = "regression"
	CategoryTimeseries    Category = "timeseries"
	CategoryCategorical   Category = "categorical"
	CategoryMultivariate  Category = "multivariate"
	CategoryReliability   Category = "reliability"
)

// Requirements are the documented preconditions of a method
type Requirements struct {
	MinSampleSize int      `json:"min_sample_size" yaml:"min_sample_size"`
	Assumptions   []string `json:"assumptions" yaml:"assumptions"`
}

// MethodDescriptor is one read-only catalog entry
type MethodDescriptor struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Description  string        `json:"description" yaml:"description"`
	Category     Category      `json:"category" yaml:"category"`
	Requirements *Requirements `json:"requirements,omitempty" yaml:"requirements,omitempty"`
}

// RequiresNormality reports whether the method lists normality as a precondition
func (m MethodDescriptor) RequiresNormality() bool {
	if m.Requirements == nil {
		return false
	}
	for _, a := range m.Requirements.Assumptions {
		if a == "normality" {
			return true
		}
	}
	return false
}

// AssumptionCheck records one assumption test that was actually computed
type AssumptionCheck struct {
	Name   string   `json:"name"`
	Passed bool     `json:"passed"`
	PValue *float64 `json:"p_value,omitempty"`
}

// Recommendation is a fresh, fully derived value; it is never mutated in place
type Recommendation struct {
	Method             MethodDescriptor   `json:"method"`
	Confidence         float64            `json:"confidence"`
	Reasoning          []string           `json:"reasoning"`
	AssumptionsChecked []AssumptionCheck  `json:"assumptions_checked"`
	Alternatives       []MethodDescriptor `json:"alternatives"`
	Branch             string             `json:"branch"`
}

// Clone returns a descriptor that shares no memory with m
func (m MethodDescriptor) Clone() MethodDescriptor {
	if m.Requirements != nil {
		req := *m.Requirements
		req.Assumptions = cloneSlice(m.Requirements.Assumptions)
		m.Requirements = &req
	}
	return m
}

// Clone returns a recommendation that shares no memory with r
func (r Recommendation) Clone() Recommendation {
	r.Method = r.Method.Clone()
	r.Reasoning = cloneSlice(r.Reasoning)
	if r.Alternatives != nil {
		alts := make([]MethodDescriptor, len(r.Alternatives))
		for i, alt := range r.Alternatives {
			alts[i] = alt.Clone()
		}
		r.Alternatives = alts
	}
	if r.AssumptionsChecked != nil {
		checks := make([]AssumptionCheck, len(r.AssumptionsChecked))
		for i, c := range r.AssumptionsChecked {
			if c.PValue != nil {
				p := *c.PValue
				c.PValue = &p
			}
			checks[i] = c
		}
		r.AssumptionsChecked = checks
	}
	return r
}

// cloneSlice copies s, keeping nil and empty distinct
func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
