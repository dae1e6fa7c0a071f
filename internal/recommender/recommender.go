// Package recommender picks a statistical method from assumption evidence and
// structural facts. Every call re-derives its answer from the inputs alone.
package recommender

import (
	"fmt"

	"statadvisor/domain/assumption"
	"statadvisor/domain/recommendation"
	"statadvisor/domain/structure"
	"statadvisor/internal"
	"statadvisor/internal/catalog"
	apperrors "statadvisor/internal/errors"
)

var fallbackAlternatives = []string{"frequency-analysis", "normality-assessment"}

// Recommender evaluates a decision table against a method catalog
type Recommender struct {
	catalog *catalog.Catalog
	rules   RuleTable
	logger  *internal.Logger
}

// New validates that every method the default table can emit exists in the catalog
func New(c *catalog.Catalog, logger *internal.Logger) (*Recommender, error) {
	return NewWithRules(c, DefaultRules(), logger)
}

// NewWithRules builds a recommender over a custom decision table
func NewWithRules(c *catalog.Catalog, rules RuleTable, logger *internal.Logger) (*Recommender, error) {
	if c == nil {
		return nil, apperrors.CatalogInvalid("method catalog is required")
	}
	if err := c.Validate(rules.ReferencedMethodIDs()); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Recommender{catalog: c, rules: rules, logger: logger.Named("recommender")}, nil
}

// Recommend returns the method for purpose given whatever evidence exists.
// It never fails: internal errors degrade to the descriptive fallback.
func (r *Recommender) Recommend(
	purpose recommendation.Purpose,
	assumptions *assumption.Result,
	facts structure.StructuralFacts,
	summary structure.DatasetSummary,
) recommendation.Recommendation {
	return r.evaluate(purpose, Situation{
		Normal:        assumptions.Normal(),
		EqualVariance: assumptions.EqualVariance(),
		Assumptions:   assumptions,
		Facts:         facts,
		Summary:       summary,
	})
}

// RecommendWithoutAssumptions is used when assumption testing was skipped.
// All evidence is absent, so every branch resolves to its robust or rank-based side.
func (r *Recommender) RecommendWithoutAssumptions(
	purpose recommendation.Purpose,
	facts structure.StructuralFacts,
	summary structure.DatasetSummary,
) recommendation.Recommendation {
	return r.evaluate(purpose, Situation{
		Normal:        assumption.Unknown[bool](),
		EqualVariance: assumption.Unknown[bool](),
		Facts:         facts,
		Summary:       summary,
		Conservative:  true,
	})
}

func (r *Recommender) evaluate(purpose recommendation.Purpose, s Situation) (rec recommendation.Recommendation) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("recommendation for %q failed: %v", purpose, p)
			rec = r.errorFallback(purpose, s, p)
		}
	}()

	rule, ok := r.rules.Match(purpose, s)
	if !ok {
		r.logger.Debug("no rule matched purpose %q", purpose)
		return r.noMatchFallback(purpose, s)
	}
	r.logger.Debug("purpose %q matched branch %s [%s]", purpose, rule.Branch, rule.When.Tag)
	return r.build(rule, s, nil)
}

func (r *Recommender) build(rule Rule, s Situation, lead []string) recommendation.Recommendation {
	method := r.mustMethod(rule.Method)

	reasoning := make([]string, 0, 8)
	reasoning = append(reasoning, lead...)
	if s.Conservative {
		reasoning = append(reasoning, conservativeLine)
	}
	reasoning = append(reasoning, expand(rule.Reason, s))
	reasoning = append(reasoning, designLines(rule, s)...)
	if !s.Conservative {
		reasoning = append(reasoning, evidenceLines(rule.Reports, s)...)
	}
	if w := sampleSizeWarning(s.Summary.Size); w != "" {
		reasoning = append(reasoning, w)
	}

	return recommendation.Recommendation{
		Method:             method,
		Confidence:         rule.Confidence,
		Reasoning:          reasoning,
		AssumptionsChecked: checkedAssumptions(s.Assumptions),
		Alternatives:       r.alternatives(rule.Method, rule.Alternatives),
		Branch:             rule.Branch,
	}
}

func (r *Recommender) noMatchFallback(purpose recommendation.Purpose, s Situation) recommendation.Recommendation {
	return r.build(Rule{
		Branch:       branchNoMatch,
		Method:       fallbackMethod,
		Confidence:   fallbackConfidence,
		Alternatives: fallbackAlternatives,
		Reason:       fmt.Sprintf("Purpose %q is not recognised; descriptive statistics summarise the data without testing a hypothesis", purpose),
	}, s, nil)
}

// errorFallback must not panic; it avoids the rule table and the situation's
// derived fields and reads only catalog entries validated at construction.
func (r *Recommender) errorFallback(purpose recommendation.Purpose, s Situation, cause interface{}) recommendation.Recommendation {
	method, _ := r.catalog.Get(fallbackMethod)
	reasoning := []string{
		fmt.Sprintf("An internal error occurred while evaluating the %q analysis: %v", purpose, cause),
		"Falling back to descriptive statistics until the problem is resolved",
	}
	if w := sampleSizeWarning(s.Summary.Size); w != "" {
		reasoning = append(reasoning, w)
	}
	alternatives := make([]recommendation.MethodDescriptor, 0, len(fallbackAlternatives))
	for _, id := range fallbackAlternatives {
		if m, ok := r.catalog.Get(id); ok {
			alternatives = append(alternatives, m)
		}
	}
	return recommendation.Recommendation{
		Method:             method,
		Confidence:         fallbackConfidence,
		Reasoning:          reasoning,
		AssumptionsChecked: []recommendation.AssumptionCheck{},
		Alternatives:       alternatives,
		Branch:             branchError,
	}
}

func (r *Recommender) mustMethod(id string) recommendation.MethodDescriptor {
	m, ok := r.catalog.Get(id)
	if !ok {
		panic(fmt.Sprintf("method %q missing from catalog %s", id, r.catalog.Version()))
	}
	return m
}

func (r *Recommender) alternatives(primary string, ids []string) []recommendation.MethodDescriptor {
	out := make([]recommendation.MethodDescriptor, 0, len(ids))
	for _, id := range ids {
		if id == primary {
			continue
		}
		out = append(out, r.mustMethod(id))
	}
	if len(out) == 0 && primary != fallbackMethod {
		out = append(out, r.mustMethod(fallbackMethod))
	}
	return out
}

// Catalog exposes the catalog the recommender was validated against
func (r *Recommender) Catalog() *catalog.Catalog {
	return r.catalog
}
