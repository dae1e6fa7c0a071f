package recommender

import (
	"strconv"
	"strings"

	"statadvisor/domain/assumption"
	"statadvisor/domain/recommendation"
	"statadvisor/domain/structure"
)

// Situation is everything a guard may look at. It is rebuilt on every call.
type Situation struct {
	Normal        assumption.Evidence[bool]
	EqualVariance assumption.Evidence[bool]
	Assumptions   *assumption.Result
	Facts         structure.StructuralFacts
	Summary       structure.DatasetSummary
	Conservative  bool
}

// Guard is a tagged condition. Tags show up in traces and tests.
type Guard struct {
	Tag  string
	Test func(Situation) bool
}

// Evidence names used by Rule.Reports
const (
	reportNormality   = "normality"
	reportHomogeneity = "homogeneity"
)

// Rule is one guard/branch pair. Within a purpose, the first rule whose
// guard holds decides the recommendation.
type Rule struct {
	Branch       string
	When         Guard
	Method       string
	Confidence   float64
	Alternatives []string
	Reason       string
	Reports      []string
}

// RuleTable maps each purpose onto its ordered rules
type RuleTable map[recommendation.Purpose][]Rule

func allOf(guards ...Guard) Guard {
	tags := make([]string, len(guards))
	for i, g := range guards {
		tags[i] = g.Tag
	}
	return Guard{
		Tag: strings.Join(tags, " & "),
		Test: func(s Situation) bool {
			for _, g := range guards {
				if !g.Test(s) {
					return false
				}
			}
			return true
		},
	}
}

func anyOf(guards ...Guard) Guard {
	tags := make([]string, len(guards))
	for i, g := range guards {
		tags[i] = g.Tag
	}
	return Guard{
		Tag: "(" + strings.Join(tags, " | ") + ")",
		Test: func(s Situation) bool {
			for _, g := range guards {
				if g.Test(s) {
					return true
				}
			}
			return false
		},
	}
}

// holds and fails are both false for unknown evidence
func holds(e assumption.Evidence[bool]) bool { return e.OrElse(false) }

func fails(e assumption.Evidence[bool]) bool { return !e.OrElse(true) }

var (
	always = Guard{Tag: "always", Test: func(Situation) bool { return true }}

	paired = Guard{Tag: "paired", Test: func(s Situation) bool { return s.Facts.IsPaired }}

	normal        = Guard{Tag: "normal", Test: func(s Situation) bool { return holds(s.Normal) }}
	nonNormal     = Guard{Tag: "non-normal", Test: func(s Situation) bool { return fails(s.Normal) }}
	equalVariance = Guard{Tag: "equal-variance", Test: func(s Situation) bool { return holds(s.EqualVariance) }}
	unequalVar    = Guard{Tag: "unequal-variance", Test: func(s Situation) bool { return fails(s.EqualVariance) }}

	hasBinary   = Guard{Tag: "binary-column", Test: func(s Situation) bool { return len(s.Summary.BinaryColumns) > 0 }}
	hasTemporal = Guard{Tag: "temporal-column", Test: func(s Situation) bool { return len(s.Summary.TemporalColumns) > 0 }}
)

func groupsExactly(n int) Guard {
	return Guard{Tag: "groups==" + strconv.Itoa(n), Test: func(s Situation) bool { return s.Facts.GroupCount == n }}
}

func groupsAtLeast(n int) Guard {
	return Guard{Tag: "groups>=" + strconv.Itoa(n), Test: func(s Situation) bool { return s.Facts.GroupCount >= n }}
}

func factorsExactly(n int) Guard {
	return Guard{Tag: "factors==" + strconv.Itoa(n), Test: func(s Situation) bool { return len(s.Facts.Factors) == n }}
}

func factorsAtLeast(n int) Guard {
	return Guard{Tag: "factors>=" + strconv.Itoa(n), Test: func(s Situation) bool { return len(s.Facts.Factors) >= n }}
}

func numericAtLeast(n int) Guard {
	return Guard{Tag: "numeric>=" + strconv.Itoa(n), Test: func(s Situation) bool { return len(s.Summary.NumericColumns) >= n }}
}

func numericExactly(n int) Guard {
	return Guard{Tag: "numeric==" + strconv.Itoa(n), Test: func(s Situation) bool { return len(s.Summary.NumericColumns) == n }}
}

func not(g Guard) Guard {
	return Guard{Tag: "!" + g.Tag, Test: func(s Situation) bool { return !g.Test(s) }}
}

// Rules that never consult assumption evidence stay at or below this
// confidence, like the branches whose evidence came back unknown.
const noEvidenceCap = 0.70

const (
	branchNoGroup = "compare.no-group"
	branchNoMatch = "no-match"
	branchError   = "error"

	fallbackMethod     = "descriptive-statistics"
	fallbackConfidence = 0.50
)

var both = []string{reportNormality, reportHomogeneity}
var normOnly = []string{reportNormality}

// DefaultRules is the production decision table
func DefaultRules() RuleTable {
	return RuleTable{
		recommendation.PurposeCompare:      compareRules(),
		recommendation.PurposeRelationship: relationshipRules(),
		recommendation.PurposeDistribution: distributionRules(),
		recommendation.PurposePrediction:   predictionRules(),
		recommendation.PurposeTimeseries:   timeseriesRules(),
	}
}

func compareRules() []Rule {
	return []Rule{
		// Paired designs
		{Branch: "compare.paired.k.parametric", When: allOf(paired, groupsAtLeast(3), normal),
			Method: "repeated-measures-anova", Confidence: 0.85,
			Alternatives: []string{"friedman-test", "mixed-anova"},
			Reason:       "Repeated measurements of the same subjects across {groups} conditions with normally distributed values",
			Reports:      normOnly},
		{Branch: "compare.paired.k.nonparametric", When: allOf(paired, groupsAtLeast(3), nonNormal),
			Method: "friedman-test", Confidence: 0.88,
			Alternatives: []string{"repeated-measures-anova"},
			Reason:       "Repeated measurements of the same subjects across {groups} conditions; values are not normally distributed",
			Reports:      normOnly},
		{Branch: "compare.paired.k.unknown", When: allOf(paired, groupsAtLeast(3)),
			Method: "friedman-test", Confidence: 0.70,
			Alternatives: []string{"repeated-measures-anova"},
			Reason:       "Repeated measurements of the same subjects across {groups} conditions; a rank-based test avoids the unverified normality assumption",
			Reports:      normOnly},
		{Branch: "compare.paired.parametric", When: allOf(paired, normal),
			Method: "paired-t-test", Confidence: 0.88,
			Alternatives: []string{"wilcoxon-signed-rank", "sign-test"},
			Reason:       "Paired design: each subject is measured more than once and the values are normally distributed",
			Reports:      normOnly},
		{Branch: "compare.paired.nonparametric", When: allOf(paired, nonNormal),
			Method: "wilcoxon-signed-rank", Confidence: 0.90,
			Alternatives: []string{"paired-t-test", "sign-test"},
			Reason:       "Paired design: each subject is measured more than once and the values are not normally distributed",
			Reports:      normOnly},
		{Branch: "compare.paired.unknown", When: paired,
			Method: "wilcoxon-signed-rank", Confidence: 0.70,
			Alternatives: []string{"paired-t-test", "sign-test"},
			Reason:       "Paired design: each subject is measured more than once; a rank-based test avoids the unverified normality assumption",
			Reports:      normOnly},

		// Multi-factor designs
		{Branch: "compare.factorial.two", When: allOf(factorsExactly(2), normal, equalVariance),
			Method: "two-way-anova", Confidence: 0.87,
			Alternatives: []string{"aligned-rank-transform-anova", "scheirer-ray-hare"},
			Reason:       "Two categorical factors ({factors}) with normal, homoscedastic values",
			Reports:      both},
		{Branch: "compare.factorial.three", When: allOf(factorsAtLeast(3), normal, equalVariance),
			Method: "three-way-anova", Confidence: 0.87,
			Alternatives: []string{"aligned-rank-transform-anova", "two-way-anova"},
			Reason:       "Three or more categorical factors ({factors}) with normal, homoscedastic values",
			Reports:      both},
		{Branch: "compare.factorial.nonparametric", When: allOf(factorsAtLeast(2), anyOf(nonNormal, unequalVar)),
			Method: "aligned-rank-transform-anova", Confidence: 0.87,
			Alternatives: []string{"two-way-anova", "scheirer-ray-hare"},
			Reason:       "Multiple categorical factors ({factors}); parametric ANOVA assumptions are violated",
			Reports:      both},
		{Branch: "compare.factorial.unknown", When: factorsAtLeast(2),
			Method: "aligned-rank-transform-anova", Confidence: 0.65,
			Alternatives: []string{"two-way-anova", "scheirer-ray-hare"},
			Reason:       "Multiple categorical factors ({factors}); ANOVA assumptions could not be confirmed",
			Reports:      both},

		// Two independent groups
		{Branch: "compare.two.parametric", When: allOf(groupsExactly(2), normal, equalVariance),
			Method: "independent-t-test", Confidence: 0.92,
			Alternatives: []string{"mann-whitney-u", "welch-t-test"},
			Reason:       "Two independent groups in '{group}' with normal distributions and equal variances",
			Reports:      both},
		{Branch: "compare.two.welch", When: allOf(groupsExactly(2), normal, unequalVar),
			Method: "welch-t-test", Confidence: 0.90,
			Alternatives: []string{"mann-whitney-u", "independent-t-test"},
			Reason:       "Two independent groups in '{group}' with normal distributions but unequal variances",
			Reports:      both},
		{Branch: "compare.two.welch-unverified", When: allOf(groupsExactly(2), normal),
			Method: "welch-t-test", Confidence: 0.80,
			Alternatives: []string{"independent-t-test", "mann-whitney-u"},
			Reason:       "Two independent groups in '{group}' with normal distributions; Welch's correction does not rely on equal variances",
			Reports:      both},
		{Branch: "compare.two.nonparametric", When: allOf(groupsExactly(2), nonNormal),
			Method: "mann-whitney-u", Confidence: 0.90,
			Alternatives: []string{"independent-t-test", "welch-t-test"},
			Reason:       "Two independent groups in '{group}'; values are not normally distributed",
			Reports:      both},
		{Branch: "compare.two.unknown", When: groupsExactly(2),
			Method: "mann-whitney-u", Confidence: 0.70,
			Alternatives: []string{"independent-t-test", "welch-t-test"},
			Reason:       "Two independent groups in '{group}'; a rank-based test avoids the unverified normality assumption",
			Reports:      both},

		// Three or more independent groups
		{Branch: "compare.k.parametric", When: allOf(groupsAtLeast(3), normal, equalVariance),
			Method: "one-way-anova", Confidence: 0.90,
			Alternatives: []string{"kruskal-wallis", "welch-anova"},
			Reason:       "{groups} independent groups in '{group}' with normal distributions and equal variances",
			Reports:      both},
		{Branch: "compare.k.welch", When: allOf(groupsAtLeast(3), normal, unequalVar),
			Method: "welch-anova", Confidence: 0.87,
			Alternatives: []string{"kruskal-wallis", "one-way-anova"},
			Reason:       "{groups} independent groups in '{group}' with normal distributions but unequal variances",
			Reports:      both},
		{Branch: "compare.k.welch-unverified", When: allOf(groupsAtLeast(3), normal),
			Method: "welch-anova", Confidence: 0.78,
			Alternatives: []string{"one-way-anova", "kruskal-wallis"},
			Reason:       "{groups} independent groups in '{group}' with normal distributions; Welch's ANOVA does not rely on equal variances",
			Reports:      both},
		{Branch: "compare.k.nonparametric", When: allOf(groupsAtLeast(3), nonNormal),
			Method: "kruskal-wallis", Confidence: 0.90,
			Alternatives: []string{"one-way-anova", "dunn-test"},
			Reason:       "{groups} independent groups in '{group}'; values are not normally distributed",
			Reports:      both},
		{Branch: "compare.k.unknown", When: groupsAtLeast(3),
			Method: "kruskal-wallis", Confidence: 0.70,
			Alternatives: []string{"one-way-anova", "welch-anova"},
			Reason:       "{groups} independent groups in '{group}'; a rank-based test avoids the unverified normality assumption",
			Reports:      both},

		{Branch: branchNoGroup, When: always,
			Method: fallbackMethod, Confidence: fallbackConfidence,
			Alternatives: []string{"frequency-analysis", "normality-assessment"},
			Reason:       "No suitable grouping variable was found; choose a categorical column with 2 to 10 levels to compare groups"},
	}
}

func relationshipRules() []Rule {
	return []Rule{
		{Branch: "relationship.insufficient", When: not(numericAtLeast(2)),
			Method: fallbackMethod, Confidence: fallbackConfidence,
			Alternatives: []string{"frequency-analysis", "chi-square-test"},
			Reason:       "A relationship analysis needs at least two numeric columns; found {numeric}"},
		{Branch: "relationship.pearson", When: normal,
			Method: "pearson-correlation", Confidence: 0.88,
			Alternatives: []string{"spearman-correlation", "kendall-tau"},
			Reason:       "{numeric} numeric columns with normally distributed values support a linear correlation",
			Reports:      normOnly},
		{Branch: "relationship.spearman", When: nonNormal,
			Method: "spearman-correlation", Confidence: 0.90,
			Alternatives: []string{"pearson-correlation", "kendall-tau"},
			Reason:       "{numeric} numeric columns; values are not normally distributed so a rank correlation is more robust",
			Reports:      normOnly},
		{Branch: "relationship.unknown", When: always,
			Method: "spearman-correlation", Confidence: 0.70,
			Alternatives: []string{"pearson-correlation", "kendall-tau"},
			Reason:       "{numeric} numeric columns; a rank correlation avoids the unverified normality assumption",
			Reports:      normOnly},
	}
}

func distributionRules() []Rule {
	return []Rule{
		{Branch: "distribution", When: always,
			Method: fallbackMethod, Confidence: 1.0,
			Alternatives: []string{"normality-assessment", "frequency-analysis"},
			Reason:       "Describing a distribution calls for central tendency, spread and shape statistics",
			Reports:      normOnly},
	}
}

func predictionRules() []Rule {
	return []Rule{
		{Branch: "prediction.logistic", When: allOf(hasBinary, not(numericAtLeast(2))),
			Method: "logistic-regression", Confidence: 0.66,
			Alternatives: []string{"simple-linear-regression", "chi-square-test"},
			Reason:       "A binary outcome is available ({binary}) and too few numeric predictors for a linear model"},
		{Branch: "prediction.simple-linear", When: allOf(numericExactly(2), not(hasBinary)),
			Method: "simple-linear-regression", Confidence: 0.70,
			Alternatives: []string{"polynomial-regression", "pearson-correlation"},
			Reason:       "Two numeric columns support predicting one from the other"},
		{Branch: "prediction.multiple-linear", When: allOf(numericAtLeast(3), not(hasBinary)),
			Method: "multiple-linear-regression", Confidence: 0.68,
			Alternatives: []string{"simple-linear-regression", "principal-component-analysis"},
			Reason:       "{numeric} numeric columns support a model with several predictors"},
		{Branch: "prediction.ambiguous", When: allOf(numericAtLeast(2), hasBinary),
			Method: "simple-linear-regression", Confidence: 0.60,
			Alternatives: []string{"logistic-regression", "multiple-linear-regression"},
			Reason:       "Both numeric ({numeric}) and binary ({binary}) outcomes are available; defaulting to linear regression"},
		{Branch: "prediction.unknown", When: always,
			Method: "simple-linear-regression", Confidence: 0.55,
			Alternatives: []string{"logistic-regression", fallbackMethod},
			Reason:       "No clear outcome variable was found; defaulting to linear regression"},
	}
}

func timeseriesRules() []Rule {
	return []Rule{
		{Branch: "timeseries.model", When: hasTemporal,
			Method: "time-series-analysis", Confidence: 0.70,
			Alternatives: []string{"arima", "exponential-smoothing", "mann-kendall-trend"},
			Reason:       "Date/time column '{temporal}' orders the observations in time"},
		{Branch: "timeseries.paired-parametric", When: normal,
			Method: "paired-t-test", Confidence: 0.55,
			Alternatives: []string{"wilcoxon-signed-rank", "mann-kendall-trend"},
			Reason:       "No date/time column was found; row order is treated as a repeated measure",
			Reports:      normOnly},
		{Branch: "timeseries.paired-nonparametric", When: always,
			Method: "wilcoxon-signed-rank", Confidence: 0.55,
			Alternatives: []string{"paired-t-test", "mann-kendall-trend"},
			Reason:       "No date/time column was found; row order is treated as a repeated measure",
			Reports:      normOnly},
	}
}

// ReferencedMethodIDs lists every method id a table can emit, including the
// fallbacks, in first-reference order.
func (t RuleTable) ReferencedMethodIDs() []string {
	seen := map[string]bool{fallbackMethod: true}
	ids := []string{fallbackMethod}
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, purpose := range recommendation.Purposes {
		for _, rule := range t[purpose] {
			add(rule.Method)
			for _, alt := range rule.Alternatives {
				add(alt)
			}
		}
	}
	for _, alt := range fallbackAlternatives {
		add(alt)
	}
	return ids
}

// Match returns the first rule whose guard holds
func (t RuleTable) Match(purpose recommendation.Purpose, s Situation) (Rule, bool) {
	for _, rule := range t[purpose] {
		if rule.When.Test(s) {
			return rule, true
		}
	}
	return Rule{}, false
}
