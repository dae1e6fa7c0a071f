package recommender

import (
	"fmt"
	"strconv"
	"strings"

	"statadvisor/domain/assumption"
	"statadvisor/domain/recommendation"
)

// SmallSampleThreshold is the size below which every recommendation carries a warning
const SmallSampleThreshold = 30

const conservativeLine = "Assumption tests were not available; using a conservative approach that prefers robust and rank-based methods"

func expand(template string, s Situation) string {
	group := ""
	if s.Facts.GroupVariable != nil {
		group = *s.Facts.GroupVariable
	}
	temporal := ""
	if len(s.Summary.TemporalColumns) > 0 {
		temporal = s.Summary.TemporalColumns[0]
	}
	return strings.NewReplacer(
		"{group}", group,
		"{groups}", strconv.Itoa(s.Facts.GroupCount),
		"{factors}", strings.Join(s.Facts.Factors, ", "),
		"{numeric}", strconv.Itoa(len(s.Summary.NumericColumns)),
		"{binary}", strings.Join(s.Summary.BinaryColumns, ", "),
		"{temporal}", temporal,
	).Replace(template)
}

func designLines(rule Rule, s Situation) []string {
	if !strings.HasPrefix(rule.Branch, "compare.") || rule.Branch == branchNoGroup {
		return nil
	}
	var lines []string
	if s.Facts.IsPaired {
		lines = append(lines, "Subject identifiers repeat across rows, indicating a within-subject design")
	}
	if len(s.Facts.Factors) >= 2 {
		lines = append(lines, fmt.Sprintf("Detected %d candidate factors", len(s.Facts.Factors)))
	}
	return lines
}

func evidenceLines(reports []string, s Situation) []string {
	var lines []string
	for _, kind := range reports {
		switch kind {
		case reportNormality:
			lines = append(lines, normalityLine(s.Assumptions))
		case reportHomogeneity:
			if s.Facts.GroupCount >= 2 || len(s.Facts.Factors) >= 2 {
				lines = append(lines, homogeneityLine(s.Assumptions))
			}
		}
	}
	return lines
}

func normalityLine(a *assumption.Result) string {
	sw, ok := a.ShapiroWilkEvidence().Get()
	if !ok {
		return "Normality was not assessed"
	}
	stats := formatStats("W", sw.Statistic, sw.PValue)
	if sw.IsNormal {
		return "Shapiro-Wilk test indicates normally distributed values" + stats
	}
	return "Shapiro-Wilk test indicates a departure from normality" + stats
}

func homogeneityLine(a *assumption.Result) string {
	lv, ok := a.LeveneEvidence().Get()
	if !ok {
		return "Homogeneity of variance was not assessed"
	}
	stats := formatStats("F", lv.Statistic, lv.PValue)
	if lv.EqualVariance {
		return "Levene's test indicates equal variances across groups" + stats
	}
	return "Levene's test indicates unequal variances across groups" + stats
}

func formatStats(symbol string, statistic, pValue *float64) string {
	var parts []string
	if statistic != nil {
		parts = append(parts, fmt.Sprintf("%s = %.3f", symbol, *statistic))
	}
	if pValue != nil {
		parts = append(parts, formatPValue(*pValue))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func formatPValue(p float64) string {
	if p < 0.001 {
		return "p < 0.001"
	}
	return fmt.Sprintf("p = %.3f", p)
}

func sampleSizeWarning(n int) string {
	if n >= SmallSampleThreshold {
		return ""
	}
	return fmt.Sprintf("Small sample size (n = %d); results should be interpreted with caution", n)
}

func checkedAssumptions(a *assumption.Result) []recommendation.AssumptionCheck {
	checks := make([]recommendation.AssumptionCheck, 0, 2)
	if sw, ok := a.ShapiroWilkEvidence().Get(); ok {
		checks = append(checks, recommendation.AssumptionCheck{
			Name:   "normality",
			Passed: sw.IsNormal,
			PValue: sw.PValue,
		})
	}
	if lv, ok := a.LeveneEvidence().Get(); ok {
		checks = append(checks, recommendation.AssumptionCheck{
			Name:   "homogeneity",
			Passed: lv.EqualVariance,
			PValue: lv.PValue,
		})
	}
	return checks
}
