// Package report renders recommendation records as human-readable explanations
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"statadvisor/domain/recommendation"
)

// Markdown writes the explanation for a record
func Markdown(record *recommendation.Record) string {
	rec := record.Recommendation
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", rec.Method.Name)
	if rec.Method.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", rec.Method.Description)
	}
	fmt.Fprintf(&b, "**Purpose:** %s  \n", record.Purpose)
	fmt.Fprintf(&b, "**Confidence:** %.0f%%  \n", rec.Confidence*100)
	if record.ValueColumn != "" {
		fmt.Fprintf(&b, "**Outcome column:** `%s`  \n", record.ValueColumn)
	}
	if record.GroupColumn != "" {
		fmt.Fprintf(&b, "**Grouping column:** `%s`  \n", record.GroupColumn)
	}
	if record.AssumptionsSkipped {
		b.WriteString("**Assumption tests:** not run  \n")
	}
	b.WriteString("\n## Why this method\n\n")
	for _, line := range rec.Reasoning {
		fmt.Fprintf(&b, "- %s\n", line)
	}

	if len(rec.AssumptionsChecked) > 0 {
		b.WriteString("\n## Assumptions checked\n\n")
		b.WriteString("| Assumption | Result | p-value |\n|---|---|---|\n")
		for _, check := range rec.AssumptionsChecked {
			result := "violated"
			if check.Passed {
				result = "met"
			}
			p := "n/a"
			if check.PValue != nil {
				p = fmt.Sprintf("%.3f", *check.PValue)
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", check.Name, result, p)
		}
	}

	if rec.Method.Requirements != nil && len(rec.Method.Requirements.Assumptions) > 0 {
		b.WriteString("\n## Method requirements\n\n")
		fmt.Fprintf(&b, "- Minimum sample size: %d\n", rec.Method.Requirements.MinSampleSize)
		fmt.Fprintf(&b, "- Assumes: %s\n", strings.Join(rec.Method.Requirements.Assumptions, ", "))
	}

	if len(rec.Alternatives) > 0 {
		b.WriteString("\n## Alternatives\n\n")
		for _, alt := range rec.Alternatives {
			fmt.Fprintf(&b, "- **%s** (%s)\n", alt.Name, alt.Category)
		}
	}

	fmt.Fprintf(&b, "\n---\nCatalog %s, recommendation `%s`\n", record.CatalogVersion, record.ID)
	return b.String()
}

// HTML renders the explanation; raw HTML in column names is dropped
func HTML(record *recommendation.Record) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(Markdown(record)))

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML,
	})
	return markdown.Render(doc, renderer)
}
