// Package testkit generates synthetic datasets with a known design so tests
// can assert what the profiler and structure detector should find.
package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	domain "statadvisor/domain/profiling"
)

// TrialGeneratorConfig configures the trial data generator
type TrialGeneratorConfig struct {
	Subjects  int       `json:"subjects"`
	Arms      []string  `json:"arms"`
	Sites     []string  `json:"sites"`  // optional second factor
	Visits    int       `json:"visits"` // >1 repeats every subject, making the design paired
	Effect    float64   `json:"effect"` // mean shift per arm index
	Skewed    bool      `json:"skewed"` // exponential instead of normal noise on score
	StartDate time.Time `json:"start_date"`
	Seed      int64     `json:"seed"`
}

// DefaultTrialConfig returns a two-arm parallel trial with 60 subjects
func DefaultTrialConfig() TrialGeneratorConfig {
	return TrialGeneratorConfig{
		Subjects:  60,
		Arms:      []string{"control", "treatment"},
		Visits:    1,
		Effect:    5,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:      42,
	}
}

// TrialDataGenerator generates trial datasets
type TrialDataGenerator struct {
	config TrialGeneratorConfig
	rng    *rand.Rand
}

// NewTrialDataGenerator creates a new trial data generator
func NewTrialDataGenerator(config TrialGeneratorConfig) *TrialDataGenerator {
	if config.Visits < 1 {
		config.Visits = 1
	}
	if len(config.Arms) == 0 {
		config.Arms = DefaultTrialConfig().Arms
	}
	if config.StartDate.IsZero() {
		config.StartDate = DefaultTrialConfig().StartDate
	}
	return &TrialDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Columns returns the generated column order
func (g *TrialDataGenerator) Columns() []string {
	cols := []string{"subject_id", "arm"}
	if len(g.config.Sites) > 0 {
		cols = append(cols, "site")
	}
	return append(cols, "visit_date", "baseline", "score", "responded")
}

// Generate builds the dataset. Subjects are assigned to arms round-robin, so
// arm sizes differ by at most one.
func (g *TrialDataGenerator) Generate() domain.Dataset {
	ds := domain.Dataset{Columns: g.Columns()}
	day := 0

	for s := 0; s < g.config.Subjects; s++ {
		subjectID := fmt.Sprintf("S%04d", s+1)
		armIdx := s % len(g.config.Arms)
		baseline := 50 + g.rng.NormFloat64()*5

		var site string
		if len(g.config.Sites) > 0 {
			site = g.config.Sites[g.rng.Intn(len(g.config.Sites))]
		}

		for v := 0; v < g.config.Visits; v++ {
			score := 50 + 0.2*(baseline-50) + float64(armIdx)*g.config.Effect + float64(v)*g.config.Effect/2 + g.noise()
			row := domain.Row{
				"subject_id": subjectID,
				"arm":        g.config.Arms[armIdx],
				"visit_date": g.config.StartDate.AddDate(0, 0, day).Format("2006-01-02"),
				"baseline":   round2(baseline),
				"score":      round2(score),
				"responded":  responded(score, baseline),
			}
			if site != "" {
				row["site"] = site
			}
			ds.Rows = append(ds.Rows, row)
			day++
		}
	}
	return ds
}

func (g *TrialDataGenerator) noise() float64 {
	if g.config.Skewed {
		return g.rng.ExpFloat64() * 10
	}
	return g.rng.NormFloat64() * 8
}

func responded(score, baseline float64) string {
	if score > baseline {
		return "yes"
	}
	return "no"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
