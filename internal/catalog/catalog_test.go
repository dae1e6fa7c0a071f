package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statadvisor/domain/recommendation"
	"statadvisor/internal/errors"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, c.Version())
	assert.GreaterOrEqual(t, c.Len(), 45)

	m, ok := c.Get("independent-t-test")
	require.True(t, ok)
	assert.Equal(t, recommendation.CategoryParametric, m.Category)
	assert.True(t, m.RequiresNormality())

	mw, ok := c.Get("mann-whitney-u")
	require.True(t, ok)
	assert.False(t, mw.RequiresNormality())
}

func TestGetReturnsCopies(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	m, _ := c.Get("one-way-anova")
	m.Requirements.Assumptions[0] = "tampered"
	m.Name = "tampered"

	again, _ := c.Get("one-way-anova")
	assert.Equal(t, "One-Way ANOVA", again.Name)
	assert.Equal(t, "normality", again.Requirements.Assumptions[0])
}

func TestValidateReportsMissingIDs(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.NoError(t, c.Validate([]string{"kruskal-wallis", "descriptive-statistics"}))

	err = c.Validate([]string{"kruskal-wallis", "no-such-test"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeCatalogInvalid, errors.GetCode(err))
	assert.Contains(t, err.Error(), "no-such-test")
}

func TestParseRejectsDuplicates(t *testing.T) {
	doc := []byte(`
version: "1"
methods:
  - {id: a, name: A, description: x, category: descriptive}
  - {id: a, name: B, description: y, category: descriptive}
`)
	_, err := Parse(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestByCategory(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	for _, m := range c.ByCategory(recommendation.CategoryTimeseries) {
		assert.Equal(t, recommendation.CategoryTimeseries, m.Category)
	}
	assert.NotEmpty(t, c.ByCategory(recommendation.CategoryNonparametric))
}
