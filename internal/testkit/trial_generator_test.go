package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrialDataGenerator_Basic(t *testing.T) {
	ds := NewTrialDataGenerator(DefaultTrialConfig()).Generate()

	require.Len(t, ds.Rows, 60)
	assert.Equal(t, []string{"subject_id", "arm", "visit_date", "baseline", "score", "responded"}, ds.Columns)

	arms := map[interface{}]int{}
	for i, row := range ds.Rows {
		for _, col := range ds.Columns {
			if _, ok := row[col]; !ok {
				t.Errorf("row %d is missing %s", i, col)
			}
		}
		arms[row["arm"]]++
	}
	assert.Equal(t, map[interface{}]int{"control": 30, "treatment": 30}, arms)
}

func TestTrialDataGenerator_Deterministic(t *testing.T) {
	cfg := DefaultTrialConfig()
	a := NewTrialDataGenerator(cfg).Generate()
	b := NewTrialDataGenerator(cfg).Generate()
	assert.Equal(t, a, b)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	cfg.Seed = 7
	c := NewTrialDataGenerator(cfg).Generate()
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestTrialDataGenerator_RepeatedVisits(t *testing.T) {
	cfg := DefaultTrialConfig()
	cfg.Subjects = 10
	cfg.Visits = 3
	cfg.Sites = []string{"north", "south"}
	ds := NewTrialDataGenerator(cfg).Generate()

	require.Len(t, ds.Rows, 30)
	assert.Contains(t, ds.Columns, "site")

	perSubject := map[interface{}]int{}
	dates := map[interface{}]bool{}
	for _, row := range ds.Rows {
		perSubject[row["subject_id"]]++
		dates[row["visit_date"]] = true
	}
	assert.Len(t, perSubject, 10)
	for id, n := range perSubject {
		assert.Equal(t, 3, n, "subject %v", id)
	}
	assert.Len(t, dates, 30, "every row gets its own visit date")
}
