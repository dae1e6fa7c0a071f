package profiling

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	domain "statadvisor/domain/profiling"
)

// isMissing reports whether a cell carries no value
func isMissing(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case float64:
		return math.IsNaN(t)
	case float32:
		return math.IsNaN(float64(t))
	}
	return false
}

// toFloat coerces a cell to a finite number
func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// valueKey is the identity used for distinct-value counting. Numeric cells
// and their string spellings share a key, so 1, 1.0 and "1" are one value.
func valueKey(v interface{}) string {
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case bool:
		return strconv.FormatBool(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"2006.01.02",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006-01",
}

// looksLikeTime reports whether a cell is a date/time value
func looksLikeTime(v interface{}) bool {
	switch t := v.(type) {
	case time.Time:
		return !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return false
		}
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, s); err == nil {
				return true
			}
		}
	}
	return false
}

// ColumnValues returns the valid numeric values of a column together with
// their 1-based row indices. Missing and unparsable cells are skipped.
func ColumnValues(rows []domain.Row, column string) (values []float64, rowIndices []int) {
	for i, row := range rows {
		f, ok := toFloat(row[column])
		if !ok {
			continue
		}
		values = append(values, f)
		rowIndices = append(rowIndices, i+1)
	}
	return values, rowIndices
}

// CellKey exposes the distinct-value identity to sibling packages
func CellKey(v interface{}) (string, bool) {
	if isMissing(v) {
		return "", false
	}
	return valueKey(v), true
}

// CellFloat exposes numeric coercion to sibling packages
func CellFloat(v interface{}) (float64, bool) {
	return toFloat(v)
}
