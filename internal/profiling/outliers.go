package profiling

import (
	"sort"

	"github.com/montanaflynn/stats"

	domain "statadvisor/domain/profiling"
)

// GetOutlierDetails lists the IQR outliers of one numeric column, ordered by
// row. It returns nil when the column is absent, not numeric, or has no valid values.
func GetOutlierDetails(dataset domain.Dataset, column string) *domain.OutlierReport {
	if !dataset.HasColumn(column) {
		return nil
	}
	profile, ok := Find(ProfileColumns(domain.Dataset{Columns: []string{column}, Rows: dataset.Rows}), column)
	if !ok || !profile.IsNumeric() {
		return nil
	}
	return OutlierDetails(dataset.Rows, column)
}

// OutlierDetails computes the outlier report for a column without checking its kind
func OutlierDetails(rows []domain.Row, column string) *domain.OutlierReport {
	values, rowIndices := ColumnValues(rows, column)
	if len(values) == 0 {
		return nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	fences := ComputeFences(sorted)

	report := &domain.OutlierReport{
		Column:   column,
		Outliers: []domain.OutlierDetail{},
		Statistics: domain.OutlierStatistics{
			Min:               sorted[0],
			Q1:                fences.Q1,
			Median:            fences.Median,
			Q3:                fences.Q3,
			Max:               sorted[len(sorted)-1],
			IQR:               fences.IQR,
			LowerBound:        fences.Lower,
			UpperBound:        fences.Upper,
			ExtremeLowerBound: fences.ExtremeLower,
			ExtremeUpperBound: fences.ExtremeUpper,
		},
	}
	if mean, err := stats.Mean(values); err == nil {
		report.Statistics.Mean = &mean
	}

	for i, v := range values {
		if !fences.IsOutlier(v) {
			continue
		}
		report.Outliers = append(report.Outliers, domain.OutlierDetail{
			Value:     v,
			RowIndex:  rowIndices[i],
			IsExtreme: fences.IsExtreme(v),
		})
	}
	return report
}
