package ports

import (
	domain "statadvisor/domain/profiling"
)

// ProfilerPort derives per-column profiles from a dataset snapshot
type ProfilerPort interface {
	ProfileColumns(dataset domain.Dataset) []domain.ColumnProfile
}
