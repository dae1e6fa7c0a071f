package app

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"statadvisor/domain/assumption"
	"statadvisor/domain/core"
	domain "statadvisor/domain/profiling"
	"statadvisor/domain/recommendation"
	"statadvisor/domain/structure"
	"statadvisor/internal"
	checks "statadvisor/internal/assumption"
	"statadvisor/internal/catalog"
	"statadvisor/internal/correlation"
	"statadvisor/internal/errors"
	"statadvisor/internal/profiling"
	"statadvisor/internal/recommender"
	"statadvisor/internal/report"
	detector "statadvisor/internal/structure"
	"statadvisor/ports"
)

var _ ports.ProfilerPort = (*profiling.Profiler)(nil)

// DefaultCacheEntries is used when no cache size is configured
const DefaultCacheEntries = 256

// RecommendRequest asks for a method recommendation on one dataset
type RecommendRequest struct {
	Dataset     domain.Dataset
	Purpose     recommendation.Purpose
	ValueColumn string
	GroupColumn string
	// Session scopes stale-result detection; requests in different sessions never cancel each other
	Session string
	// SkipAssumptions forces the conservative path without calling the backend
	SkipAssumptions bool
}

// Analysis is everything derived for one recommendation request
type Analysis struct {
	Record      *recommendation.Record    `json:"record"`
	Profiles    []domain.ColumnProfile    `json:"profiles"`
	Facts       structure.StructuralFacts `json:"facts"`
	Summary     structure.DatasetSummary  `json:"summary"`
	Assumptions *assumption.Result        `json:"assumptions,omitempty"`
	Request     *assumption.Request       `json:"-"`
	CacheHit    bool                      `json:"cache_hit"`
}

// CorrelationReport is the correlation view of a dataset
type CorrelationReport struct {
	Columns []string                      `json:"columns"`
	Pairs   []correlation.CorrelationPair `json:"pairs"`
	Matrix  [][]float64                   `json:"matrix"`
}

// AdvisorService wires the engines into request-level operations
type AdvisorService struct {
	profiler    ports.ProfilerPort
	checker     *checks.Adapter
	recommender *recommender.Recommender
	catalog     *catalog.Catalog
	repo        ports.RecommendationRepository
	cache       *lru.Cache[string, *assumption.Result]
	logger      *internal.Logger
}

// NewAdvisorService creates the service. checker may be nil when no numeric
// backend is configured; every recommendation then takes the conservative path.
func NewAdvisorService(
	profiler ports.ProfilerPort,
	checker *checks.Adapter,
	rec *recommender.Recommender,
	repo ports.RecommendationRepository,
	cacheEntries int,
	logger *internal.Logger,
) (*AdvisorService, error) {
	if profiler == nil || rec == nil || repo == nil {
		return nil, errors.InternalError("advisor service requires profiler, recommender and repository")
	}
	if cacheEntries <= 0 {
		cacheEntries = DefaultCacheEntries
	}
	cache, err := lru.New[string, *assumption.Result](cacheEntries)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create assumption cache")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AdvisorService{
		profiler:    profiler,
		checker:     checker,
		recommender: rec,
		catalog:     rec.Catalog(),
		repo:        repo,
		cache:       cache,
		logger:      logger.Named("advisor"),
	}, nil
}

// Methods returns the whole catalog
func (s *AdvisorService) Methods() []recommendation.MethodDescriptor {
	return s.catalog.All()
}

// Method returns one catalog entry
func (s *AdvisorService) Method(id string) (recommendation.MethodDescriptor, error) {
	m, ok := s.catalog.Get(id)
	if !ok {
		return recommendation.MethodDescriptor{}, errors.WithCode(errors.CodeNotFound, fmt.Errorf("%w %q", core.ErrMethodNotFound, id))
	}
	return m, nil
}

// CatalogVersion returns the version of the method catalog in use
func (s *AdvisorService) CatalogVersion() string {
	return s.catalog.Version()
}

// Profile profiles every column of the dataset
func (s *AdvisorService) Profile(ds domain.Dataset) []domain.ColumnProfile {
	return s.profiler.ProfileColumns(ds)
}

// Correlations correlates the numeric, non-identifier columns of the dataset
func (s *AdvisorService) Correlations(ds domain.Dataset) CorrelationReport {
	columns := profiling.NumericColumns(s.profiler.ProfileColumns(ds))
	pairs := correlation.CorrelationMatrix(ds.Rows, columns)
	return CorrelationReport{
		Columns: columns,
		Pairs:   pairs,
		Matrix:  correlation.DenseMatrix(columns, pairs),
	}
}

// Outliers returns the IQR outlier report for one column
func (s *AdvisorService) Outliers(ds domain.Dataset, column string) (*domain.OutlierReport, error) {
	if !ds.HasColumn(column) {
		return nil, errors.WithCode(errors.CodeNotFound, fmt.Errorf("%w %q", core.ErrColumnNotFound, column))
	}
	out := profiling.GetOutlierDetails(ds, column)
	if out == nil {
		return nil, errors.InvalidInput(fmt.Sprintf("column %q has no numeric values", column))
	}
	return out, nil
}

// Recommend runs the full pipeline and persists the result. Persistence
// failures are logged; the recommendation is still returned.
func (s *AdvisorService) Recommend(ctx context.Context, req RecommendRequest) (*Analysis, error) {
	ds := req.Dataset
	if ds.Len() == 0 || len(ds.Columns) == 0 {
		return nil, errors.WithCode(errors.CodeInvalidInput, core.ErrInsufficientData)
	}
	for _, col := range []string{req.ValueColumn, req.GroupColumn} {
		if col != "" && !ds.HasColumn(col) {
			return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("%w %q", core.ErrColumnNotFound, col))
		}
	}
	purpose := recommendation.Purpose(strings.ToLower(strings.TrimSpace(string(req.Purpose))))

	profiles := s.profiler.ProfileColumns(ds)
	facts := detector.Detect(ds.Rows, profiles)
	summary := detector.Summarize(ds.Rows, profiles)
	if req.GroupColumn != "" {
		group := req.GroupColumn
		facts.GroupVariable = &group
		facts.GroupCount = detector.DetectGroupCount(profiles, &group)
	}

	valueColumn := req.ValueColumn
	if valueColumn == "" && len(summary.NumericColumns) > 0 {
		valueColumn = summary.NumericColumns[0]
	}
	groupColumn := ""
	if facts.HasGroupVariable() {
		groupColumn = *facts.GroupVariable
	}

	fingerprint := ds.Fingerprint()
	analysis := &Analysis{Profiles: profiles, Facts: facts, Summary: summary}

	if !req.SkipAssumptions {
		analysis.Assumptions, analysis.Request, analysis.CacheHit = s.assumptions(ctx, req.Session, fingerprint, ds, valueColumn, groupColumn)
	}

	skipped := analysis.Assumptions.IsEmpty()
	var rec recommendation.Recommendation
	if skipped {
		rec = s.recommender.RecommendWithoutAssumptions(purpose, facts, summary)
	} else {
		rec = s.recommender.Recommend(purpose, analysis.Assumptions, facts, summary)
	}

	analysis.Record = &recommendation.Record{
		ID:                 core.NewRecommendationID(),
		Fingerprint:        fingerprint,
		Purpose:            purpose,
		ValueColumn:        valueColumn,
		GroupColumn:        groupColumn,
		AssumptionsSkipped: skipped,
		CatalogVersion:     s.catalog.Version(),
		Recommendation:     rec,
		CreatedAt:          core.Now(),
	}
	if err := s.repo.Save(ctx, analysis.Record); err != nil {
		s.logger.Warn("failed to persist recommendation %s: %v", analysis.Record.ID, err)
	}

	s.logger.Info("recommended %s (%.2f) for %s on dataset %.12s", rec.Method.ID, rec.Confidence, purpose, fingerprint)
	return analysis, nil
}

func (s *AdvisorService) assumptions(
	ctx context.Context,
	session string,
	fingerprint core.DatasetFingerprint,
	ds domain.Dataset,
	valueColumn, groupColumn string,
) (*assumption.Result, *assumption.Request, bool) {
	if s.checker == nil {
		return nil, nil, false
	}
	key := cacheKey(fingerprint, valueColumn, groupColumn)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil, true
	}

	stream := session
	if stream == "" {
		stream = core.NewID().String()
	}
	outcome := s.checker.Check(ctx, stream, ds.Rows, valueColumn, groupColumn)
	if outcome.Result != nil {
		s.cache.Add(key, outcome.Result)
	}
	return outcome.Result, outcome.Request, false
}

// InvalidateSession discards in-flight assumption checks of a session, e.g. after it uploads a new dataset
func (s *AdvisorService) InvalidateSession(session string) {
	if s.checker != nil && session != "" {
		s.checker.Invalidate(session)
	}
}

// Get loads a persisted recommendation
func (s *AdvisorService) Get(ctx context.Context, id string) (*recommendation.Record, error) {
	recID, err := core.ParseRecommendationID(id)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return s.repo.Get(ctx, recID)
}

// History lists recent recommendations issued for a dataset snapshot
func (s *AdvisorService) History(ctx context.Context, fingerprint core.DatasetFingerprint, limit int) ([]*recommendation.Record, error) {
	return s.repo.ListByFingerprint(ctx, fingerprint, limit)
}

// Explain renders a persisted recommendation as HTML
func (s *AdvisorService) Explain(ctx context.Context, id string) ([]byte, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return report.HTML(record), nil
}

func cacheKey(fp core.DatasetFingerprint, valueColumn, groupColumn string) string {
	return fp.String() + "\x1f" + valueColumn + "\x1f" + groupColumn
}
