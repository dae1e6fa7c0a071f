// Package assumption is the boundary to the external numeric service that
// runs normality and homogeneity tests. It never returns an error: every
// failure resolves to an absent result that callers treat as "not yet known".
package assumption

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"statadvisor/domain/assumption"
	domain "statadvisor/domain/profiling"
	"statadvisor/internal"
	"statadvisor/ports"
)

// Outcome is the result of one Check call
type Outcome struct {
	RunID   uint64
	Request *assumption.Request
	Result  *assumption.Result
	Skipped bool // nothing could be requested
	Stale   bool // a newer run started before this one finished
}

// Adapter builds requests, calls the backend and normalizes responses. Every
// call gets a run id within its stream; only the latest run of a stream ever
// returns a result. A stream is one consumer's view of one dataset, e.g. a session.
type Adapter struct {
	backend ports.NumericBackend
	alpha   float64
	logger  *internal.Logger

	nextRun atomic.Uint64
	mu      sync.Mutex
	latest  map[string]uint64
}

// NewAdapter creates an adapter; a nil logger uses the default logger
func NewAdapter(backend ports.NumericBackend, alpha float64, logger *internal.Logger) *Adapter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if alpha <= 0 || alpha >= 1 {
		alpha = assumption.DefaultAlpha
	}
	return &Adapter{
		backend: backend,
		alpha:   alpha,
		logger:  logger.Named("assumption"),
		latest:  make(map[string]uint64),
	}
}

// Invalidate marks every in-flight run of stream as stale, e.g. after its dataset changed
func (a *Adapter) Invalidate(stream string) {
	a.mu.Lock()
	if _, inFlight := a.latest[stream]; inFlight {
		a.latest[stream] = a.nextRun.Add(1)
	}
	a.mu.Unlock()
}

func (a *Adapter) begin(stream string) uint64 {
	runID := a.nextRun.Add(1)
	a.mu.Lock()
	a.latest[stream] = runID
	a.mu.Unlock()
	return runID
}

// finish reports whether runID is still the newest run of stream and, if so,
// forgets the stream so the table only holds streams with work in flight.
func (a *Adapter) finish(stream string, runID uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.latest[stream] != runID {
		return false
	}
	delete(a.latest, stream)
	return true
}

// Check runs the assumption tests that the data supports
func (a *Adapter) Check(ctx context.Context, stream string, rows []domain.Row, valueColumn, groupColumn string) Outcome {
	runID := a.begin(stream)

	req, ok := BuildRequest(rows, valueColumn, groupColumn, a.alpha)
	if !ok {
		a.finish(stream, runID)
		a.logger.Debug("run %d skipped: no values or groups for %q/%q", runID, valueColumn, groupColumn)
		return Outcome{RunID: runID, Skipped: true}
	}
	outcome := Outcome{RunID: runID, Request: &req}
	if a.backend == nil {
		a.finish(stream, runID)
		a.logger.Warn("run %d: no numeric backend configured", runID)
		return outcome
	}

	var (
		resp assumption.Response
		g    errgroup.Group
	)
	if req.HasValues() {
		normReq := assumption.Request{Values: req.Values, Alpha: req.Alpha, NormalityRule: req.NormalityRule}
		g.Go(func() error {
			payload, err := a.callNormality(ctx, normReq)
			if err != nil {
				a.logger.Warn("run %d: normality test failed: %v", runID, err)
				return nil
			}
			resp.Normality = payload
			return nil
		})
	}
	if req.HasGroups() {
		homReq := assumption.Request{Groups: req.Groups, Alpha: req.Alpha, NormalityRule: req.NormalityRule}
		g.Go(func() error {
			payload, err := a.callHomogeneity(ctx, homReq)
			if err != nil {
				a.logger.Warn("run %d: homogeneity test failed: %v", runID, err)
				return nil
			}
			resp.Homogeneity = payload
			return nil
		})
	}
	_ = g.Wait()

	current := a.finish(stream, runID)
	if err := ctx.Err(); err != nil {
		a.logger.Debug("run %d cancelled: %v", runID, err)
		return outcome
	}
	if !current {
		a.logger.Debug("run %d of stream %q discarded: superseded", runID, stream)
		outcome.Stale = true
		return outcome
	}

	outcome.Result = NormalizeResponse(&resp, req.Alpha)
	return outcome
}

func (a *Adapter) callNormality(ctx context.Context, req assumption.Request) (payload *assumption.NormalityPayload, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()
	return a.backend.TestNormality(ctx, req)
}

func (a *Adapter) callHomogeneity(ctx context.Context, req assumption.Request) (payload *assumption.HomogeneityPayload, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()
	return a.backend.TestHomogeneity(ctx, req)
}
