package pipeline

import (
	"context"
	"log/slog"
	"time"

	"tablesafe.app/concierge/common/id"
	"tablesafe.app/concierge/common/logger"
	"tablesafe.app/concierge/internal/domain"
)

// State is the orchestrator's position in the per-request pipeline.
// Transitions only move forward; Failed is reachable from any running state.
type State string

const (
	StateRouting  State = "ROUTING"
	StateVetting  State = "VETTING"
	StateAuditing State = "AUDITING"
	StateDone     State = "DONE"
	StateFailed   State = "FAILED"
)

const emptyResultNote = "no candidates passed vetting for this location and dietary profile"

// Orchestrator sequences routing, vetting, and auditing for one request and
// is the only component that composes stage outputs into the final result.
// It holds no per-request state between calls and is safe for concurrent use.
type Orchestrator struct {
	router       *IntentRouter
	vetter       *Vetter
	auditor      *Auditor
	stageTimeout time.Duration
}

func NewOrchestrator(router *IntentRouter, vetter *Vetter, auditor *Auditor, stageTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		router:       router,
		vetter:       vetter,
		auditor:      auditor,
		stageTimeout: stageTimeout,
	}
}

// Run executes the pipeline for one query. Each stage runs under a bounded
// timeout and only starts once the previous stage's output is available; a
// stage timeout surfaces as an upstream failure. An empty vetting result
// short-circuits auditing and is a valid outcome, not an error.
func (o *Orchestrator) Run(ctx context.Context, q domain.Query) (*domain.Result, error) {
	requestID := id.New()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		RequestID: logger.Ptr(requestID),
		Component: "concierge.pipeline.orchestrator",
	})

	sc := logger.StartSpan(ctx, "pipeline.run")
	defer sc.End()
	ctx = sc.Context()

	start := time.Now()
	state := StateRouting
	slog.InfoContext(ctx, "pipeline starting", "state", state)

	track, err := o.route(ctx, q)
	if err != nil {
		return nil, o.fail(ctx, sc, state, err)
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{Track: logger.Ptr(string(track))})

	state = o.advance(ctx, state, StateVetting)
	candidates, err := o.vet(ctx, track, q)
	if err != nil {
		return nil, o.fail(ctx, sc, state, err)
	}

	if len(candidates) == 0 {
		state = o.advance(ctx, state, StateDone)
		slog.InfoContext(ctx, "pipeline completed with empty result",
			"duration_ms", time.Since(start).Milliseconds())
		return &domain.Result{
			ID:         requestID,
			Track:      track,
			Candidates: []domain.Candidate{},
			Note:       emptyResultNote,
		}, nil
	}

	state = o.advance(ctx, state, StateAuditing)
	report, err := o.audit(ctx, q, candidates)
	if err != nil {
		return nil, o.fail(ctx, sc, state, err)
	}

	o.advance(ctx, state, StateDone)
	slog.InfoContext(ctx, "pipeline completed",
		"candidates", len(candidates),
		"score", report.Score,
		"verdict", report.Verdict,
		"duration_ms", time.Since(start).Milliseconds())

	return &domain.Result{
		ID:         requestID,
		Track:      track,
		Candidates: candidates,
		Audit:      report,
	}, nil
}

func (o *Orchestrator) route(ctx context.Context, q domain.Query) (domain.Track, error) {
	sc := logger.StartSpan(ctx, "pipeline.routing")
	defer sc.End()

	ctx, cancel := context.WithTimeout(sc.Context(), o.stageTimeout)
	defer cancel()

	return o.router.Classify(ctx, q)
}

func (o *Orchestrator) vet(ctx context.Context, track domain.Track, q domain.Query) ([]domain.Candidate, error) {
	sc := logger.StartSpan(ctx, "pipeline.vetting")
	defer sc.End()

	ctx, cancel := context.WithTimeout(sc.Context(), o.stageTimeout)
	defer cancel()

	return o.vetter.Vet(ctx, track, q)
}

func (o *Orchestrator) audit(ctx context.Context, q domain.Query, candidates []domain.Candidate) (*domain.AuditReport, error) {
	sc := logger.StartSpan(ctx, "pipeline.auditing")
	defer sc.End()

	ctx, cancel := context.WithTimeout(sc.Context(), o.stageTimeout)
	defer cancel()

	return o.auditor.Audit(ctx, q, candidates)
}

func (o *Orchestrator) advance(ctx context.Context, from, to State) State {
	slog.DebugContext(ctx, "pipeline state transition", "from", from, "to", to)
	return to
}

func (o *Orchestrator) fail(ctx context.Context, sc *logger.SpanContext, from State, err error) error {
	sc.RecordError(err)

	kind, _ := domain.KindOf(err)
	slog.ErrorContext(ctx, "pipeline failed",
		"from", from,
		"to", StateFailed,
		"kind", kind,
		"error", err)
	return err
}
