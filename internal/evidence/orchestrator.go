// Package evidence runs the knowledge providers under a global time budget
// and assembles their claims into a single bundle.
package evidence

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sabitsky/hearitage/internal/evidence/provider"
	"github.com/sabitsky/hearitage/internal/model"
)

// MinPhaseBWindow is the least remaining time worth spending on secondary
// providers; below it Phase B is skipped outright.
const MinPhaseBWindow = 220 * time.Millisecond

// Budget carries the deadline arithmetic inputs for one fetch.
type Budget struct {
	// Global bounds the whole evidence stage.
	Global time.Duration
	// PerProvider caps any single secondary provider query.
	PerProvider time.Duration
	// PhaseA bounds the primary-source phase.
	PhaseA time.Duration
	// ResponseBuffer is reserved at the end of Global for assembling and
	// returning the response after providers finish.
	ResponseBuffer time.Duration
}

// PhaseAHook is invoked between phases with the primary-only coverage score
// and the hard stop, letting the caller overlap work (the facts-draft call)
// with Phase B.
type PhaseAHook func(primaryScore int, hardStop time.Time)

// Orchestrator fans out to registered providers in two budgeted phases.
type Orchestrator struct {
	registry *provider.Registry
}

// NewOrchestrator creates an orchestrator over a provider registry.
func NewOrchestrator(registry *provider.Registry) *Orchestrator {
	return &Orchestrator{registry: registry}
}

// Fetch gathers evidence for the subject. Phase A queries only the primary
// source inside min(hardStop, PhaseA budget); Phase B queries all secondary
// providers concurrently only if enough budget remains. Provider failures
// degrade the bundle and never surface as errors.
func (o *Orchestrator) Fetch(ctx context.Context, subject model.Attribution, budget Budget, hook PhaseAHook) *model.EvidenceBundle {
	start := time.Now()
	deadline := start.Add(budget.Global)
	hardStop := deadline.Add(-budget.ResponseBuffer)

	bundle := &model.EvidenceBundle{}

	// Phase A: primary source only.
	phaseAEnd := start.Add(budget.PhaseA)
	if phaseAEnd.After(hardStop) {
		phaseAEnd = hardStop
	}
	if primary := o.registry.Primary(); primary != nil && time.Until(phaseAEnd) > 0 {
		outcome, records := o.runProvider(ctx, primary, phaseAEnd, subject)
		bundle.Outcomes = append(bundle.Outcomes, outcome)
		bundle.Records = append(bundle.Records, records...)
	}

	bundle.PrimaryCoverageScore = len(model.CoverageOf(bundle.Records))
	if hook != nil {
		hook(bundle.PrimaryCoverageScore, hardStop)
	}

	// Phase B: secondary catalogs, concurrent, each independently time-boxed.
	remaining := time.Until(hardStop)
	secondaries := o.registry.Secondaries()
	if remaining >= MinPhaseBWindow && len(secondaries) > 0 {
		perTimeout := budget.PerProvider
		if capped := remaining * 9 / 10; capped < perTimeout {
			perTimeout = capped
		}
		stopAt := time.Now().Add(perTimeout)
		if stopAt.After(hardStop) {
			stopAt = hardStop
		}

		var mu sync.Mutex
		g, gCtx := errgroup.WithContext(ctx)
		for _, p := range secondaries {
			g.Go(func() error {
				outcome, records := o.runProvider(gCtx, p, stopAt, subject)
				mu.Lock()
				bundle.Outcomes = append(bundle.Outcomes, outcome)
				bundle.Records = append(bundle.Records, records...)
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	} else {
		zap.L().Debug("evidence: phase B skipped",
			zap.Duration("remaining", remaining),
			zap.Int("secondaries", len(secondaries)),
		)
	}

	bundle.ComputeCoverage()
	bundle.TimedOut = time.Now().After(deadline)
	return bundle
}

// runProvider executes one provider under its own deadline, converting any
// failure into a zero-record outcome.
func (o *Orchestrator) runProvider(ctx context.Context, p provider.Provider, stopAt time.Time, subject model.Attribution) (model.ProviderOutcome, []model.EvidenceRecord) {
	pctx, cancel := context.WithDeadline(ctx, stopAt)
	defer cancel()

	start := time.Now()
	res, err := p.Fetch(pctx, subject)
	outcome := model.ProviderOutcome{
		Name:        p.Name(),
		URL:         res.SourceURL,
		Tier:        p.Tier(),
		LatencyMs:   time.Since(start).Milliseconds(),
		OK:          err == nil,
		RecordCount: len(res.Records),
	}

	if err != nil {
		zap.L().Warn("evidence: provider failed",
			zap.String("provider", p.Name()),
			zap.Int64("latency_ms", outcome.LatencyMs),
			zap.Error(err),
		)
		return outcome, nil
	}
	return outcome, res.Records
}
