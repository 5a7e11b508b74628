// Package pipeline coordinates one recognition request: identification,
// evidence gathering, validation, and mode-gated application of the result.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sabitsky/hearitage/internal/cache"
	"github.com/sabitsky/hearitage/internal/evidence"
	"github.com/sabitsky/hearitage/internal/model"
	"github.com/sabitsky/hearitage/internal/recognize"
	"github.com/sabitsky/hearitage/internal/verify"
	"github.com/sabitsky/hearitage/pkg/claude"
)

// Mode controls what happens downstream of recognition.
type Mode string

const (
	// ModeOff skips evidence verification entirely.
	ModeOff Mode = "off"
	// ModeShadow runs verification and logs the outcome but returns the
	// unmodified recognition result.
	ModeShadow Mode = "shadow"
	// ModeEnrich applies verified facts and summary to the response.
	ModeEnrich Mode = "enrich"
)

// ParseMode maps config text onto a mode, falling back to off.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeShadow:
		return ModeShadow
	case ModeEnrich:
		return ModeEnrich
	default:
		return ModeOff
	}
}

// Config holds the pipeline's verification knobs, immutable after start.
type Config struct {
	Mode         Mode
	Budget       evidence.Budget
	DraftTimeout time.Duration
	MaxFacts     int
}

// Pipeline is the root coordinator for recognition requests.
type Pipeline struct {
	runner     *recognize.Runner
	orch       *evidence.Orchestrator
	cache      *cache.ResultCache
	draft      claude.Client
	draftModel string
	cfg        Config
}

// New wires the pipeline from its collaborators. The cache is shared
// process-wide and handed in by reference.
func New(runner *recognize.Runner, orch *evidence.Orchestrator, resultCache *cache.ResultCache, draftClient claude.Client, draftModel string, cfg Config) *Pipeline {
	return &Pipeline{
		runner:     runner,
		orch:       orch,
		cache:      resultCache,
		draft:      draftClient,
		draftModel: draftModel,
		cfg:        cfg,
	}
}

// Recognize runs one request end to end. Once an attribution exists, evidence
// or validation trouble only degrades the enrichment; the attribution is
// always returned.
func (p *Pipeline) Recognize(ctx context.Context, image []byte, mediaType, correlationID string) (*model.RecognitionResult, error) {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	log := zap.L().With(zap.String("request_id", correlationID))

	log.Info("pipeline: request received",
		zap.Int("image_bytes", len(image)),
		zap.String("media_type", mediaType),
	)

	identifyStart := time.Now()
	attribution, err := p.runner.Identify(ctx, image, mediaType)
	identifyMs := time.Since(identifyStart).Milliseconds()
	if err != nil {
		log.Error("pipeline: identification failed",
			zap.Int64("identify_ms", identifyMs),
			zap.Error(err),
		)
		return nil, err
	}

	log.Info("pipeline: subject identified",
		zap.String("title", attribution.Title),
		zap.String("creator", attribution.Creator),
		zap.String("confidence", string(attribution.ConfidenceTier)),
		zap.Int64("identify_ms", identifyMs),
	)

	result := &model.RecognitionResult{
		RequestID:   correlationID,
		Attribution: attribution,
		IdentifyMs:  identifyMs,
	}

	if p.cfg.Mode == ModeOff {
		log.Debug("pipeline: verification off")
		return result, nil
	}

	// Fact-checking an already-uncertain identification wastes budget for
	// no trustworthy gain.
	if attribution.ConfidenceTier == model.ConfidenceLow ||
		model.IsUnknown(attribution.Title) || model.IsUnknown(attribution.Creator) {
		log.Info("pipeline: evidence skipped for uncertain subject",
			zap.String("confidence", string(attribution.ConfidenceTier)),
		)
		return result, nil
	}

	if cached, ok := p.cache.Get(attribution.Title, attribution.Creator); ok {
		log.Info("pipeline: cache hit",
			zap.String("status", string(cached.Status)),
			zap.Int("facts", cached.VerifiedFactCount),
		)
		p.applyByMode(result, cached, true, log)
		return result, nil
	}

	evidenceStart := time.Now()

	// The facts draft overlaps with Phase B: it launches as soon as Phase A
	// coverage is known, bounded by the remaining budget.
	draftCh := make(chan *model.FactsDraft, 1)
	hook := func(primaryScore int, hardStop time.Time) {
		remaining := time.Until(hardStop)
		if primaryScore < 2 || remaining < evidence.MinPhaseBWindow {
			log.Debug("pipeline: facts draft skipped",
				zap.Int("primary_coverage", primaryScore),
				zap.Duration("remaining", remaining),
			)
			draftCh <- nil
			return
		}
		timeout := p.cfg.DraftTimeout
		if remaining < timeout {
			timeout = remaining
		}
		go func() {
			draft, draftErr := generateDraft(ctx, p.draft, p.draftModel, attribution, timeout)
			if draftErr != nil {
				log.Warn("pipeline: facts draft failed", zap.Error(draftErr))
				draftCh <- nil
				return
			}
			draftCh <- draft
		}()
	}

	bundle := p.orch.Fetch(ctx, attribution, p.cfg.Budget, hook)
	draft := <-draftCh
	evidenceMs := time.Since(evidenceStart).Milliseconds()
	result.EvidenceMs = evidenceMs

	log.Info("pipeline: evidence fetched",
		zap.Int("records", len(bundle.Records)),
		zap.Int("coverage", bundle.CoverageScore),
		zap.Int("primary_coverage", bundle.PrimaryCoverageScore),
		zap.Bool("timed_out", bundle.TimedOut),
		zap.Int64("evidence_ms", evidenceMs),
	)
	for _, o := range bundle.Outcomes {
		log.Debug("pipeline: provider outcome",
			zap.String("provider", o.Name),
			zap.Bool("ok", o.OK),
			zap.Int("records", o.RecordCount),
			zap.Int64("latency_ms", o.LatencyMs),
		)
	}

	validateStart := time.Now()
	vr := verify.ValidateAndMerge(attribution, draft, bundle, p.cfg.MaxFacts, evidenceMs, bundle.TimedOut)
	result.ValidateMs = time.Since(validateStart).Milliseconds()

	log.Info("pipeline: validation complete",
		zap.String("status", string(vr.Status)),
		zap.Int("verified_facts", vr.VerifiedFactCount),
		zap.Strings("sources", vr.SourceNamesUsed),
	)

	if vr.Status == model.StatusVerified || vr.Status == model.StatusPartial {
		p.cache.Put(attribution.Title, attribution.Creator, vr)
	}

	p.applyByMode(result, vr, false, log)
	return result, nil
}

// applyByMode applies or withholds a verification result according to the
// operating mode. Shadow mode logs the would-be outcome and leaves the
// response untouched.
func (p *Pipeline) applyByMode(result *model.RecognitionResult, vr model.VerificationResult, fromCache bool, log *zap.Logger) {
	switch p.cfg.Mode {
	case ModeShadow:
		log.Info("pipeline: shadow outcome withheld",
			zap.String("status", string(vr.Status)),
			zap.Int("facts", len(vr.Facts)),
			zap.Strings("sources", vr.SourceNamesUsed),
			zap.Bool("from_cache", fromCache),
		)
	case ModeEnrich:
		if vr.Summary != "" {
			result.Attribution.Summary = vr.Summary
		}
		result.Facts = vr.Facts
		result.VerificationStatus = vr.Status
		result.Sources = vr.SourceNamesUsed
		result.FromCache = fromCache
	}
}
