// Package recognize runs the vision identification passes against the model
// and produces a sanitized subject attribution.
package recognize

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sabitsky/hearitage/internal/model"
	"github.com/sabitsky/hearitage/internal/resilience"
	"github.com/sabitsky/hearitage/pkg/claude"
)

// DefaultPassTimeout bounds one identification call.
const DefaultPassTimeout = 30 * time.Second

const maxResponseTokens = 1024

var allowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Runner performs up to two identification passes per request: the primary
// pass, then a confidence-gated refinement pass whose failure is non-fatal.
type Runner struct {
	client  claude.Client
	model   string
	timeout time.Duration
}

// NewRunner creates a pass runner for the given model selector.
func NewRunner(client claude.Client, modelName string, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultPassTimeout
	}
	return &Runner{client: client, model: modelName, timeout: timeout}
}

// Identify resolves a subject attribution for the image, or fails with a
// classified error. An attribution whose title and creator are both still
// unknown after all passes is a hard failure: it cannot be fact-checked.
func (r *Runner) Identify(ctx context.Context, image []byte, mediaType string) (model.Attribution, error) {
	if len(image) == 0 {
		return model.Attribution{}, resilience.New(resilience.KindBadRequest, eris.New("recognize: empty image"))
	}
	if !allowedMediaTypes[mediaType] {
		return model.Attribution{}, resilience.New(resilience.KindBadRequest, eris.Errorf("recognize: unsupported media type %q", mediaType))
	}

	first, err := r.pass(ctx, image, mediaType, identifyUserPrompt)
	if err != nil {
		return model.Attribution{}, err
	}

	result := first
	if needsRefinement(first) {
		refined, refineErr := r.pass(ctx, image, mediaType, refinePrompt(first))
		if refineErr != nil {
			// Refinement is best-effort; the first pass stands.
			zap.L().Warn("recognize: refinement pass failed, keeping first pass",
				zap.Error(refineErr),
			)
		} else {
			result = refined
		}
	}

	if result.Unresolved() {
		return model.Attribution{}, resilience.New(resilience.KindBadRequest,
			eris.New("recognize: subject unresolved after all passes"))
	}
	return result, nil
}

// needsRefinement gates the second pass on low confidence or unresolved
// identity fields.
func needsRefinement(a model.Attribution) bool {
	return a.ConfidenceTier == model.ConfidenceLow ||
		model.IsUnknown(a.Title) || model.IsUnknown(a.Creator)
}

// pass executes one identification call with the per-call deadline and a
// single retry on retryable failures.
func (r *Runner) pass(ctx context.Context, image []byte, mediaType, userPrompt string) (model.Attribution, error) {
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("claude", "identify")

	return resilience.DoVal(ctx, cfg, func(ctx context.Context) (model.Attribution, error) {
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		resp, err := r.client.CreateMessage(callCtx, claude.MessageRequest{
			Model:     r.model,
			MaxTokens: maxResponseTokens,
			System:    identifySystemPrompt,
			Messages: []claude.Message{{
				Role:           "user",
				Text:           userPrompt,
				ImageMediaType: mediaType,
				ImageData:      image,
			}},
		})
		if err != nil {
			return model.Attribution{}, classifyModelErr(err, callCtx)
		}

		attribution, parseErr := parseAttribution(resp.Text())
		if parseErr != nil {
			// Unparseable output is an upstream fault, worth one retry.
			return model.Attribution{}, resilience.New(resilience.KindUpstream,
				eris.Wrap(parseErr, "recognize: parse model output"))
		}
		return attribution, nil
	})
}

// classifyModelErr maps a model-call failure onto the error taxonomy. The
// per-call deadline is reported as timeout, distinct from transport failures
// and API-level statuses.
func classifyModelErr(err error, callCtx context.Context) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return resilience.New(resilience.KindTimeout, err)
	}

	if status, ok := claude.APIStatus(err); ok {
		msg := strings.ToLower(err.Error())
		if status == 402 || strings.Contains(msg, "billing") || strings.Contains(msg, "credit balance") {
			return resilience.New(resilience.KindBilling, err)
		}
		return resilience.New(resilience.ClassifyStatus(status), err)
	}

	return resilience.New(resilience.KindOf(err), err)
}
