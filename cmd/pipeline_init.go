package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/sabitsky/hearitage/internal/cache"
	"github.com/sabitsky/hearitage/internal/evidence"
	"github.com/sabitsky/hearitage/internal/evidence/provider"
	"github.com/sabitsky/hearitage/internal/pipeline"
	"github.com/sabitsky/hearitage/internal/recognize"
	"github.com/sabitsky/hearitage/pkg/artic"
	"github.com/sabitsky/hearitage/pkg/claude"
	"github.com/sabitsky/hearitage/pkg/cleveland"
	"github.com/sabitsky/hearitage/pkg/harvardart"
	"github.com/sabitsky/hearitage/pkg/met"
	"github.com/sabitsky/hearitage/pkg/wikipedia"
)

// initPipeline sets up the API clients, provider registry, and the Pipeline.
func initPipeline() (*pipeline.Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	claudeClient := claude.NewClient(cfg.Anthropic.Key)
	runner := recognize.NewRunner(claudeClient, cfg.Anthropic.Model, recognize.DefaultPassTimeout)

	registry := provider.NewRegistry()
	registry.Register(provider.NewWikipedia(wikipedia.NewClient()))
	registry.Register(provider.NewMet(met.NewClient()))
	registry.Register(provider.NewArtic(artic.NewClient()))
	registry.Register(provider.NewCleveland(cleveland.NewClient()))
	if cfg.HarvardArt.Key != "" {
		registry.Register(provider.NewHarvard(harvardart.NewClient(cfg.HarvardArt.Key)))
		zap.L().Info("harvard art museums provider enabled")
	} else {
		zap.L().Debug("HEARITAGE_HARVARDART_KEY not set, Harvard Art Museums provider disabled")
	}

	orch := evidence.NewOrchestrator(registry)
	resultCache := cache.New(time.Duration(cfg.Verification.CacheTTLMs) * time.Millisecond)

	pcfg := pipeline.Config{
		Mode: pipeline.ParseMode(cfg.Verification.Mode),
		Budget: evidence.Budget{
			Global:         time.Duration(cfg.Verification.BudgetMs) * time.Millisecond,
			PerProvider:    time.Duration(cfg.Verification.ProviderTimeoutMs) * time.Millisecond,
			PhaseA:         time.Duration(cfg.Verification.PhaseABudgetMs) * time.Millisecond,
			ResponseBuffer: time.Duration(cfg.Verification.ResponseBufferMs) * time.Millisecond,
		},
		DraftTimeout: time.Duration(cfg.Verification.DraftTimeoutMs) * time.Millisecond,
		MaxFacts:     cfg.Verification.MaxFacts,
	}

	return pipeline.New(runner, orch, resultCache, claudeClient, cfg.Anthropic.DraftModel, pcfg), nil
}
