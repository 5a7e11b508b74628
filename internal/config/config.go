package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Anthropic    AnthropicConfig    `yaml:"anthropic" mapstructure:"anthropic"`
	Verification VerificationConfig `yaml:"verification" mapstructure:"verification"`
	HarvardArt   HarvardArtConfig   `yaml:"harvardart" mapstructure:"harvardart"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings. DraftModel is the cheaper
// model used for the facts draft; Model does the vision passes.
type AnthropicConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	Model      string `yaml:"model" mapstructure:"model"`
	DraftModel string `yaml:"draft_model" mapstructure:"draft_model"`
}

// VerificationConfig configures the evidence verification stage.
type VerificationConfig struct {
	Mode              string `yaml:"mode" mapstructure:"mode"`
	BudgetMs          int    `yaml:"budget_ms" mapstructure:"budget_ms"`
	ProviderTimeoutMs int    `yaml:"provider_timeout_ms" mapstructure:"provider_timeout_ms"`
	PhaseABudgetMs    int    `yaml:"phase_a_budget_ms" mapstructure:"phase_a_budget_ms"`
	ResponseBufferMs  int    `yaml:"response_buffer_ms" mapstructure:"response_buffer_ms"`
	DraftTimeoutMs    int    `yaml:"draft_timeout_ms" mapstructure:"draft_timeout_ms"`
	MaxFacts          int    `yaml:"max_facts" mapstructure:"max_facts"`
	CacheTTLMs        int    `yaml:"cache_ttl_ms" mapstructure:"cache_ttl_ms"`
}

// HarvardArtConfig holds the Harvard Art Museums API key. The provider is
// only registered when the key is set.
type HarvardArtConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("HEARITAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.draft_model", "claude-haiku-4-5-20251001")
	v.SetDefault("verification.mode", "enrich")
	v.SetDefault("verification.budget_ms", 8000)
	v.SetDefault("verification.provider_timeout_ms", 2500)
	v.SetDefault("verification.phase_a_budget_ms", 4000)
	v.SetDefault("verification.response_buffer_ms", 400)
	v.SetDefault("verification.draft_timeout_ms", 2500)
	v.SetDefault("verification.max_facts", 3)
	v.SetDefault("verification.cache_ttl_ms", 21600000)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks settings that would otherwise fail deep inside a request.
func (c *Config) Validate() error {
	if c.Anthropic.Key == "" {
		return eris.New("config: anthropic.key is required (set HEARITAGE_ANTHROPIC_KEY)")
	}
	switch c.Verification.Mode {
	case "off", "shadow", "enrich":
	default:
		return eris.Errorf("config: unknown verification.mode %q", c.Verification.Mode)
	}
	if c.Verification.BudgetMs <= c.Verification.ResponseBufferMs {
		return eris.New("config: verification.budget_ms must exceed response_buffer_ms")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
