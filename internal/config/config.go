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
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Agent   AgentConfig   `yaml:"agent" mapstructure:"agent"`
	Report  ReportConfig  `yaml:"report" mapstructure:"report"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// CatalogConfig locates the deal dataset. Path is the single explicit
// data-source parameter; the loader's relative fallbacks are a migration aid.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig configures the optional catalog database. An empty driver
// disables the store entirely.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// AgentConfig selects and configures the research collaborator.
type AgentConfig struct {
	Mode         string `yaml:"mode" mapstructure:"mode"` // "graph" or "claude"
	GraphURL     string `yaml:"graph_url" mapstructure:"graph_url"`
	GraphKey     string `yaml:"graph_key" mapstructure:"graph_key"`
	AnthropicKey string `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	ClaudeModel  string `yaml:"claude_model" mapstructure:"claude_model"`
}

// ReportConfig holds report generation defaults.
type ReportConfig struct {
	DefaultModel string `yaml:"default_model" mapstructure:"default_model"`
	DefaultDepth string `yaml:"default_depth" mapstructure:"default_depth"`
}

// BatchConfig bounds batch report generation.
type BatchConfig struct {
	MaxConcurrentReports   int     `yaml:"max_concurrent_reports" mapstructure:"max_concurrent_reports"`
	AgentRequestsPerMinute float64 `yaml:"agent_requests_per_minute" mapstructure:"agent_requests_per_minute"`
}

// ServerConfig configures the HTTP API server.
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
	v.SetEnvPrefix("DEALSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Empty-string defaults register the key so AutomaticEnv
	// picks it up during Unmarshal.
	v.SetDefault("catalog.path", "")
	v.SetDefault("store.driver", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("agent.graph_key", "")
	v.SetDefault("agent.anthropic_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("agent.mode", "graph")
	v.SetDefault("agent.graph_url", "http://localhost:2024")
	v.SetDefault("agent.claude_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("report.default_model", "gemini-2.5-flash-preview-04-17")
	v.SetDefault("report.default_depth", "Standard")
	v.SetDefault("batch.max_concurrent_reports", 2)
	v.SetDefault("batch.agent_requests_per_minute", 6)
	v.SetDefault("store.max_conns", 5)
	v.SetDefault("store.min_conns", 1)

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

// Validate checks the fields required by the given run mode.
func (c *Config) Validate(mode string) error {
	var missing []string

	switch mode {
	case "report", "batch", "serve":
		switch c.Agent.Mode {
		case "graph":
			if c.Agent.GraphURL == "" {
				missing = append(missing, "agent.graph_url is required")
			}
		case "claude":
			if c.Agent.AnthropicKey == "" {
				missing = append(missing, "agent.anthropic_key is required")
			}
		default:
			missing = append(missing, "agent.mode must be graph or claude")
		}
		if mode == "serve" && c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
		if mode == "batch" {
			if c.Batch.MaxConcurrentReports < 1 || c.Batch.MaxConcurrentReports > 10 {
				missing = append(missing, "batch.max_concurrent_reports must be between 1 and 10")
			}
			if c.Batch.AgentRequestsPerMinute <= 0 {
				missing = append(missing, "batch.agent_requests_per_minute must be > 0")
			}
		}
	case "import", "export":
		// Only the catalog source and, for import, the store are needed.
		if mode == "import" {
			if c.Store.Driver == "" {
				missing = append(missing, "store.driver is required")
			}
			if c.Store.DatabaseURL == "" {
				missing = append(missing, "store.database_url is required")
			}
		}
	case "catalog":
		// Catalog inspection works with the empty-catalog fallback.
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Store.Driver != "" && c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		missing = append(missing, "store.driver must be sqlite or postgres")
	}

	if len(missing) > 0 {
		return eris.Errorf("config: %s", strings.Join(missing, "; "))
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
