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
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	GitHub     GitHubConfig     `yaml:"github" mapstructure:"github"`
	NPM        NPMConfig        `yaml:"npm" mapstructure:"npm"`
	Google     GoogleConfig     `yaml:"google" mapstructure:"google"`
	DuckDuckGo DuckDuckGoConfig `yaml:"duckduckgo" mapstructure:"duckduckgo"`
	Resolve    ResolveConfig    `yaml:"resolve" mapstructure:"resolve"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run audit store.
type StoreConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// GitHubConfig holds GitHub API settings.
type GitHubConfig struct {
	Token     string  `yaml:"token" mapstructure:"token"`
	BaseURL   string  `yaml:"base_url" mapstructure:"base_url"`
	RatePerHr float64 `yaml:"rate_per_hr" mapstructure:"rate_per_hr"`
}

// NPMConfig holds npm registry settings.
type NPMConfig struct {
	BaseURL          string `yaml:"base_url" mapstructure:"base_url"`
	DownloadsBaseURL string `yaml:"downloads_base_url" mapstructure:"downloads_base_url"`
}

// GoogleConfig holds Google Custom Search settings.
type GoogleConfig struct {
	Key      string `yaml:"key" mapstructure:"key"`
	EngineID string `yaml:"engine_id" mapstructure:"engine_id"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
}

// DuckDuckGoConfig holds DuckDuckGo settings.
type DuckDuckGoConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ResolveConfig configures fallback chain behavior.
type ResolveConfig struct {
	TimeoutSecs      int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries          int `yaml:"retries" mapstructure:"retries"`
	MaxConcurrent    int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	BreakerFailures  int `yaml:"breaker_failures" mapstructure:"breaker_failures"`
	BreakerResetSecs int `yaml:"breaker_reset_secs" mapstructure:"breaker_reset_secs"`
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
	v.SetEnvPrefix("RESEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.database_url", "research.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("github.base_url", "https://api.github.com")
	v.SetDefault("github.rate_per_hr", 60)
	v.SetDefault("npm.base_url", "https://registry.npmjs.org")
	v.SetDefault("npm.downloads_base_url", "https://api.npmjs.org")
	v.SetDefault("google.base_url", "https://www.googleapis.com/customsearch/v1")
	v.SetDefault("duckduckgo.base_url", "https://api.duckduckgo.com")
	v.SetDefault("resolve.timeout_secs", 15)
	v.SetDefault("resolve.retries", 2)
	v.SetDefault("resolve.max_concurrent", 5)
	v.SetDefault("resolve.breaker_failures", 3)
	v.SetDefault("resolve.breaker_reset_secs", 60)

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
