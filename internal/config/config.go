// Package config loads the application configuration from file and
// environment and initializes the global logger.
package config

import (
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/formsource/orderload/internal/build"
)

// Config holds the full application configuration.
type Config struct {
	Convert  ConvertConfig  `yaml:"convert" mapstructure:"convert"`
	Seeds    build.Seeds    `yaml:"seeds" mapstructure:"seeds"`
	Lookup   LookupConfig   `yaml:"lookup" mapstructure:"lookup"`
	Ledger   LedgerConfig   `yaml:"ledger" mapstructure:"ledger"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ConvertConfig configures the conversion run itself.
type ConvertConfig struct {
	Input  string `yaml:"input" mapstructure:"input"`
	Output string `yaml:"output" mapstructure:"output"`
	// UserID is the owning user written to every created record; the export
	// carries no user column.
	UserID int64 `yaml:"user_id" mapstructure:"user_id"`
	// Timestamp is written to every created_at/updated_at field, format
	// "2006-01-02 15:04:05". Empty means the run's start time; set it
	// explicitly when byte-identical re-renders matter.
	Timestamp string `yaml:"timestamp" mapstructure:"timestamp"`
}

// LookupConfig points at the label→code tables file.
type LookupConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LedgerConfig configures the local import-run ledger.
type LedgerConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// DatabaseConfig configures the load destination.
type DatabaseConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
}

// ServerConfig configures the conversion HTTP server.
type ServerConfig struct {
	Port      int     `yaml:"port" mapstructure:"port"`
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst"`
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
	v.SetEnvPrefix("ORDERLOAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("convert.input", "input.csv")
	v.SetDefault("convert.output", "output.sql")
	v.SetDefault("convert.user_id", 1)
	v.SetDefault("seeds.order", 1000)
	v.SetDefault("seeds.order_item", 1000)
	v.SetDefault("seeds.incorporation", 1000)
	v.SetDefault("seeds.itin_application", 1000)
	v.SetDefault("seeds.operating_agreement", 1000)
	v.SetDefault("ledger.path", "orderload.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 2.0)
	v.SetDefault("server.rate_burst", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the configuration for the given command mode. It collects
// every problem instead of stopping at the first.
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Convert.UserID <= 0 {
		problems = append(problems, "convert.user_id must be > 0")
	}
	if c.Convert.Timestamp != "" {
		if _, err := time.Parse("2006-01-02 15:04:05", c.Convert.Timestamp); err != nil {
			problems = append(problems, "convert.timestamp must match 2006-01-02 15:04:05")
		}
	}
	for name, seed := range map[string]int64{
		"seeds.order":               c.Seeds.Order,
		"seeds.order_item":          c.Seeds.OrderItem,
		"seeds.incorporation":       c.Seeds.Incorporation,
		"seeds.itin_application":    c.Seeds.ITINApplication,
		"seeds.operating_agreement": c.Seeds.OperatingAgreement,
	} {
		if seed <= 0 {
			problems = append(problems, name+" must be > 0")
		}
	}

	switch mode {
	case "convert", "inspect":
	case "load", "runs":
		if c.Ledger.Path == "" {
			problems = append(problems, "ledger.path is required")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be between 1 and 65535")
		}
		if c.Server.RateLimit <= 0 {
			problems = append(problems, "server.rate_limit must be > 0")
		}
		if c.Server.RateBurst < 1 {
			problems = append(problems, "server.rate_burst must be >= 1")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	sort.Strings(problems)
	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
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
