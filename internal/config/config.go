// Package config loads application settings from config.yaml and HOTELMAP_*
// environment variables and bootstraps the global logger.
package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Crawler   CrawlerConfig   `yaml:"crawler" mapstructure:"crawler"`
	Matching  MatchingConfig  `yaml:"matching" mapstructure:"matching"`
	Registry  RegistryConfig  `yaml:"registry" mapstructure:"registry"`
	Locations LocationsConfig `yaml:"locations" mapstructure:"locations"`
	Snapshot  SnapshotConfig  `yaml:"snapshot" mapstructure:"snapshot"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the trigger server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port" validate:"gte=1,lte=65535"`
}

// StoreConfig configures the database backend. MaxConns and MinConns are
// Postgres pool bounds; zero keeps the store defaults.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver" validate:"oneof=postgres sqlite"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Table       string `yaml:"table" mapstructure:"table"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns" validate:"gte=0"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns" validate:"gte=0"`
}

// CrawlerConfig configures the browser collaborator.
type CrawlerConfig struct {
	Headless   bool          `yaml:"headless" mapstructure:"headless"`
	NavTimeout time.Duration `yaml:"nav_timeout" mapstructure:"nav_timeout" validate:"gt=0"`
	RetryLimit int           `yaml:"retry_limit" mapstructure:"retry_limit" validate:"gte=1"`
	RetryDelay time.Duration `yaml:"retry_delay" mapstructure:"retry_delay" validate:"gte=0"`
	RateLimit  float64       `yaml:"rate_limit" mapstructure:"rate_limit" validate:"gte=0"`
	Burst      int           `yaml:"burst" mapstructure:"burst" validate:"gte=0"`
	ChromePath string        `yaml:"chrome_path" mapstructure:"chrome_path"`
}

// MatchingConfig configures the scoring decision.
type MatchingConfig struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold" validate:"gte=0,lte=100"`
}

// RegistryConfig points at the masterfile workbook.
type RegistryConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	SheetIndex int    `yaml:"sheet_index" mapstructure:"sheet_index" validate:"gte=0"`
	SheetName  string `yaml:"sheet_name" mapstructure:"sheet_name"`
}

// LocationsConfig points at the seed location list.
type LocationsConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SnapshotConfig points at the JSON mirror of the latest run.
type SnapshotConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
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
	v.SetEnvPrefix("HOTELMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8000)
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.table", "hotel_mapped_url")
	v.SetDefault("crawler.headless", true)
	v.SetDefault("crawler.nav_timeout", 25*time.Second)
	v.SetDefault("crawler.retry_limit", 3)
	v.SetDefault("crawler.retry_delay", 2*time.Second)
	v.SetDefault("crawler.rate_limit", 1.0)
	v.SetDefault("crawler.burst", 1)
	v.SetDefault("matching.fuzzy_threshold", 85.0)
	v.SetDefault("registry.sheet_index", 0)
	v.SetDefault("locations.path", "locations.json")
	v.SetDefault("snapshot.path", "hotel_url_mapped.json")
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

// Validate checks field ranges and then the presence of everything mode
// needs. Mode "reconcile" covers commands that execute a run (run, serve);
// mode "store" covers commands that only touch the database (migrate, runs).
func (c *Config) Validate(mode string) error {
	if err := validate.Struct(c); err != nil {
		return eris.Wrap(err, "config: validate")
	}

	var missing []string
	requireStore := func() {
		if c.Store.DatabaseURL == "" {
			missing = append(missing, "store.database_url is required")
		}
	}

	switch mode {
	case "reconcile":
		requireStore()
		if c.Registry.Path == "" {
			missing = append(missing, "registry.path is required")
		}
		if c.Locations.Path == "" {
			missing = append(missing, "locations.path is required")
		}
		if c.Snapshot.Path == "" {
			missing = append(missing, "snapshot.path is required")
		}
	case "store":
		requireStore()
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, ", "))
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
