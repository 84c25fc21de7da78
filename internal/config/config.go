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
	Registry   RegistryConfig   `yaml:"registry" mapstructure:"registry"`
	Snapshot   SnapshotConfig   `yaml:"snapshot" mapstructure:"snapshot"`
	Batch      BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	Relevance  RelevanceConfig  `yaml:"relevance" mapstructure:"relevance"`
	Impact     ImpactConfig     `yaml:"impact" mapstructure:"impact"`
	Confidence ConfidenceConfig `yaml:"confidence" mapstructure:"confidence"`
}

// StoreConfig configures the raw input cache backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// RegistryConfig points at catalog files. Empty paths fall back to the
// built-in defaults.
type RegistryConfig struct {
	ProgramsPath string `yaml:"programs_path" mapstructure:"programs_path"`
	TribesPath   string `yaml:"tribes_path" mapstructure:"tribes_path"`
	RegionsPath  string `yaml:"regions_path" mapstructure:"regions_path"`
}

// SnapshotConfig configures generation-snapshot persistence.
type SnapshotConfig struct {
	Dir      string `yaml:"dir" mapstructure:"dir"`
	MaxBytes int64  `yaml:"max_bytes" mapstructure:"max_bytes"`
}

// BatchConfig configures multi-tribe generation.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the read-only API server.
type ServerConfig struct {
	Port           int     `yaml:"port" mapstructure:"port"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	Burst          int     `yaml:"burst" mapstructure:"burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// RelevanceConfig carries file-level overrides for program relevance
// scoring. Zero values leave the package defaults untouched.
type RelevanceConfig struct {
	MinPrograms    int      `yaml:"min_programs" mapstructure:"min_programs"`
	MaxPrograms    int      `yaml:"max_programs" mapstructure:"max_programs"`
	AbsoluteFloor  int      `yaml:"absolute_floor" mapstructure:"absolute_floor"`
	CriticalBonus  float64  `yaml:"critical_bonus" mapstructure:"critical_bonus"`
	GeoBonus       float64  `yaml:"geo_bonus" mapstructure:"geo_bonus"`
	AlwaysRelevant []string `yaml:"always_relevant" mapstructure:"always_relevant"`
}

// ImpactConfig carries file-level overrides for economic impact
// estimation. Zero values leave the package defaults untouched.
type ImpactConfig struct {
	ImpactLowMultiplier  float64            `yaml:"impact_low_multiplier" mapstructure:"impact_low_multiplier"`
	ImpactHighMultiplier float64            `yaml:"impact_high_multiplier" mapstructure:"impact_high_multiplier"`
	JobsPerMillionLow    float64            `yaml:"jobs_per_million_low" mapstructure:"jobs_per_million_low"`
	JobsPerMillionHigh   float64            `yaml:"jobs_per_million_high" mapstructure:"jobs_per_million_high"`
	MitigationBCR        float64            `yaml:"mitigation_bcr" mapstructure:"mitigation_bcr"`
	DefaultBenchmark     float64            `yaml:"default_benchmark" mapstructure:"default_benchmark"`
	BenchmarkAwards      map[string]float64 `yaml:"benchmark_awards" mapstructure:"benchmark_awards"`
}

// ConfidenceConfig carries file-level overrides for confidence scoring.
// Zero values leave the package defaults untouched; SourceWeights merges
// per key.
type ConfidenceConfig struct {
	DecayRate         float64            `yaml:"decay_rate" mapstructure:"decay_rate"`
	FallbackStaleDays float64            `yaml:"fallback_stale_days" mapstructure:"fallback_stale_days"`
	DefaultWeight     float64            `yaml:"default_weight" mapstructure:"default_weight"`
	SourceWeights     map[string]float64 `yaml:"source_weights" mapstructure:"source_weights"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PACKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "packet.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.requests_per_sec", 10)
	v.SetDefault("server.burst", 20)
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("snapshot.dir", "snapshots")
	v.SetDefault("snapshot.max_bytes", 10<<20)

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

// Validate checks the fields required for the given command mode.
// Modes: "packet", "region", "import", "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "packet", "region", "import", "serve":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			errs = append(errs, "store.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required for the postgres driver")
		}
	default:
		errs = append(errs, "store.driver must be sqlite or postgres")
	}

	if c.Snapshot.MaxBytes <= 0 {
		errs = append(errs, "snapshot.max_bytes must be > 0")
	}
	if c.Batch.Concurrency < 1 || c.Batch.Concurrency > 32 {
		errs = append(errs, "batch.concurrency must be between 1 and 32")
	}
	if mode == "serve" {
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.RequestsPerSec <= 0 {
			errs = append(errs, "server.requests_per_sec must be > 0")
		}
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
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
