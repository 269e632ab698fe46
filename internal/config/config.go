package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Scoring ScoringConfig `yaml:"scoring" mapstructure:"scoring"`
	Ingest  IngestConfig  `yaml:"ingest" mapstructure:"ingest"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ScoringConfig holds every threshold used by the scoring rules. It is built
// once per run and passed by value.
type ScoringConfig struct {
	PurchasePower PurchasePowerConfig `yaml:"purchase_power" mapstructure:"purchase_power"`
	DebtAge       DebtAgeConfig       `yaml:"debt_age" mapstructure:"debt_age"`
	Risk          RiskConfig          `yaml:"risk" mapstructure:"risk"`
	Delta         DeltaConfig         `yaml:"delta" mapstructure:"delta"`
	Returns       ReturnsConfig       `yaml:"returns" mapstructure:"returns"`
	Final         FinalConfig         `yaml:"final" mapstructure:"final"`
}

// PurchasePowerConfig holds the minimum percent-of-leader needed for each score.
type PurchasePowerConfig struct {
	Score10 float64 `yaml:"score_10" mapstructure:"score_10"`
	Score8  float64 `yaml:"score_8" mapstructure:"score_8"`
	Score7  float64 `yaml:"score_7" mapstructure:"score_7"`
	Score6  float64 `yaml:"score_6" mapstructure:"score_6"`
	Score5  float64 `yaml:"score_5" mapstructure:"score_5"`
	Score4  float64 `yaml:"score_4" mapstructure:"score_4"`
	Score3  float64 `yaml:"score_3" mapstructure:"score_3"`
	Score2  float64 `yaml:"score_2" mapstructure:"score_2"`
	Score1  float64 `yaml:"score_1" mapstructure:"score_1"`
}

// DebtAgeConfig holds the maximum debt age in days for each commitment score.
// Ages beyond Score2 are penalized per 30 days.
type DebtAgeConfig struct {
	Score5 float64 `yaml:"score_5" mapstructure:"score_5"`
	Score4 float64 `yaml:"score_4" mapstructure:"score_4"`
	Score3 float64 `yaml:"score_3" mapstructure:"score_3"`
	Score2 float64 `yaml:"score_2" mapstructure:"score_2"`
}

// RiskConfig holds the maximum debt/avg-payment ratio for each risk score.
type RiskConfig struct {
	Score5 float64 `yaml:"score_5" mapstructure:"score_5"`
	Score4 float64 `yaml:"score_4" mapstructure:"score_4"`
	Score2 float64 `yaml:"score_2" mapstructure:"score_2"`
	Score1 float64 `yaml:"score_1" mapstructure:"score_1"`
	Score0 float64 `yaml:"score_0" mapstructure:"score_0"`
}

// DeltaConfig configures the simplified trend columns.
type DeltaConfig struct {
	DecimalsPct int `yaml:"decimals_pct" mapstructure:"decimals_pct"`
}

// ReturnsConfig holds the returns-to-benchmark multiples for each label.
type ReturnsConfig struct {
	WithinStandard  float64 `yaml:"within_standard" mapstructure:"within_standard"`
	NeedsMonitoring float64 `yaml:"needs_monitoring" mapstructure:"needs_monitoring"`
	Elevated        float64 `yaml:"elevated" mapstructure:"elevated"`
}

// FinalConfig holds the minimum total score for each final class.
type FinalConfig struct {
	Committed        float64 `yaml:"committed" mapstructure:"committed"`
	Good             float64 `yaml:"good" mapstructure:"good"`
	RescheduleCap    float64 `yaml:"reschedule_cap" mapstructure:"reschedule_cap"`
	RescheduleReduce float64 `yaml:"reschedule_reduce" mapstructure:"reschedule_reduce"`
}

// IngestConfig configures how input files are read and mapped to roles.
type IngestConfig struct {
	Sheet   string              `yaml:"sheet" mapstructure:"sheet"`
	Columns map[string]string   `yaml:"columns" mapstructure:"columns"`
	Aliases map[string][]string `yaml:"aliases" mapstructure:"aliases"`
}

// ExportConfig configures result serialization.
type ExportConfig struct {
	Format   string `yaml:"format" mapstructure:"format"`
	Layout   string `yaml:"layout" mapstructure:"layout"`
	Language string `yaml:"language" mapstructure:"language"`
	Dir      string `yaml:"dir" mapstructure:"dir"`
}

// ServerConfig configures the upload server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	MaxUploadMB    int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
	RatePerSecond  float64  `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultScoringConfig returns the product thresholds. They are also the
// viper defaults, so a run without config.yaml scores with exactly these.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		PurchasePower: PurchasePowerConfig{
			Score10: 50, Score8: 25, Score7: 15, Score6: 10, Score5: 5,
			Score4: 4, Score3: 3, Score2: 2, Score1: 1,
		},
		DebtAge: DebtAgeConfig{
			Score5: 30, Score4: 40, Score3: 51, Score2: 60,
		},
		Risk: RiskConfig{
			Score5: 1.0, Score4: 1.5, Score2: 2.0, Score1: 2.5, Score0: 3.0,
		},
		Delta: DeltaConfig{DecimalsPct: 0},
		Returns: ReturnsConfig{
			WithinStandard: 1.0, NeedsMonitoring: 1.5, Elevated: 2.0,
		},
		Final: FinalConfig{
			Committed: 17, Good: 14, RescheduleCap: 12, RescheduleReduce: 10,
		},
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DEBTRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

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

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.rate_per_second", 2.0)
	v.SetDefault("server.rate_burst", 4)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("export.format", "xlsx")
	v.SetDefault("export.layout", "sheets")
	v.SetDefault("export.language", "ar")
	v.SetDefault("export.dir", ".")

	sc := DefaultScoringConfig()
	v.SetDefault("scoring.purchase_power.score_10", sc.PurchasePower.Score10)
	v.SetDefault("scoring.purchase_power.score_8", sc.PurchasePower.Score8)
	v.SetDefault("scoring.purchase_power.score_7", sc.PurchasePower.Score7)
	v.SetDefault("scoring.purchase_power.score_6", sc.PurchasePower.Score6)
	v.SetDefault("scoring.purchase_power.score_5", sc.PurchasePower.Score5)
	v.SetDefault("scoring.purchase_power.score_4", sc.PurchasePower.Score4)
	v.SetDefault("scoring.purchase_power.score_3", sc.PurchasePower.Score3)
	v.SetDefault("scoring.purchase_power.score_2", sc.PurchasePower.Score2)
	v.SetDefault("scoring.purchase_power.score_1", sc.PurchasePower.Score1)

	v.SetDefault("scoring.debt_age.score_5", sc.DebtAge.Score5)
	v.SetDefault("scoring.debt_age.score_4", sc.DebtAge.Score4)
	v.SetDefault("scoring.debt_age.score_3", sc.DebtAge.Score3)
	v.SetDefault("scoring.debt_age.score_2", sc.DebtAge.Score2)

	v.SetDefault("scoring.risk.score_5", sc.Risk.Score5)
	v.SetDefault("scoring.risk.score_4", sc.Risk.Score4)
	v.SetDefault("scoring.risk.score_2", sc.Risk.Score2)
	v.SetDefault("scoring.risk.score_1", sc.Risk.Score1)
	v.SetDefault("scoring.risk.score_0", sc.Risk.Score0)

	v.SetDefault("scoring.delta.decimals_pct", sc.Delta.DecimalsPct)

	v.SetDefault("scoring.returns.within_standard", sc.Returns.WithinStandard)
	v.SetDefault("scoring.returns.needs_monitoring", sc.Returns.NeedsMonitoring)
	v.SetDefault("scoring.returns.elevated", sc.Returns.Elevated)

	v.SetDefault("scoring.final.committed", sc.Final.Committed)
	v.SetDefault("scoring.final.good", sc.Final.Good)
	v.SetDefault("scoring.final.reschedule_cap", sc.Final.RescheduleCap)
	v.SetDefault("scoring.final.reschedule_reduce", sc.Final.RescheduleReduce)
}

// Validate checks the settings a command mode depends on. Scoring thresholds
// are validated separately by the scoring package.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch c.Export.Format {
	case "xlsx", "csv", "json", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("export.format must be one of xlsx, csv, json, sqlite (got %q)", c.Export.Format))
	}
	if c.Export.Layout != "sheets" && c.Export.Layout != "unified" {
		errs = append(errs, fmt.Sprintf("export.layout must be sheets or unified (got %q)", c.Export.Layout))
	}
	if c.Export.Language != "ar" && c.Export.Language != "en" {
		errs = append(errs, fmt.Sprintf("export.language must be ar or en (got %q)", c.Export.Language))
	}

	switch mode {
	case "classify":
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.MaxUploadMB <= 0 {
			errs = append(errs, "server.max_upload_mb must be > 0")
		}
		if c.Server.RatePerSecond <= 0 || c.Server.RateBurst <= 0 {
			errs = append(errs, "server.rate_per_second and server.rate_burst must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
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
