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
	Generate GenerateConfig `yaml:"generate" mapstructure:"generate"`
	GasLift  SweepConfig    `yaml:"gas_lift" mapstructure:"gas_lift"`
	Choke    SweepConfig    `yaml:"choke" mapstructure:"choke"`
	Forest   ForestConfig   `yaml:"forest" mapstructure:"forest"`
	Boost    BoostConfig    `yaml:"boost" mapstructure:"boost"`
	Chart    ChartConfig    `yaml:"chart" mapstructure:"chart"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// GenerateConfig configures synthetic dataset generation.
type GenerateConfig struct {
	Records    int     `yaml:"records" mapstructure:"records"`
	Seed       uint64  `yaml:"seed" mapstructure:"seed"`
	NoiseFrac  float64 `yaml:"noise_frac" mapstructure:"noise_frac"`
	GasRateMin float64 `yaml:"gas_rate_min" mapstructure:"gas_rate_min"`
	GasRateMax float64 `yaml:"gas_rate_max" mapstructure:"gas_rate_max"`
	ChokeMin   float64 `yaml:"choke_min" mapstructure:"choke_min"`
	ChokeMax   float64 `yaml:"choke_max" mapstructure:"choke_max"`
}

// SweepConfig configures one fit-and-scan invocation.
type SweepConfig struct {
	TrainFrac  float64 `yaml:"train_frac" mapstructure:"train_frac"`
	GridPoints int     `yaml:"grid_points" mapstructure:"grid_points"`
}

// ForestConfig holds random-forest hyperparameters (gas-lift model).
type ForestConfig struct {
	Trees       int     `yaml:"trees" mapstructure:"trees"`
	MaxDepth    int     `yaml:"max_depth" mapstructure:"max_depth"`
	MinLeaf     int     `yaml:"min_leaf" mapstructure:"min_leaf"`
	SampleRatio float64 `yaml:"sample_ratio" mapstructure:"sample_ratio"`
}

// BoostConfig holds gradient-boosting hyperparameters (choke model).
type BoostConfig struct {
	Stages       int     `yaml:"stages" mapstructure:"stages"`
	LearningRate float64 `yaml:"learning_rate" mapstructure:"learning_rate"`
	MaxDepth     int     `yaml:"max_depth" mapstructure:"max_depth"`
	MinLeaf      int     `yaml:"min_leaf" mapstructure:"min_leaf"`
}

// ChartConfig configures the optimization-curve image artifact.
type ChartConfig struct {
	Output   string  `yaml:"output" mapstructure:"output"`
	WidthIn  float64 `yaml:"width_in" mapstructure:"width_in"`
	HeightIn float64 `yaml:"height_in" mapstructure:"height_in"`
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
	v.SetEnvPrefix("LIFTOPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("generate.records", 500)
	v.SetDefault("generate.seed", 42)
	v.SetDefault("generate.noise_frac", 0.05)
	v.SetDefault("generate.gas_rate_min", 0.0)
	v.SetDefault("generate.gas_rate_max", 10.0)
	v.SetDefault("generate.choke_min", 0.0)
	v.SetDefault("generate.choke_max", 64.0)
	v.SetDefault("gas_lift.train_frac", 0.8)
	v.SetDefault("gas_lift.grid_points", 100)
	v.SetDefault("choke.train_frac", 0.8)
	v.SetDefault("choke.grid_points", 100)
	v.SetDefault("forest.trees", 100)
	v.SetDefault("forest.max_depth", 8)
	v.SetDefault("forest.min_leaf", 5)
	v.SetDefault("forest.sample_ratio", 1.0)
	v.SetDefault("boost.stages", 100)
	v.SetDefault("boost.learning_rate", 0.1)
	v.SetDefault("boost.max_depth", 3)
	v.SetDefault("boost.min_leaf", 5)
	v.SetDefault("chart.output", "optimization.png")
	v.SetDefault("chart.width_in", 12.0)
	v.SetDefault("chart.height_in", 5.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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

// Validate checks that the configuration is internally consistent.
// All violations are collected into a single error.
func (c *Config) Validate() error {
	var errs []string

	if c.Generate.Records <= 0 {
		errs = append(errs, fmt.Sprintf("generate.records must be > 0, got %d", c.Generate.Records))
	}
	if c.Generate.NoiseFrac < 0 {
		errs = append(errs, fmt.Sprintf("generate.noise_frac must be >= 0, got %g", c.Generate.NoiseFrac))
	}
	if c.Generate.GasRateMin >= c.Generate.GasRateMax {
		errs = append(errs, fmt.Sprintf("generate gas rate bounds inverted: [%g, %g]",
			c.Generate.GasRateMin, c.Generate.GasRateMax))
	}
	if c.Generate.ChokeMin >= c.Generate.ChokeMax {
		errs = append(errs, fmt.Sprintf("generate choke bounds inverted: [%g, %g]",
			c.Generate.ChokeMin, c.Generate.ChokeMax))
	}

	sweeps := map[string]SweepConfig{
		"gas_lift": c.GasLift,
		"choke":    c.Choke,
	}
	for name, s := range sweeps {
		if s.TrainFrac <= 0 || s.TrainFrac >= 1 {
			errs = append(errs, fmt.Sprintf("%s.train_frac must be in (0, 1), got %g", name, s.TrainFrac))
		}
		if s.GridPoints < 2 {
			errs = append(errs, fmt.Sprintf("%s.grid_points must be >= 2, got %d", name, s.GridPoints))
		}
	}

	if c.Forest.Trees <= 0 {
		errs = append(errs, fmt.Sprintf("forest.trees must be > 0, got %d", c.Forest.Trees))
	}
	if c.Forest.SampleRatio <= 0 || c.Forest.SampleRatio > 1 {
		errs = append(errs, fmt.Sprintf("forest.sample_ratio must be in (0, 1], got %g", c.Forest.SampleRatio))
	}
	if c.Boost.Stages <= 0 {
		errs = append(errs, fmt.Sprintf("boost.stages must be > 0, got %d", c.Boost.Stages))
	}
	if c.Boost.LearningRate <= 0 || c.Boost.LearningRate > 1 {
		errs = append(errs, fmt.Sprintf("boost.learning_rate must be in (0, 1], got %g", c.Boost.LearningRate))
	}

	if c.Chart.WidthIn <= 0 || c.Chart.HeightIn <= 0 {
		errs = append(errs, fmt.Sprintf("chart dimensions must be > 0, got %gx%g in",
			c.Chart.WidthIn, c.Chart.HeightIn))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
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
