// Package config resolves run settings from defaults, an optional config file, .env and
// TRAJPLOT_* environment variables, and command-line flags (highest precedence).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/iafilius/TrajectoryPlot/src/plot"
	"github.com/iafilius/TrajectoryPlot/src/render"
	"github.com/iafilius/TrajectoryPlot/src/trajectory"
)

// EnvPrefix scopes environment overrides, e.g. TRAJPLOT_DPI=150.
const EnvPrefix = "TRAJPLOT"

// Keys
const (
	KeyInput          = "input"
	KeyOutput         = "output"
	KeyDPI            = "dpi"
	KeyWidthIn        = "width_in"
	KeyHeightIn       = "height_in"
	KeyShowResilience = "show_resilience"
	KeyCaption        = "caption"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
	KeyWatch          = "watch"
	KeyWatchDebounce  = "watch_debounce"
)

// Config is the fully resolved settings for one invocation.
type Config struct {
	Input          string        `mapstructure:"input"`
	Output         string        `mapstructure:"output"`
	DPI            float64       `mapstructure:"dpi"`
	WidthIn        float64       `mapstructure:"width_in"`
	HeightIn       float64       `mapstructure:"height_in"`
	ShowResilience bool          `mapstructure:"show_resilience"`
	Caption        string        `mapstructure:"caption"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	Watch          bool          `mapstructure:"watch"`
	WatchDebounce  time.Duration `mapstructure:"watch_debounce"`
}

// New returns a viper instance with defaults and env binding applied.
func New() *viper.Viper {
	v := viper.New()
	opts := render.DefaultOptions()
	v.SetDefault(KeyInput, trajectory.DefaultInputFile)
	v.SetDefault(KeyOutput, render.DefaultOutputFile)
	v.SetDefault(KeyDPI, opts.DPI)
	v.SetDefault(KeyWidthIn, opts.WidthIn)
	v.SetDefault(KeyHeightIn, opts.HeightIn)
	v.SetDefault(KeyShowResilience, false)
	v.SetDefault(KeyCaption, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyWatch, false)
	v.SetDefault(KeyWatchDebounce, 200*time.Millisecond)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadEnvFile loads .env from the working directory when present. Existing variables win.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ReadFile merges an explicit config file, or trajplot.{yaml,json,toml} from the working
// directory when file is empty. A missing implicit file is not an error.
func ReadFile(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", file, err)
		}
		return nil
	}
	v.SetConfigName("trajplot")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if errors.As(err, &nf) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// BindFlags makes set flags override file and env values. Flag names use dashes.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	return bindErr
}

// Resolve unmarshals and validates the merged settings.
func Resolve(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// Validate rejects settings that cannot produce a figure.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Input) == "" {
		errs = append(errs, errors.New("input path is empty"))
	}
	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, errors.New("output path is empty"))
	}
	if c.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi must be positive, got %v", c.DPI))
	}
	if c.WidthIn <= 0 || c.HeightIn <= 0 {
		errs = append(errs, fmt.Errorf("figure size must be positive, got %vx%v", c.WidthIn, c.HeightIn))
	}
	if c.WatchDebounce < 0 {
		errs = append(errs, fmt.Errorf("watch debounce must not be negative, got %s", c.WatchDebounce))
	}
	return errors.Join(errs...)
}

// Plot converts the settings into the plotting routine's config.
func (c Config) Plot() plot.Config {
	return plot.Config{
		Input:  c.Input,
		Output: c.Output,
		Render: render.Options{
			WidthIn:        c.WidthIn,
			HeightIn:       c.HeightIn,
			DPI:            c.DPI,
			ShowResilience: c.ShowResilience,
			Caption:        c.Caption,
		},
	}
}
