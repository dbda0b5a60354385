// Package config loads the YAML configuration of the mstl command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sartorproj/gomstl/internal/logger"
	"github.com/sartorproj/gomstl/stl"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Decomposition Decomposition `yaml:"decomposition"`
	Input         Input         `yaml:"input"`
	Output        Output        `yaml:"output"`
	Logging       logger.Config `yaml:"logging"`
	Metrics       Metrics       `yaml:"metrics"`
}

// Decomposition holds the settings passed to the MSTL decomposer.
type Decomposition struct {
	Periods         []int    `yaml:"periods" validate:"dive,gte=1"`
	SeasonalWindows []int    `yaml:"seasonal_windows" validate:"dive,gte=3"`
	Iterations      int      `yaml:"iterations" default:"1" validate:"gte=1"`
	BoxCoxLambda    *float64 `yaml:"boxcox_lambda"`
	Robust          bool     `yaml:"robust"`
	TrendWindow     int      `yaml:"trend_window" validate:"omitempty,gte=3"`
	LowPassWindow   int      `yaml:"low_pass_window" validate:"omitempty,gte=3"`
}

// Input selects the CSV file and the columns read from it.
type Input struct {
	Path        string `yaml:"path"`
	ValueColumn string `yaml:"value_column" default:"y"`
	DateColumn  string `yaml:"date_column"`
	IDColumn    string `yaml:"id_column"`
	IDFilter    string `yaml:"id_filter"`
	DateFormat  string `yaml:"date_format" default:"2006-01-02"`
}

// Output selects where and how the decomposition is written.
type Output struct {
	Path        string `yaml:"path"` // Empty writes CSV to stdout
	Format      string `yaml:"format" default:"csv" validate:"oneof=csv snapshot"`
	Compression string `yaml:"compression" default:"zstd" validate:"oneof=none zstd s2 lz4"`
}

// Metrics configures the Prometheus textfile written after a run.
type Metrics struct {
	Textfile string `yaml:"textfile"` // Prometheus text exposition file written after a run
}

var validate = validator.New()

// Default returns the configuration used when no file is given.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config: defaults: %v", err))
	}
	return &c
}

// Load reads and parses a YAML configuration file, fills defaults and
// validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML configuration.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Validate checks the struct tags of c.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// STLParams returns the STL settings of the decomposition section.
func (d Decomposition) STLParams() stl.Params {
	return stl.Params{
		Robust:  d.Robust,
		Trend:   d.TrendWindow,
		LowPass: d.LowPassWindow,
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
