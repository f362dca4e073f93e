// =============================================================================
// Points Calculator - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the application
// configuration.
//
// CONFIGURATION FILE (config.yaml):
//   calculation: tax, payment discount and points multiplier defaults
//   input:       how uploaded CSV exports are decoded
//   output:      where exports go and how they are named
//   logging:     log level and format
//
// Every setting has a default, so the tool runs without a file. Command-line
// flags override whatever is loaded here.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/points-calculator/internal/engine"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	Calculation CalculationConfig `yaml:"calculation"`
	Input       InputConfig       `yaml:"input"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// CalculationConfig holds the default calculation parameters.
type CalculationConfig struct {
	// SimplesTax is the Simples Nacional tax rate, as a percentage of sales.
	// Default: 8.08
	SimplesTax *float64 `yaml:"simples_tax"`

	// PaymentDiscount is the payment processor fee, as a percentage of sales.
	// Default: 7.0
	PaymentDiscount *float64 `yaml:"payment_discount"`

	// MultiplierMode is "standard" (scenarios 3, 6, 8 and 10) or "custom"
	// (only CustomMultiplier).
	// Default: "standard"
	MultiplierMode string `yaml:"multiplier_mode"`

	// SelectedMultiplier is the scenario shown in standard mode.
	// Default: 3
	SelectedMultiplier float64 `yaml:"selected_multiplier"`

	// CustomMultiplier is the only scenario in custom mode.
	// Default: 3
	CustomMultiplier float64 `yaml:"custom_multiplier"`
}

// InputConfig controls how uploaded files are decoded.
type InputConfig struct {
	// CSVDelimiters are the delimiters tried when reading a CSV export.
	// The one yielding the most header columns wins.
	// Default: [",", ";", "\t"]
	CSVDelimiters []string `yaml:"csv_delimiters"`

	// Encoding is the character encoding of CSV exports.
	// Valid values: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// Sheet is the spreadsheet tab to read. Empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

// OutputConfig controls exports and console pagination.
type OutputConfig struct {
	// OutputDir is where exports and run summaries are written when the
	// export path given on the command line has no directory.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// FileNameFormat names generated exports.
	// Placeholders: {uuid}, {timestamp}, {date}, {time}, {type}
	// Default: "pontos_{type}_{timestamp}.xlsx"
	FileNameFormat string `yaml:"file_name_format"`

	// PageSize is the number of rows per page in console views.
	// Default: 10
	PageSize int `yaml:"page_size"`

	// WriteSummary writes a plain-text run summary next to each export.
	// Default: false
	WriteSummary bool `yaml:"write_summary"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is "console" for human-readable output or "json".
	// Default: "console"
	LogFormat string `yaml:"log_format"`
}

// =============================================================================
// LOADING
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration file at path.
//
// When the file does not exist and required is false, defaults are
// returned. A file that exists but cannot be parsed or validated is always
// an error.
func Load(path string, required bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration data, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	calc := &cfg.Calculation
	if calc.SimplesTax == nil {
		v := engine.DefaultSimplesTax
		calc.SimplesTax = &v
	}
	if calc.PaymentDiscount == nil {
		v := engine.DefaultPaymentDiscount
		calc.PaymentDiscount = &v
	}
	if calc.MultiplierMode == "" {
		calc.MultiplierMode = string(engine.ModeStandard)
	}
	if calc.SelectedMultiplier == 0 {
		calc.SelectedMultiplier = engine.DefaultMultiplier
	}
	if calc.CustomMultiplier == 0 {
		calc.CustomMultiplier = engine.DefaultMultiplier
	}

	if len(cfg.Input.CSVDelimiters) == 0 {
		cfg.Input.CSVDelimiters = []string{",", ";", "\t"}
	}
	if cfg.Input.Encoding == "" {
		cfg.Input.Encoding = "UTF-8"
	}

	if cfg.Output.OutputDir == "" {
		cfg.Output.OutputDir = "./output"
	}
	if cfg.Output.FileNameFormat == "" {
		cfg.Output.FileNameFormat = "pontos_{type}_{timestamp}.xlsx"
	}
	if cfg.Output.PageSize == 0 {
		cfg.Output.PageSize = 10
	}

	if cfg.Logging.LogLevel == "" {
		cfg.Logging.LogLevel = "info"
	}
	if cfg.Logging.LogFormat == "" {
		cfg.Logging.LogFormat = "console"
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for values the calculator cannot use.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}

	switch strings.ToUpper(c.Input.Encoding) {
	case "UTF-8", "UTF8", "ISO-8859-1", "LATIN1", "WINDOWS-1252", "CP1252":
	default:
		return fmt.Errorf("unsupported encoding %q", c.Input.Encoding)
	}

	for _, d := range c.Input.CSVDelimiters {
		if _, ok := DelimiterRune(d); !ok {
			return fmt.Errorf("invalid csv delimiter %q", d)
		}
	}

	if c.Output.PageSize < 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.Output.PageSize)
	}

	switch strings.ToLower(c.Logging.LogFormat) {
	case "console", "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Logging.LogFormat)
	}

	return nil
}

// Params converts the calculation section into engine parameters.
func (c *Config) Params() engine.Params {
	p := engine.DefaultParams()
	if c.Calculation.SimplesTax != nil {
		p.SimplesTax = *c.Calculation.SimplesTax
	}
	if c.Calculation.PaymentDiscount != nil {
		p.PaymentDiscount = *c.Calculation.PaymentDiscount
	}
	p.Mode = engine.Mode(strings.ToLower(c.Calculation.MultiplierMode))
	p.SelectedMultiplier = c.Calculation.SelectedMultiplier
	p.CustomMultiplier = c.Calculation.CustomMultiplier
	return p
}

// DelimiterRune maps a configured delimiter to the rune encoding/csv uses.
// Named forms ("tab", "pipe", "semicolon") are accepted alongside literals.
func DelimiterRune(d string) (rune, bool) {
	switch strings.ToLower(d) {
	case "\t", "\\t", "tab":
		return '\t', true
	case "|", "pipe":
		return '|', true
	case ";", "semicolon":
		return ';', true
	case ",", "comma":
		return ',', true
	}
	r := []rune(d)
	if len(r) != 1 || r[0] == '"' || r[0] == '\r' || r[0] == '\n' {
		return 0, false
	}
	return r[0], true
}
