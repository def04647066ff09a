// =============================================================================
// Fuel Journal Stats - Configuration Module
// =============================================================================
//
// This module loads the application configuration.
//
// SOURCES (later ones win):
//   1. Built-in defaults (setDefaults)
//   2. The YAML config file (config.yaml unless --config says otherwise)
//   3. A .env file in the working directory, if present
//   4. FUELSTATS_* environment variables (e.g. FUELSTATS_MONTHS_DIR)
//
// A missing config file is not an error: the defaults describe the layout the
// terminal exports use (month directories named YYYYMM next to the binary).
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/fuelstats/internal/logger"
	"github.com/ginjaninja78/fuelstats/internal/logparser"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "FUELSTATS"

// DotEnvPath is the .env file loaded before the environment is read.
var DotEnvPath = ".env"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// MonthsDir contains one sub-directory per month (YYYYMM), each holding
	// one journal file per day (YYYYMMDD.txt).
	// Default: "./"
	MonthsDir string `mapstructure:"months_dir" yaml:"months_dir"`

	// Workbook is the results spreadsheet. It is created if missing; existing
	// month sheets are replaced when a month is analyzed again.
	// Default: "./results.xlsx"
	Workbook string `mapstructure:"workbook" yaml:"workbook"`

	// DayFilePattern selects the day journals inside a month directory.
	// Default: "*.txt"
	DayFilePattern string `mapstructure:"day_file_pattern" yaml:"day_file_pattern"`

	// MarkerFile is created in a month directory once it has been analyzed.
	// Months holding it are skipped.
	// Default: "ALREADY_ANALYZED"
	MarkerFile string `mapstructure:"marker_file" yaml:"marker_file"`

	// DiagnosticsDir receives one diagnostics_YYYYMM.yaml per month.
	// Default: the workbook's directory
	DiagnosticsDir string `mapstructure:"diagnostics_dir" yaml:"diagnostics_dir"`

	// ArchiveDB is an optional SQLite database that receives every resolved
	// transaction. Empty disables archiving.
	ArchiveDB string `mapstructure:"archive_db" yaml:"archive_db"`

	// =========================================================================
	// PARSING SETTINGS
	// =========================================================================

	// Encoding of the day journals. Any WHATWG label, e.g. "windows-1252".
	// Default: "utf-8"
	Encoding string `mapstructure:"encoding" yaml:"encoding"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of day files extracted at once.
	// Set to 1 for sequential processing.
	// Default: 4
	MaxConcurrency int `mapstructure:"max_concurrency" yaml:"max_concurrency"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel: "debug", "info", "warn" or "error". Default: "info"
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// LogFormat: "console" or "json". Default: "console"
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// diagnosticsDerived is set when DiagnosticsDir follows the workbook.
	diagnosticsDerived bool
}

// SetPaths overrides the months directory and the workbook when the
// arguments are not empty. A diagnostics directory derived from the old
// workbook moves with the new one.
func (c *MainConfig) SetPaths(monthsDir, workbook string) {
	if monthsDir != "" {
		c.MonthsDir = monthsDir
	}
	if workbook != "" {
		c.Workbook = workbook
		if c.diagnosticsDerived {
			c.DiagnosticsDir = filepath.Dir(workbook)
		}
	}
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// LoadMainConfig loads the main configuration.
//
// PARAMETERS:
//   - configPath: The path to the YAML configuration file. It may not exist.
//
// RETURNS:
//   - A pointer to the MainConfig struct, with defaults applied.
//   - An error if the file exists but cannot be parsed, or a value is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	if err := loadDotEnv(DotEnvPath); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config MainConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadDotEnv loads path into the process environment when it exists.
// Variables already set are not overridden.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}

// setDefaults registers every key, which also lets AutomaticEnv find the
// matching FUELSTATS_* variable during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("months_dir", "./")
	v.SetDefault("workbook", "./results.xlsx")
	v.SetDefault("day_file_pattern", "*.txt")
	v.SetDefault("marker_file", "ALREADY_ANALYZED")
	v.SetDefault("diagnostics_dir", "")
	v.SetDefault("archive_db", "")
	v.SetDefault("encoding", "utf-8")
	v.SetDefault("max_concurrency", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// applyMainConfigDefaults fills options left empty by an explicit blank value.
func applyMainConfigDefaults(config *MainConfig) {
	if config.MonthsDir == "" {
		config.MonthsDir = "./"
	}
	if config.Workbook == "" {
		config.Workbook = "./results.xlsx"
	}
	if config.DayFilePattern == "" {
		config.DayFilePattern = "*.txt"
	}
	if config.MarkerFile == "" {
		config.MarkerFile = "ALREADY_ANALYZED"
	}
	if config.DiagnosticsDir == "" {
		config.DiagnosticsDir = filepath.Dir(config.Workbook)
		config.diagnosticsDerived = true
	}
	if config.Encoding == "" {
		config.Encoding = "utf-8"
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	if config.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", config.MaxConcurrency)
	}
	if _, err := filepath.Match(config.DayFilePattern, "20150302.txt"); err != nil {
		return fmt.Errorf("day_file_pattern %q: %w", config.DayFilePattern, err)
	}
	if strings.ContainsRune(config.MarkerFile, filepath.Separator) {
		return fmt.Errorf("marker_file must be a file name, got %q", config.MarkerFile)
	}
	if !logparser.ValidEncoding(config.Encoding) {
		return fmt.Errorf("unsupported encoding %q", config.Encoding)
	}
	if !slices.Contains(logger.Levels, strings.ToLower(config.LogLevel)) {
		return fmt.Errorf("log_level must be one of %v, got %q", logger.Levels, config.LogLevel)
	}
	if !slices.Contains(logger.Formats, strings.ToLower(config.LogFormat)) {
		return fmt.Errorf("log_format must be one of %v, got %q", logger.Formats, config.LogFormat)
	}
	return nil
}
