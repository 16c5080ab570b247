// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Database
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Batch selection
	Mode        string `json:"mode,omitempty" validate:"omitempty,oneof=single all"` // "single" or "all"
	Batch       string `json:"batch,omitempty"`                                      // Batch name for single mode
	BatchPrefix string `json:"batch_prefix,omitempty"`                               // Naming convention for all mode

	// AI date search
	APIKey        string  `json:"api_key,omitempty"`                                          // Gemini API key
	ModelTier     string  `json:"model_tier,omitempty" validate:"omitempty,oneof=lite standard"` // Model tier for extraction calls
	MinConfidence float64 `json:"min_confidence,omitempty" validate:"gte=0,lte=1"`            // Threshold for applying AI dates

	// Review workflow
	ReviewFile string `json:"review_file,omitempty"` // Path for the review CSV artifact

	// Behavior
	DryRun   bool `json:"dry_run,omitempty"`  // Run transformations but suppress writes
	Metadata bool `json:"metadata,omitempty"` // Attach provenance metadata to enriched documents
	Verbose  bool `json:"verbose,omitempty"`  // Print detailed debug information
}

var validate = validator.New()

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("config error: field %q failed %q validation", first.Field(), first.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	// Cross-field rules the struct tags cannot express
	if c.Mode == "single" && c.Batch == "" {
		return fmt.Errorf("config error: single mode requires 'batch'")
	}
	if c.Mode == "all" && c.Batch != "" {
		return fmt.Errorf("config error: 'batch' and mode \"all\" are mutually exclusive")
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Mode == "" {
		result.Mode = defaults.Mode
	}
	if result.Batch == "" {
		result.Batch = defaults.Batch
	}
	if result.BatchPrefix == "" {
		result.BatchPrefix = defaults.BatchPrefix
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.ModelTier == "" {
		result.ModelTier = defaults.ModelTier
	}
	if result.ReviewFile == "" {
		result.ReviewFile = defaults.ReviewFile
	}

	// Float fields
	if result.MinConfidence == 0 {
		if defaults.MinConfidence > 0 {
			result.MinConfidence = defaults.MinConfidence
		} else {
			result.MinConfidence = 0.7 // Default auto-apply threshold
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
