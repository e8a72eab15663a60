// Package config loads and validates detection tuning parameters.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/repgate/repgate/internal/engine"
)

// DefaultConfigPath is the path to the canonical tuning defaults file. The
// checked-in file mirrors the engine's built-in constants; deployments that
// need per-camera retuning edit a copy of it.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig holds optional overrides for the exercise analyzers. All
// fields are pointers so a partial JSON file only overrides what it names;
// unset fields fall back to the engine defaults.
type TuningConfig struct {
	// Shared params
	CalibrationHold *string `json:"calibration_hold,omitempty"` // duration string like "1s"

	// Push-up params
	PushUpHighDeg          *float64 `json:"pushup_high_deg,omitempty"`
	PushUpLowDeg           *float64 `json:"pushup_low_deg,omitempty"`
	PushUpDebounce         *string  `json:"pushup_debounce,omitempty"` // duration string like "200ms"
	PushUpFallbackDropNorm *float64 `json:"pushup_fallback_drop_norm,omitempty"`

	// Squat params
	SquatHighDeg  *float64 `json:"squat_high_deg,omitempty"`
	SquatLowDeg   *float64 `json:"squat_low_deg,omitempty"`
	SquatDebounce *string  `json:"squat_debounce,omitempty"` // duration string like "300ms"

	// Plank params
	PlankAlignmentTolerance *float64 `json:"plank_alignment_tolerance,omitempty"`
	PlankGracePeriod        *string  `json:"plank_grace_period,omitempty"` // duration string like "500ms"
	PlankRepQuantum         *string  `json:"plank_rep_quantum,omitempty"`  // duration string like "20s"
}

// EmptyTuningConfig returns a TuningConfig with all fields unset, meaning
// engine defaults everywhere.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must have
// a .json extension and stay under the max file size. Fields omitted from
// the JSON retain engine defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the override values are individually valid. Cross
// checks (high > low) run against the assembled engine configs, which see
// defaults for unset fields.
func (c *TuningConfig) Validate() error {
	for name, d := range map[string]*string{
		"calibration_hold":   c.CalibrationHold,
		"pushup_debounce":    c.PushUpDebounce,
		"squat_debounce":     c.SquatDebounce,
		"plank_grace_period": c.PlankGracePeriod,
		"plank_rep_quantum":  c.PlankRepQuantum,
	} {
		if d != nil && *d != "" {
			if _, err := time.ParseDuration(*d); err != nil {
				return fmt.Errorf("invalid %s '%s': %w", name, *d, err)
			}
		}
	}

	if err := c.PushUpConfig().Validate(); err != nil {
		return fmt.Errorf("pushup: %w", err)
	}
	if err := c.SquatConfig().Validate(); err != nil {
		return fmt.Errorf("squat: %w", err)
	}
	if err := c.PlankConfig().Validate(); err != nil {
		return fmt.Errorf("plank: %w", err)
	}
	return nil
}

// PushUpConfig assembles the push-up analyzer tuning, engine defaults plus
// any overrides.
func (c *TuningConfig) PushUpConfig() engine.PushUpConfig {
	cfg := engine.DefaultPushUpConfig()
	setFloat(&cfg.Machine.HighThresholdDeg, c.PushUpHighDeg)
	setFloat(&cfg.Machine.LowThresholdDeg, c.PushUpLowDeg)
	setDuration(&cfg.Machine.Debounce, c.PushUpDebounce)
	setDuration(&cfg.Machine.CalibrationHold, c.CalibrationHold)
	setFloat(&cfg.FallbackDropNorm, c.PushUpFallbackDropNorm)
	return cfg
}

// SquatConfig assembles the squat analyzer tuning.
func (c *TuningConfig) SquatConfig() engine.SquatConfig {
	cfg := engine.DefaultSquatConfig()
	setFloat(&cfg.Machine.HighThresholdDeg, c.SquatHighDeg)
	setFloat(&cfg.Machine.LowThresholdDeg, c.SquatLowDeg)
	setDuration(&cfg.Machine.Debounce, c.SquatDebounce)
	setDuration(&cfg.Machine.CalibrationHold, c.CalibrationHold)
	return cfg
}

// PlankConfig assembles the plank analyzer tuning.
func (c *TuningConfig) PlankConfig() engine.PlankConfig {
	cfg := engine.DefaultPlankConfig()
	setFloat(&cfg.AlignmentTolerance, c.PlankAlignmentTolerance)
	setDuration(&cfg.Machine.GracePeriod, c.PlankGracePeriod)
	setDuration(&cfg.Machine.RepQuantum, c.PlankRepQuantum)
	setDuration(&cfg.Machine.CalibrationHold, c.CalibrationHold)
	return cfg
}

// Analyzer builds the analyzer for the named exercise from this tuning.
func (c *TuningConfig) Analyzer(exercise engine.Exercise) (engine.Analyzer, error) {
	switch exercise {
	case engine.PushUp:
		return engine.NewPushUpAnalyzer(c.PushUpConfig()), nil
	case engine.Squat:
		return engine.NewSquatAnalyzer(c.SquatConfig()), nil
	case engine.Plank:
		return engine.NewPlankAnalyzer(c.PlankConfig()), nil
	}
	return nil, fmt.Errorf("unknown exercise %q", exercise)
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *string) {
	if src == nil || *src == "" {
		return
	}
	if d, err := time.ParseDuration(*src); err == nil {
		*dst = d
	}
}
