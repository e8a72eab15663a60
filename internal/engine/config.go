package engine

import (
	"fmt"
	"time"
)

// Default tuning constants. These are the single source of truth for the
// built-in exercise thresholds; config/tuning.defaults.json mirrors them for
// deployments that tune via file.
const (
	// DefaultCalibrationHold is the hold-to-start duration for every
	// exercise.
	DefaultCalibrationHold = 1 * time.Second

	// Push-up: elbow angle thresholds and debounce.
	DefaultPushUpHighDeg  = 140.0
	DefaultPushUpLowDeg   = 120.0
	DefaultPushUpDebounce = 200 * time.Millisecond

	// Squat: knee angle thresholds and debounce.
	DefaultSquatHighDeg  = 150.0
	DefaultSquatLowDeg   = 120.0
	DefaultSquatDebounce = 300 * time.Millisecond

	// Plank: body-alignment tolerance, dropout grace, and hold quantum.
	DefaultPlankAlignmentTolerance = 0.08
	DefaultPlankGracePeriod        = 500 * time.Millisecond
	DefaultPlankRepQuantum         = 20 * time.Second

	// Push-up fallback mapping: the head-Y displacement treated as a full
	// rep depth, and the pseudo-angles it maps onto.
	DefaultPushUpFallbackDropNorm  = 0.12
	DefaultPushUpFallbackTopDeg    = 170.0
	DefaultPushUpFallbackBottomDeg = 100.0
)

// PushUpConfig tunes the push-up analyzer.
type PushUpConfig struct {
	Machine RepMachineConfig

	// FallbackDropNorm is the normalized head-Y displacement (fraction of
	// image height) corresponding to a full descent, used when no elbow
	// angle is computable.
	FallbackDropNorm float64

	// FallbackTopDeg and FallbackBottomDeg are the pseudo-angles the
	// fallback displacement maps onto, so both strategies share one metric
	// domain and one threshold pair.
	FallbackTopDeg    float64
	FallbackBottomDeg float64
}

// DefaultPushUpConfig returns the built-in push-up tuning.
func DefaultPushUpConfig() PushUpConfig {
	return PushUpConfig{
		Machine: RepMachineConfig{
			HighThresholdDeg: DefaultPushUpHighDeg,
			LowThresholdDeg:  DefaultPushUpLowDeg,
			Debounce:         DefaultPushUpDebounce,
			CalibrationHold:  DefaultCalibrationHold,
		},
		FallbackDropNorm:  DefaultPushUpFallbackDropNorm,
		FallbackTopDeg:    DefaultPushUpFallbackTopDeg,
		FallbackBottomDeg: DefaultPushUpFallbackBottomDeg,
	}
}

// Validate checks the configuration.
func (c PushUpConfig) Validate() error {
	if err := c.Machine.Validate(); err != nil {
		return err
	}
	if c.FallbackDropNorm <= 0 || c.FallbackDropNorm > 1 {
		return fmt.Errorf("fallback drop must be in (0,1], got %f", c.FallbackDropNorm)
	}
	if c.FallbackTopDeg <= c.FallbackBottomDeg {
		return fmt.Errorf("fallback top angle %.1f must exceed bottom angle %.1f",
			c.FallbackTopDeg, c.FallbackBottomDeg)
	}
	return nil
}

// SquatConfig tunes the squat analyzer.
type SquatConfig struct {
	Machine RepMachineConfig
}

// DefaultSquatConfig returns the built-in squat tuning.
func DefaultSquatConfig() SquatConfig {
	return SquatConfig{
		Machine: RepMachineConfig{
			HighThresholdDeg: DefaultSquatHighDeg,
			LowThresholdDeg:  DefaultSquatLowDeg,
			Debounce:         DefaultSquatDebounce,
			CalibrationHold:  DefaultCalibrationHold,
		},
	}
}

// Validate checks the configuration.
func (c SquatConfig) Validate() error {
	return c.Machine.Validate()
}

// PlankConfig tunes the plank analyzer.
type PlankConfig struct {
	Machine HoldMachineConfig

	// AlignmentTolerance is the maximum shoulder/hip Y-difference (in
	// normalized image coordinates) still read as a horizontal body. The
	// value is coordinate-relative, not scale-normalized, so it may need
	// retuning per camera field of view.
	AlignmentTolerance float64
}

// DefaultPlankConfig returns the built-in plank tuning.
func DefaultPlankConfig() PlankConfig {
	return PlankConfig{
		Machine: HoldMachineConfig{
			CalibrationHold: DefaultCalibrationHold,
			GracePeriod:     DefaultPlankGracePeriod,
			RepQuantum:      DefaultPlankRepQuantum,
		},
		AlignmentTolerance: DefaultPlankAlignmentTolerance,
	}
}

// Validate checks the configuration.
func (c PlankConfig) Validate() error {
	if err := c.Machine.Validate(); err != nil {
		return err
	}
	if c.AlignmentTolerance <= 0 || c.AlignmentTolerance >= 1 {
		return fmt.Errorf("alignment tolerance must be in (0,1), got %f", c.AlignmentTolerance)
	}
	return nil
}

// pushUpFeedback is the push-up wording for the generic cycle machine.
var pushUpFeedback = RepFeedback{
	NoSignal:        "Position yourself so your full body is visible",
	GetIntoPosition: "Get into push-up position",
	ReturnToStart:   "Push all the way up first",
	HoldToStart:     "Hold the top position",
	Counting:        "Go!",
}

// squatFeedback is the squat wording for the generic cycle machine.
var squatFeedback = RepFeedback{
	NoSignal:        "Position yourself so your full body is visible",
	GetIntoPosition: "Get into squat position",
	ReturnToStart:   "Stand all the way up first",
	HoldToStart:     "Hold still, standing tall",
	Counting:        "Go!",
}

// plankFeedback is the plank wording for the hold machine.
var plankFeedback = HoldFeedback{
	NoSignal:        "Position yourself so your full body is visible",
	GetIntoPosition: "Get into plank position",
	HoldToStart:     "Hold that plank",
	Holding:         "Keep holding!",
	Broken:          "Get back into plank position",
}
