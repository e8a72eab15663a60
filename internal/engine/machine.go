package engine

import (
	"fmt"
	"time"
)

// RepMachineConfig parameterizes the generic cycle-counting state machine.
type RepMachineConfig struct {
	// HighThresholdDeg and LowThresholdDeg are the hysteresis pair. The gap
	// between them is a dead zone labelled "transitioning"; a single noisy
	// frame cannot flap the phase label across it.
	HighThresholdDeg float64
	LowThresholdDeg  float64

	// Debounce is the minimum elapsed time between consecutive phase
	// transitions. It gates transitions, not per-frame metric reads.
	Debounce time.Duration

	// CalibrationHold is how long the metric must sit at or above the high
	// threshold before counting begins.
	CalibrationHold time.Duration
}

// Validate checks the configuration for internal consistency.
func (c RepMachineConfig) Validate() error {
	if c.HighThresholdDeg <= c.LowThresholdDeg {
		return fmt.Errorf("high threshold %.1f must exceed low threshold %.1f",
			c.HighThresholdDeg, c.LowThresholdDeg)
	}
	if c.LowThresholdDeg < 0 || c.HighThresholdDeg > 180 {
		return fmt.Errorf("thresholds must lie within [0,180] degrees, got low=%.1f high=%.1f",
			c.LowThresholdDeg, c.HighThresholdDeg)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must be non-negative, got %v", c.Debounce)
	}
	if c.CalibrationHold <= 0 {
		return fmt.Errorf("calibration hold must be positive, got %v", c.CalibrationHold)
	}
	return nil
}

// RepFeedback holds the user-facing strings a cycle machine emits. The
// wording is exercise-specific; the conditions are not.
type RepFeedback struct {
	// NoSignal is shown when no usable pose or metric is available.
	NoSignal string
	// GetIntoPosition is shown during calibration while the metric reads
	// mid-range.
	GetIntoPosition string
	// ReturnToStart is shown during calibration while the metric reads the
	// opposite extreme (e.g. already at the bottom of a push-up).
	ReturnToStart string
	// HoldToStart is shown while the calibration hold timer is running.
	HoldToStart string
	// Counting is shown once the machine is calibrated and counting.
	Counting string
}

// RepMachine is the generic hysteresis cycle counter behind push-up and
// squat detection.
//
// Lifecycle: awaiting calibration -> calibrating -> ready, then cycling
// between the low and high phases. A rep is exactly one completed
// low-phase -> high-phase cycle; reaching the high region without a completed
// low phase never counts, which is what suppresses double counts from jitter
// around the high threshold.
type RepMachine struct {
	cfg RepMachineConfig
	fb  RepFeedback

	state       State
	repCount    int
	feedback    string
	positioning bool

	calibrated       bool
	calibrationStart time.Time // zero when the hold timer is not running

	inLowPhase        bool
	completedLowPhase bool
	lastTransition    time.Time
}

// NewRepMachine creates a cycle machine in its initial state.
func NewRepMachine(cfg RepMachineConfig, fb RepFeedback) *RepMachine {
	m := &RepMachine{cfg: cfg, fb: fb}
	m.Reset()
	return m
}

// Reset returns the machine to its pre-calibration state. Idempotent.
func (m *RepMachine) Reset() {
	m.state = StateUnknown
	m.repCount = 0
	m.feedback = m.fb.NoSignal
	m.positioning = true
	m.calibrated = false
	m.calibrationStart = time.Time{}
	m.inLowPhase = false
	m.completedLowPhase = false
	m.lastTransition = time.Time{}
}

// State returns the current phase label.
func (m *RepMachine) State() State { return m.state }

// RepCount returns the number of completed cycles since the last Reset.
func (m *RepMachine) RepCount() int { return m.repCount }

// Feedback returns the current user-facing string.
func (m *RepMachine) Feedback() string { return m.feedback }

// ShowPositioning reports whether positioning guidance should be shown.
func (m *RepMachine) ShowPositioning() bool { return m.positioning }

// Calibrated reports whether the hold-to-start phase has completed.
func (m *RepMachine) Calibrated() bool { return m.calibrated }

// Analyze consumes one frame's metric. ok=false represents a frame with no
// usable metric (body lost, or required joints below the confidence floor);
// it never resets the rep count, but during calibration it restarts the hold
// timer.
func (m *RepMachine) Analyze(metric float64, ok bool, now time.Time) {
	if !ok {
		m.feedback = m.fb.NoSignal
		m.positioning = true
		if !m.calibrated {
			m.calibrationStart = time.Time{}
			m.state = StateUnknown
		}
		return
	}
	if !m.calibrated {
		m.calibrate(metric, now)
		return
	}
	m.count(metric, now)
}

// calibrate runs the hold-to-start phase: the metric must sit at or above the
// high threshold continuously for the configured hold duration.
func (m *RepMachine) calibrate(metric float64, now time.Time) {
	m.state = StateCalibrating
	m.positioning = true

	if metric < m.cfg.HighThresholdDeg {
		// Any drop below the high threshold restarts the hold timer.
		m.calibrationStart = time.Time{}
		if metric <= m.cfg.LowThresholdDeg {
			m.feedback = m.fb.ReturnToStart
		} else {
			m.feedback = m.fb.GetIntoPosition
		}
		return
	}

	if m.calibrationStart.IsZero() {
		m.calibrationStart = now
	}
	if now.Sub(m.calibrationStart) < m.cfg.CalibrationHold {
		m.feedback = m.fb.HoldToStart
		return
	}

	m.calibrated = true
	m.state = StateUp
	m.lastTransition = now
	m.feedback = m.fb.Counting
	m.positioning = false
}

// count runs the two-flag cycle detector over the hysteresis regions.
func (m *RepMachine) count(metric float64, now time.Time) {
	m.feedback = m.fb.Counting
	m.positioning = false

	switch {
	case metric <= m.cfg.LowThresholdDeg:
		if m.state != StateDown && m.debounced(now) {
			m.state = StateDown
			m.inLowPhase = true
			m.completedLowPhase = true
			m.lastTransition = now
		}

	case metric >= m.cfg.HighThresholdDeg:
		// Only a return to the high region after a completed low phase is a
		// rep. Re-entering high from the dead zone leaves the state alone.
		if m.inLowPhase && m.completedLowPhase && m.debounced(now) {
			m.repCount++
			m.inLowPhase = false
			m.completedLowPhase = false
			m.state = StateUp
			m.lastTransition = now
		}

	default:
		if m.state != StateTransitioning && m.debounced(now) {
			m.state = StateTransitioning
			m.lastTransition = now
		}
	}
}

func (m *RepMachine) debounced(now time.Time) bool {
	return now.Sub(m.lastTransition) >= m.cfg.Debounce
}
