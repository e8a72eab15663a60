package engine

import (
	"fmt"
	"time"
)

// HoldMachineConfig parameterizes the duration-accumulating state machine.
type HoldMachineConfig struct {
	// CalibrationHold is how long the validity signal must be continuously
	// true before accumulation begins.
	CalibrationHold time.Duration

	// GracePeriod is the window after the last valid frame during which a
	// transient invalid signal is still treated as held. Absorbs single-frame
	// detector dropouts.
	GracePeriod time.Duration

	// RepQuantum is the accumulated hold duration that constitutes one
	// counted repetition.
	RepQuantum time.Duration
}

// Validate checks the configuration for internal consistency.
func (c HoldMachineConfig) Validate() error {
	if c.CalibrationHold <= 0 {
		return fmt.Errorf("calibration hold must be positive, got %v", c.CalibrationHold)
	}
	if c.GracePeriod < 0 {
		return fmt.Errorf("grace period must be non-negative, got %v", c.GracePeriod)
	}
	if c.RepQuantum <= 0 {
		return fmt.Errorf("rep quantum must be positive, got %v", c.RepQuantum)
	}
	return nil
}

// HoldFeedback holds the user-facing strings a hold machine emits.
type HoldFeedback struct {
	NoSignal        string
	GetIntoPosition string
	HoldToStart     string
	Holding         string
	Broken          string
}

// HoldMachine accumulates held duration for isometric exercises (plank).
//
// Unlike the cycle machine, a break never resets accumulated time: invalid
// signal beyond the grace window pauses the accumulator, and the next valid
// frame resumes it from where it left off.
type HoldMachine struct {
	cfg HoldMachineConfig
	fb  HoldFeedback

	state       State
	feedback    string
	positioning bool

	calibrated       bool
	calibrationStart time.Time

	held        time.Duration
	secondsHeld int
	repCount    int

	lastValid time.Time // last frame with a true validity signal
	lastTick  time.Time // last frame credited to the accumulator
}

// NewHoldMachine creates a hold machine in its initial state.
func NewHoldMachine(cfg HoldMachineConfig, fb HoldFeedback) *HoldMachine {
	m := &HoldMachine{cfg: cfg, fb: fb}
	m.Reset()
	return m
}

// Reset returns the machine to its pre-calibration state. Idempotent.
func (m *HoldMachine) Reset() {
	m.state = StateUnknown
	m.feedback = m.fb.NoSignal
	m.positioning = true
	m.calibrated = false
	m.calibrationStart = time.Time{}
	m.held = 0
	m.secondsHeld = 0
	m.repCount = 0
	m.lastValid = time.Time{}
	m.lastTick = time.Time{}
}

// State returns the current hold state.
func (m *HoldMachine) State() State { return m.state }

// RepCount returns the number of completed hold quanta since the last Reset.
func (m *HoldMachine) RepCount() int { return m.repCount }

// SecondsHeld returns the whole seconds of credited hold time.
func (m *HoldMachine) SecondsHeld() int { return m.secondsHeld }

// Feedback returns the current user-facing string.
func (m *HoldMachine) Feedback() string { return m.feedback }

// ShowPositioning reports whether positioning guidance should be shown.
func (m *HoldMachine) ShowPositioning() bool { return m.positioning }

// Calibrated reports whether the hold-to-start phase has completed.
func (m *HoldMachine) Calibrated() bool { return m.calibrated }

// Analyze consumes one frame's validity signal. valid=false covers both "no
// body detected" and "body detected but not in a valid hold position"; the
// two degrade identically.
func (m *HoldMachine) Analyze(valid bool, now time.Time) {
	if !m.calibrated {
		m.calibrate(valid, now)
		return
	}
	m.accumulate(valid, now)
}

// calibrate requires a continuously valid signal for the hold duration.
// Dropout during calibration restarts the timer.
func (m *HoldMachine) calibrate(valid bool, now time.Time) {
	m.positioning = true

	if !valid {
		m.calibrationStart = time.Time{}
		m.state = StateNotInPosition
		m.feedback = m.fb.GetIntoPosition
		return
	}

	if m.calibrationStart.IsZero() {
		m.calibrationStart = now
	}
	if now.Sub(m.calibrationStart) < m.cfg.CalibrationHold {
		m.state = StateGettingInPosition
		m.feedback = m.fb.HoldToStart
		return
	}

	m.calibrated = true
	m.state = StateHolding
	m.feedback = m.fb.Holding
	m.positioning = false
	m.lastValid = now
	m.lastTick = now
}

// accumulate credits wall-clock time while the hold is effectively active:
// valid this frame, or within the grace window of the last valid frame.
func (m *HoldMachine) accumulate(valid bool, now time.Time) {
	if valid {
		m.lastValid = now
	}
	effectivelyInHold := valid || now.Sub(m.lastValid) <= m.cfg.GracePeriod

	if !effectivelyInHold {
		// Beyond grace: pause. Accumulated time is kept, not reset.
		m.state = StateBroken
		m.feedback = m.fb.Broken
		m.positioning = true
		return
	}

	if m.state == StateBroken {
		// Resuming after a break: do not credit the gap.
		m.lastTick = now
	}
	m.held += now.Sub(m.lastTick)
	m.lastTick = now
	m.secondsHeld = int(m.held / time.Second)
	m.repCount = int(m.held / m.cfg.RepQuantum)

	m.state = StateHolding
	m.feedback = m.fb.Holding
	m.positioning = false
}
