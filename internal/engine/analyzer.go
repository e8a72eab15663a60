// Package engine converts a noisy, intermittently-missing stream of pose
// snapshots into discrete repetition counts (or, for isometric holds,
// accumulated duration).
//
// Each exercise is an Analyzer: a per-frame feature extractor feeding a
// generic hysteresis state machine. Analyzers are single-owner and
// single-threaded: the caller invokes Analyze once per delivered frame and
// reads the Result between calls. There is no internal I/O, blocking, or
// goroutine use; every call completes synchronously.
package engine

import (
	"time"

	"github.com/repgate/repgate/internal/pose"
)

// Exercise identifies a supported exercise type.
type Exercise string

const (
	PushUp Exercise = "pushup"
	Squat  Exercise = "squat"
	Plank  Exercise = "plank"
)

// State is the lifecycle state of an analyzer.
type State string

const (
	// StateUnknown is the initial state, before any usable signal.
	StateUnknown State = "unknown"
	// StateCalibrating means the hold-to-start qualifying signal is being
	// awaited or accumulated.
	StateCalibrating State = "calibrating"
	// StateUp and StateDown label the two phases of a discrete-cycle
	// exercise.
	StateUp   State = "up"
	StateDown State = "down"
	// StateTransitioning labels the dead zone between the hysteresis
	// thresholds.
	StateTransitioning State = "transitioning"
	// StateNotInPosition / StateGettingInPosition / StateHolding / StateBroken
	// are the hold-exercise states.
	StateNotInPosition     State = "not_in_position"
	StateGettingInPosition State = "getting_in_position"
	StateHolding           State = "holding"
	StateBroken            State = "broken"
)

// Result is a read-only snapshot of an analyzer's observable state, taken
// between Analyze calls.
type Result struct {
	Exercise Exercise `json:"exercise"`
	State    State    `json:"state"`

	// RepCount is monotonically non-decreasing between Reset calls.
	RepCount int `json:"rep_count"`

	// SecondsHeld is only meaningful for duration-accumulating exercises.
	SecondsHeld int `json:"seconds_held,omitempty"`

	// Feedback is the user-facing positioning/progress string.
	Feedback string `json:"feedback"`

	// ShowPositioningFeedback is true whenever the user should be shown
	// positioning guidance rather than a live count.
	ShowPositioningFeedback bool `json:"show_positioning_feedback"`

	// Metric is the scalar driving the state machine this frame (degrees for
	// cycle exercises); MetricOK is false when no usable metric was
	// extractable from the frame.
	Metric   float64 `json:"metric,omitempty"`
	MetricOK bool    `json:"metric_ok"`

	// AuxMetric carries a secondary confirmatory signal where the exercise
	// defines one (squat hip angle). It never gates counting.
	AuxMetric   float64 `json:"aux_metric,omitempty"`
	AuxMetricOK bool    `json:"aux_metric_ok,omitempty"`
}

// Analyzer is the per-exercise facade around a feature extractor and a state
// machine. Implementations are not safe for concurrent use; each instance is
// owned by exactly one workout session.
type Analyzer interface {
	// Exercise returns the exercise this analyzer detects.
	Exercise() Exercise

	// Analyze consumes one frame. A nil snapshot represents a frame in which
	// no body was detected; now is the frame delivery time.
	Analyze(s *pose.Snapshot, now time.Time)

	// Result returns the current observable state.
	Result() Result

	// Reset returns the analyzer to its initial pre-calibration state,
	// zeroing counters and timers. Idempotent.
	Reset()
}

// NewAnalyzer constructs the analyzer for the named exercise with default
// tuning.
func NewAnalyzer(exercise Exercise) (Analyzer, bool) {
	switch exercise {
	case PushUp:
		return NewPushUpAnalyzer(DefaultPushUpConfig()), true
	case Squat:
		return NewSquatAnalyzer(DefaultSquatConfig()), true
	case Plank:
		return NewPlankAnalyzer(DefaultPlankConfig()), true
	}
	return nil, false
}
