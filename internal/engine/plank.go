package engine

import (
	"math"
	"time"

	"github.com/repgate/repgate/internal/pose"
)

// PlankAnalyzer accumulates held duration for a horizontal plank.
//
// The per-frame signal is boolean rather than scalar: the body reads as a
// valid plank when the shoulder and hip heights agree within the alignment
// tolerance (a horizontal body) and at least one ankle is visible, which
// distinguishes a floor-level full-body posture from someone standing close
// to the camera.
type PlankAnalyzer struct {
	cfg     PlankConfig
	machine *HoldMachine

	lastValid bool
}

// NewPlankAnalyzer creates a plank analyzer with the given tuning.
func NewPlankAnalyzer(cfg PlankConfig) *PlankAnalyzer {
	return &PlankAnalyzer{
		cfg:     cfg,
		machine: NewHoldMachine(cfg.Machine, plankFeedback),
	}
}

// Exercise returns Plank.
func (a *PlankAnalyzer) Exercise() Exercise { return Plank }

// Analyze consumes one frame.
func (a *PlankAnalyzer) Analyze(s *pose.Snapshot, now time.Time) {
	a.lastValid = a.validPlank(s)
	a.machine.Analyze(a.lastValid, now)
}

// Result returns the current observable state.
func (a *PlankAnalyzer) Result() Result {
	return Result{
		Exercise:                Plank,
		State:                   a.machine.State(),
		RepCount:                a.machine.RepCount(),
		SecondsHeld:             a.machine.SecondsHeld(),
		Feedback:                a.machine.Feedback(),
		ShowPositioningFeedback: a.machine.ShowPositioning(),
		Metric:                  boolMetric(a.lastValid),
		MetricOK:                true,
	}
}

// Reset returns the analyzer to its initial state.
func (a *PlankAnalyzer) Reset() {
	a.machine.Reset()
	a.lastValid = false
}

// validPlank evaluates the frame's plank-validity signal. The tolerance is
// in normalized image coordinates and is not scale-invariant; see
// PlankConfig.AlignmentTolerance.
func (a *PlankAnalyzer) validPlank(s *pose.Snapshot) bool {
	if s == nil {
		return false
	}

	shoulderY, ok := s.MeanY(pose.LeftShoulder, pose.RightShoulder)
	if !ok {
		return false
	}
	hipY, ok := s.MeanY(pose.LeftHip, pose.RightHip)
	if !ok {
		return false
	}
	if math.Abs(shoulderY-hipY) > a.cfg.AlignmentTolerance {
		return false
	}

	_, lok := s.Joint(pose.LeftAnkle)
	_, rok := s.Joint(pose.RightAnkle)
	return lok || rok
}

// boolMetric projects the validity signal into the trace domain so plank
// sessions chart alongside angle-based exercises.
func boolMetric(valid bool) float64 {
	if valid {
		return 1
	}
	return 0
}
