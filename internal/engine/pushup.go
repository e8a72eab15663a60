package engine

import (
	"time"

	"github.com/repgate/repgate/internal/pose"
)

// PushUpAnalyzer counts push-up repetitions from elbow extension cycles.
//
// The primary metric is the mean of the left/right elbow angles
// (shoulder→elbow→wrist): the average when both sides are visible, otherwise
// whichever side is. When neither elbow angle is computable — arm confidence
// degrades exactly during the dynamic phase of a push-up — the analyzer falls
// back to the vertical displacement of the best available head landmark from
// a learned baseline, mapped into the same angle domain so the state machine
// sees one continuous metric stream. Whichever signal is available this frame
// is authoritative this frame; there is no cross-frame blending.
type PushUpAnalyzer struct {
	cfg     PushUpConfig
	machine *RepMachine

	// Head-Y baseline for the fallback path. Refreshed whenever the primary
	// metric reads at or above the high threshold (the head is then at the
	// top of the movement), seeded from the first fallback frame otherwise.
	baselineHeadY    float64
	hasBaselineHeadY bool

	lastMetric   float64
	lastMetricOK bool
}

// NewPushUpAnalyzer creates a push-up analyzer with the given tuning.
func NewPushUpAnalyzer(cfg PushUpConfig) *PushUpAnalyzer {
	return &PushUpAnalyzer{
		cfg:     cfg,
		machine: NewRepMachine(cfg.Machine, pushUpFeedback),
	}
}

// Exercise returns PushUp.
func (a *PushUpAnalyzer) Exercise() Exercise { return PushUp }

// Analyze consumes one frame.
func (a *PushUpAnalyzer) Analyze(s *pose.Snapshot, now time.Time) {
	metric, ok := a.metric(s)
	a.lastMetric, a.lastMetricOK = metric, ok
	a.machine.Analyze(metric, ok, now)
}

// Result returns the current observable state.
func (a *PushUpAnalyzer) Result() Result {
	return Result{
		Exercise:                PushUp,
		State:                   a.machine.State(),
		RepCount:                a.machine.RepCount(),
		Feedback:                a.machine.Feedback(),
		ShowPositioningFeedback: a.machine.ShowPositioning(),
		Metric:                  a.lastMetric,
		MetricOK:                a.lastMetricOK,
	}
}

// Reset returns the analyzer to its initial state, including the learned
// fallback baseline.
func (a *PushUpAnalyzer) Reset() {
	a.machine.Reset()
	a.baselineHeadY = 0
	a.hasBaselineHeadY = false
	a.lastMetric = 0
	a.lastMetricOK = false
}

// metric extracts this frame's elbow angle, or the fallback pseudo-angle when
// no elbow angle is computable.
func (a *PushUpAnalyzer) metric(s *pose.Snapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}

	if angle, ok := meanAngle(s,
		[3]pose.JointName{pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist},
		[3]pose.JointName{pose.RightShoulder, pose.RightElbow, pose.RightWrist},
	); ok {
		if angle >= a.cfg.Machine.HighThresholdDeg {
			if head, hok := s.HeadPoint(); hok {
				a.baselineHeadY = head.Y
				a.hasBaselineHeadY = true
			}
		}
		return angle, true
	}

	return a.fallbackMetric(s)
}

// fallbackMetric maps head-Y displacement from the baseline onto the angle
// domain: zero displacement reads as the top pseudo-angle, a full
// FallbackDropNorm descent as the bottom one.
func (a *PushUpAnalyzer) fallbackMetric(s *pose.Snapshot) (float64, bool) {
	head, ok := s.HeadPoint()
	if !ok {
		return 0, false
	}

	if !a.hasBaselineHeadY {
		// First fallback frame with no learned baseline: treat the current
		// head height as the top of the movement.
		a.baselineHeadY = head.Y
		a.hasBaselineHeadY = true
	}

	drop := head.Y - a.baselineHeadY
	if drop < 0 {
		// Head above the recorded baseline means the baseline was captured
		// low; adopt the higher position.
		a.baselineHeadY = head.Y
		drop = 0
	}

	frac := drop / a.cfg.FallbackDropNorm
	if frac > 1 {
		frac = 1
	}
	return a.cfg.FallbackTopDeg - frac*(a.cfg.FallbackTopDeg-a.cfg.FallbackBottomDeg), true
}

// meanAngle computes the mean of the left/right joint-triple angles: the
// average when both sides are measurable, otherwise whichever side is.
func meanAngle(s *pose.Snapshot, left, right [3]pose.JointName) (float64, bool) {
	l, lok := pose.Angle(s, left[0], left[1], left[2])
	r, rok := pose.Angle(s, right[0], right[1], right[2])
	switch {
	case lok && rok:
		return (l + r) / 2, true
	case lok:
		return l, true
	case rok:
		return r, true
	}
	return 0, false
}
