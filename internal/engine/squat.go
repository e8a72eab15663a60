package engine

import (
	"time"

	"github.com/repgate/repgate/internal/pose"
)

// SquatAnalyzer counts squat repetitions from knee flexion cycles.
//
// The primary metric is the mean of the left/right knee angles
// (hip→knee→ankle). The mean hip angle (shoulder→hip→knee) is carried as a
// secondary confirmatory signal in the Result for consumers and tooling, but
// does not gate counting.
type SquatAnalyzer struct {
	cfg     SquatConfig
	machine *RepMachine

	lastMetric   float64
	lastMetricOK bool
	lastHip      float64
	lastHipOK    bool
}

// NewSquatAnalyzer creates a squat analyzer with the given tuning.
func NewSquatAnalyzer(cfg SquatConfig) *SquatAnalyzer {
	return &SquatAnalyzer{
		cfg:     cfg,
		machine: NewRepMachine(cfg.Machine, squatFeedback),
	}
}

// Exercise returns Squat.
func (a *SquatAnalyzer) Exercise() Exercise { return Squat }

// Analyze consumes one frame.
func (a *SquatAnalyzer) Analyze(s *pose.Snapshot, now time.Time) {
	metric, ok := a.metric(s)
	a.lastMetric, a.lastMetricOK = metric, ok
	a.lastHip, a.lastHipOK = hipAngle(s)
	a.machine.Analyze(metric, ok, now)
}

// Result returns the current observable state.
func (a *SquatAnalyzer) Result() Result {
	return Result{
		Exercise:                Squat,
		State:                   a.machine.State(),
		RepCount:                a.machine.RepCount(),
		Feedback:                a.machine.Feedback(),
		ShowPositioningFeedback: a.machine.ShowPositioning(),
		Metric:                  a.lastMetric,
		MetricOK:                a.lastMetricOK,
		AuxMetric:               a.lastHip,
		AuxMetricOK:             a.lastHipOK,
	}
}

// Reset returns the analyzer to its initial state.
func (a *SquatAnalyzer) Reset() {
	a.machine.Reset()
	a.lastMetric = 0
	a.lastMetricOK = false
	a.lastHip = 0
	a.lastHipOK = false
}

func (a *SquatAnalyzer) metric(s *pose.Snapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	return meanAngle(s,
		[3]pose.JointName{pose.LeftHip, pose.LeftKnee, pose.LeftAnkle},
		[3]pose.JointName{pose.RightHip, pose.RightKnee, pose.RightAnkle},
	)
}

func hipAngle(s *pose.Snapshot) (float64, bool) {
	if s == nil {
		return 0, false
	}
	return meanAngle(s,
		[3]pose.JointName{pose.LeftShoulder, pose.LeftHip, pose.LeftKnee},
		[3]pose.JointName{pose.RightShoulder, pose.RightHip, pose.RightKnee},
	)
}
