package engine

import (
	"math"
	"testing"
	"time"

	"github.com/repgate/repgate/internal/pose"
	"github.com/repgate/repgate/internal/synth"
)

func TestSquatMetricIsKneeAngle(t *testing.T) {
	a := NewSquatAnalyzer(DefaultSquatConfig())
	a.Analyze(synth.SquatPose(125), time.Unix(100, 0))
	r := a.Result()
	if !r.MetricOK {
		t.Fatal("expected a metric from a full-body pose")
	}
	if math.Abs(r.Metric-125) > 0.5 {
		t.Errorf("Metric = %v, want ~125", r.Metric)
	}
}

func TestSquatCarriesHipAngleAsAux(t *testing.T) {
	a := NewSquatAnalyzer(DefaultSquatConfig())
	a.Analyze(synth.SquatPose(140), time.Unix(100, 0))
	r := a.Result()
	if !r.AuxMetricOK {
		t.Fatal("expected hip angle aux metric from a pose with shoulders, hips and knees")
	}
	if r.AuxMetric <= 0 || r.AuxMetric > 180 {
		t.Errorf("AuxMetric = %v outside (0,180]", r.AuxMetric)
	}
}

func TestSquatAuxNeverGatesCounting(t *testing.T) {
	// Remove the shoulders so no hip angle is computable; knee cycles must
	// still count.
	noShoulders := func(angle float64) *pose.Snapshot {
		joints := map[pose.JointName]pose.Joint{}
		for _, name := range synth.SquatPose(angle).Names() {
			if name == pose.LeftShoulder || name == pose.RightShoulder {
				continue
			}
			j, _ := synth.SquatPose(angle).Joint(name)
			joints[name] = j
		}
		return pose.NewSnapshot(joints)
	}

	a := NewSquatAnalyzer(DefaultSquatConfig())
	var frames []*pose.Snapshot
	frames = append(frames, poseSeq(noShoulders, 170, 35)...)
	frames = append(frames, poseSeq(noShoulders, 100, 15)...)
	frames = append(frames, poseSeq(noShoulders, 170, 15)...)
	runPoses(a, time.Unix(100, 0), frames)

	r := a.Result()
	if r.AuxMetricOK {
		t.Error("AuxMetricOK = true without shoulders")
	}
	if r.RepCount != 1 {
		t.Errorf("RepCount = %d without aux signal, want 1", r.RepCount)
	}
}

func TestSquatCountsFullCycle(t *testing.T) {
	a := NewSquatAnalyzer(DefaultSquatConfig())
	var frames []*pose.Snapshot
	frames = append(frames, poseSeq(synth.SquatPose, 170, 35)...)
	frames = append(frames, poseSeq(synth.SquatPose, 100, 15)...)
	frames = append(frames, poseSeq(synth.SquatPose, 170, 15)...)
	runPoses(a, time.Unix(100, 0), frames)

	r := a.Result()
	if r.RepCount != 1 {
		t.Errorf("RepCount = %d, want 1", r.RepCount)
	}
	if r.State != StateUp {
		t.Errorf("State = %q, want %q", r.State, StateUp)
	}
}

func TestSquatNilSnapshot(t *testing.T) {
	a := NewSquatAnalyzer(DefaultSquatConfig())
	a.Analyze(nil, time.Unix(100, 0))
	r := a.Result()
	if r.MetricOK || r.AuxMetricOK {
		t.Error("metrics reported OK for nil snapshot")
	}
}
