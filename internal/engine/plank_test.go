package engine

import (
	"testing"
	"time"

	"github.com/repgate/repgate/internal/pose"
	"github.com/repgate/repgate/internal/synth"
)

// runPlank feeds n frames of the given pose at holdStep intervals.
func runPlank(a Analyzer, start time.Time, s *pose.Snapshot, n int) time.Time {
	now := start
	for i := 0; i < n; i++ {
		a.Analyze(s, now)
		now = now.Add(holdStep)
	}
	return now
}

func TestPlankAccumulatesHeldSeconds(t *testing.T) {
	a := NewPlankAnalyzer(DefaultPlankConfig())
	base := time.Unix(100, 0)

	now := runPlank(a, base, synth.PlankPose(true), 11) // calibrate
	runPlank(a, now, synth.PlankPose(true), 410)        // 41s hold

	r := a.Result()
	if r.SecondsHeld != 41 {
		t.Errorf("SecondsHeld = %d, want 41", r.SecondsHeld)
	}
	if r.RepCount != 2 {
		t.Errorf("RepCount = %d, want 2", r.RepCount)
	}
	if r.State != StateHolding {
		t.Errorf("State = %q, want %q", r.State, StateHolding)
	}
}

func TestPlankSagBreaksHold(t *testing.T) {
	a := NewPlankAnalyzer(DefaultPlankConfig())
	base := time.Unix(100, 0)

	now := runPlank(a, base, synth.PlankPose(true), 11)
	now = runPlank(a, now, synth.PlankPose(true), 50) // 5s
	// Hips sag for 0.8s: past the grace window.
	now = runPlank(a, now, synth.PlankPose(false), 8)

	r := a.Result()
	if r.State != StateBroken {
		t.Fatalf("State = %q after sustained sag, want %q", r.State, StateBroken)
	}
	if r.SecondsHeld < 5 {
		t.Errorf("SecondsHeld = %d after break, want >= 5 (kept)", r.SecondsHeld)
	}

	runPlank(a, now, synth.PlankPose(true), 20)
	if got := a.Result().State; got != StateHolding {
		t.Errorf("State = %q after recovery, want %q", got, StateHolding)
	}
}

func TestPlankRequiresVisibleAnkle(t *testing.T) {
	noAnkles := pose.NewSnapshot(map[pose.JointName]pose.Joint{
		pose.LeftShoulder:  {X: 0.30, Y: 0.55, Confidence: 0.9},
		pose.RightShoulder: {X: 0.32, Y: 0.55, Confidence: 0.9},
		pose.LeftHip:       {X: 0.55, Y: 0.56, Confidence: 0.9},
		pose.RightHip:      {X: 0.57, Y: 0.56, Confidence: 0.9},
	})

	a := NewPlankAnalyzer(DefaultPlankConfig())
	runPlank(a, time.Unix(100, 0), noAnkles, 30)

	r := a.Result()
	if r.State != StateNotInPosition {
		t.Errorf("State = %q for aligned body without ankles, want %q",
			r.State, StateNotInPosition)
	}
	if r.SecondsHeld != 0 {
		t.Errorf("SecondsHeld = %d, want 0", r.SecondsHeld)
	}
}

func TestPlankAlignmentTolerance(t *testing.T) {
	buildWithHipY := func(hipY float64) *pose.Snapshot {
		return pose.NewSnapshot(map[pose.JointName]pose.Joint{
			pose.LeftShoulder:  {X: 0.30, Y: 0.55, Confidence: 0.9},
			pose.RightShoulder: {X: 0.32, Y: 0.55, Confidence: 0.9},
			pose.LeftHip:       {X: 0.55, Y: hipY, Confidence: 0.9},
			pose.RightHip:      {X: 0.57, Y: hipY, Confidence: 0.9},
			pose.LeftAnkle:     {X: 0.82, Y: 0.60, Confidence: 0.9},
		})
	}

	tests := []struct {
		name      string
		hipY      float64
		wantState State
	}{
		{"aligned", 0.55, StateGettingInPosition},
		{"within tolerance", 0.62, StateGettingInPosition},
		{"beyond tolerance", 0.66, StateNotInPosition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewPlankAnalyzer(DefaultPlankConfig())
			runPlank(a, time.Unix(100, 0), buildWithHipY(tt.hipY), 3)
			if got := a.Result().State; got != tt.wantState {
				t.Errorf("State = %q for hipY %v, want %q", got, tt.hipY, tt.wantState)
			}
		})
	}
}

func TestPlankMetricProjectsValidity(t *testing.T) {
	a := NewPlankAnalyzer(DefaultPlankConfig())
	a.Analyze(synth.PlankPose(true), time.Unix(100, 0))
	if got := a.Result().Metric; got != 1 {
		t.Errorf("Metric = %v for valid plank, want 1", got)
	}
	a.Analyze(synth.PlankPose(false), time.Unix(101, 0))
	if got := a.Result().Metric; got != 0 {
		t.Errorf("Metric = %v for invalid plank, want 0", got)
	}
}
