package pose

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFrameRoundTrip(t *testing.T) {
	in := Frame{
		TNanos: 1234567890,
		Joints: map[JointName]FrameJoint{
			Nose:      {X: 0.5, Y: 0.12, C: 0.95},
			LeftElbow: {X: 0.31, Y: 0.44, C: 0.7},
		},
	}
	data, err := EncodeFrame(in)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	out, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("frame round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFrameMalformed(t *testing.T) {
	if _, err := DecodeFrame([]byte(`{"t_nanos": "not a number"}`)); err == nil {
		t.Error("expected error for malformed frame")
	}
	if _, err := DecodeFrame([]byte(`{{`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestFrameSnapshotAppliesFloor(t *testing.T) {
	f := Frame{
		TNanos: 1,
		Joints: map[JointName]FrameJoint{
			Nose:     {X: 0.5, Y: 0.1, C: 0.9},
			LeftKnee: {X: 0.5, Y: 0.7, C: 0.02},
		},
	}
	s := f.Snapshot()
	if s.Len() != 1 || !s.Has(Nose) {
		t.Errorf("Snapshot kept %v, want only nose", s.Names())
	}
}

func TestEmptyFramePreservedAcrossConversion(t *testing.T) {
	f := Frame{TNanos: 99}
	if s := f.Snapshot(); s != nil {
		t.Errorf("empty frame Snapshot = %v, want nil", s)
	}
	back := FrameFromSnapshot(nil, 99)
	if back.Joints != nil {
		t.Errorf("FrameFromSnapshot(nil) joints = %v, want nil", back.Joints)
	}
	if back.TNanos != 99 {
		t.Errorf("TNanos = %d, want 99", back.TNanos)
	}
}

func TestFrameFromSnapshotRoundTrip(t *testing.T) {
	s := NewSnapshot(map[JointName]Joint{
		LeftHip:  {X: 0.45, Y: 0.55, Confidence: 0.88},
		RightHip: {X: 0.55, Y: 0.56, Confidence: 0.91},
	})
	f := FrameFromSnapshot(s, 42)
	got := f.Snapshot()
	if got.Len() != 2 {
		t.Fatalf("round-trip Len = %d, want 2", got.Len())
	}
	want, _ := s.Joint(LeftHip)
	j, ok := got.Joint(LeftHip)
	if !ok || j != want {
		t.Errorf("left hip round trip = %+v, %v; want %+v", j, ok, want)
	}
}
