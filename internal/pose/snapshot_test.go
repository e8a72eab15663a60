package pose

import "testing"

func TestNewSnapshotConfidenceFloor(t *testing.T) {
	s := NewSnapshot(map[JointName]Joint{
		Nose:         {X: 0.5, Y: 0.1, Confidence: 0.9},
		LeftShoulder: {X: 0.4, Y: 0.3, Confidence: 0.1}, // at the floor, dropped
		LeftElbow:    {X: 0.4, Y: 0.4, Confidence: 0.05},
	})
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (floor joints dropped)", s.Len())
	}
	if !s.Has(Nose) {
		t.Error("expected nose to survive the floor")
	}
	if s.Has(LeftShoulder) || s.Has(LeftElbow) {
		t.Error("low-confidence joints leaked into snapshot")
	}
}

func TestNewSnapshotEmptyIsNil(t *testing.T) {
	if s := NewSnapshot(nil); s != nil {
		t.Errorf("NewSnapshot(nil) = %v, want nil", s)
	}
	s := NewSnapshot(map[JointName]Joint{
		Nose: {Confidence: 0.01},
	})
	if s != nil {
		t.Errorf("all-below-floor snapshot = %v, want nil", s)
	}
}

func TestNilSnapshotAccessors(t *testing.T) {
	var s *Snapshot
	if _, ok := s.Joint(Nose); ok {
		t.Error("nil snapshot returned a joint")
	}
	if s.Has(Nose) {
		t.Error("nil snapshot reported a joint present")
	}
	if s.Len() != 0 {
		t.Errorf("nil snapshot Len = %d, want 0", s.Len())
	}
	if names := s.Names(); names != nil {
		t.Errorf("nil snapshot Names = %v, want nil", names)
	}
}
