package pose

import (
	"encoding/json"
	"fmt"
)

// FrameJoint is the wire form of a single joint.
type FrameJoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	C float64 `json:"c"`
}

// Frame is the wire form of one pose frame as emitted by the external
// estimator and as stored in .poselog recordings. A frame with an empty or
// missing joints map means "no body detected".
type Frame struct {
	TNanos int64                    `json:"t_nanos"`
	Joints map[JointName]FrameJoint `json:"joints,omitempty"`
}

// Snapshot converts the frame to the in-memory snapshot form, applying the
// detector confidence floor. Returns nil for empty frames.
func (f *Frame) Snapshot() *Snapshot {
	if len(f.Joints) == 0 {
		return nil
	}
	joints := make(map[JointName]Joint, len(f.Joints))
	for name, j := range f.Joints {
		joints[name] = Joint{X: j.X, Y: j.Y, Confidence: j.C}
	}
	return NewSnapshot(joints)
}

// FrameFromSnapshot builds a wire frame from a snapshot (nil snapshot gives
// an empty frame, preserving "no body detected" across record/replay).
func FrameFromSnapshot(s *Snapshot, tNanos int64) Frame {
	f := Frame{TNanos: tNanos}
	if s.Len() == 0 {
		return f
	}
	f.Joints = make(map[JointName]FrameJoint, s.Len())
	for _, name := range AllJoints {
		if j, ok := s.Joint(name); ok {
			f.Joints[name] = FrameJoint{X: j.X, Y: j.Y, C: j.Confidence}
		}
	}
	return f
}

// DecodeFrame parses a single JSON-encoded frame.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("failed to decode pose frame: %w", err)
	}
	return f, nil
}

// EncodeFrame serialises a frame to a single JSON line (no trailing newline).
func EncodeFrame(f Frame) ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pose frame: %w", err)
	}
	return data, nil
}
