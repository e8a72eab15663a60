// Package pose defines the per-frame body keypoint data model shared by all
// exercise analyzers, plus confidence-aware geometry over it.
//
// A Snapshot is the unit of input to the whole engine: one frame's worth of
// detected joints. Joints whose confidence did not pass the detector floor are
// simply absent from the snapshot, so consumers must never assume a specific
// joint is present.
package pose

// JointName identifies one of the 17 body keypoints, in COCO order.
type JointName string

const (
	Nose          JointName = "nose"
	LeftEye       JointName = "left_eye"
	RightEye      JointName = "right_eye"
	LeftEar       JointName = "left_ear"
	RightEar      JointName = "right_ear"
	LeftShoulder  JointName = "left_shoulder"
	RightShoulder JointName = "right_shoulder"
	LeftElbow     JointName = "left_elbow"
	RightElbow    JointName = "right_elbow"
	LeftWrist     JointName = "left_wrist"
	RightWrist    JointName = "right_wrist"
	LeftHip       JointName = "left_hip"
	RightHip      JointName = "right_hip"
	LeftKnee      JointName = "left_knee"
	RightKnee     JointName = "right_knee"
	LeftAnkle     JointName = "left_ankle"
	RightAnkle    JointName = "right_ankle"
)

// AllJoints lists every joint name in COCO keypoint order.
var AllJoints = []JointName{
	Nose,
	LeftEye, RightEye,
	LeftEar, RightEar,
	LeftShoulder, RightShoulder,
	LeftElbow, RightElbow,
	LeftWrist, RightWrist,
	LeftHip, RightHip,
	LeftKnee, RightKnee,
	LeftAnkle, RightAnkle,
}

// ConfidenceFloor is the detector-level acceptance floor. Joints below it are
// excluded at snapshot construction time.
const ConfidenceFloor = 0.1

// Point is a 2D position in normalized image coordinates: origin top-left,
// both axes in [0,1], Y increasing downward.
type Point struct {
	X float64
	Y float64
}

// Joint is a single detected body landmark.
type Joint struct {
	X          float64
	Y          float64
	Confidence float64
}

// Position returns the joint's location as a Point.
func (j Joint) Position() Point {
	return Point{X: j.X, Y: j.Y}
}

// Snapshot holds the joints detected in one frame. A frame in which no body
// was detected is represented by a nil *Snapshot, never an empty one filled
// with zero values.
type Snapshot struct {
	joints map[JointName]Joint
}

// NewSnapshot builds a snapshot from raw detector output, dropping joints
// whose confidence does not exceed ConfidenceFloor. Returns nil if no joint
// survives the floor.
func NewSnapshot(joints map[JointName]Joint) *Snapshot {
	kept := make(map[JointName]Joint, len(joints))
	for name, j := range joints {
		if j.Confidence > ConfidenceFloor {
			kept[name] = j
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return &Snapshot{joints: kept}
}

// Joint returns the named joint and whether it was detected this frame.
// Safe to call on a nil snapshot.
func (s *Snapshot) Joint(name JointName) (Joint, bool) {
	if s == nil {
		return Joint{}, false
	}
	j, ok := s.joints[name]
	return j, ok
}

// Has reports whether every named joint is present.
func (s *Snapshot) Has(names ...JointName) bool {
	for _, name := range names {
		if _, ok := s.Joint(name); !ok {
			return false
		}
	}
	return true
}

// Len returns the number of detected joints.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.joints)
}

// Names returns the detected joint names in unspecified order.
func (s *Snapshot) Names() []JointName {
	if s == nil {
		return nil
	}
	names := make([]JointName, 0, len(s.joints))
	for name := range s.joints {
		names = append(names, name)
	}
	return names
}
