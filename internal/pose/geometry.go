package pose

import "math"

// minRayLength guards against degenerate rays when two joints land on the
// same pixel; below this the angle is undefined.
const minRayLength = 1e-9

// Angle returns the angle in degrees [0,180] at vertex b formed by the rays
// b->a and b->c, computed as acos of the clamped cosine of the rays. The
// second return is false when any of the three joints is absent from the
// snapshot or a ray has (near-)zero length.
func Angle(s *Snapshot, a, b, c JointName) (float64, bool) {
	ja, ok := s.Joint(a)
	if !ok {
		return 0, false
	}
	jb, ok := s.Joint(b)
	if !ok {
		return 0, false
	}
	jc, ok := s.Joint(c)
	if !ok {
		return 0, false
	}
	return angleAt(ja.Position(), jb.Position(), jc.Position())
}

// angleAt computes the vertex angle at b in degrees.
func angleAt(a, b, c Point) (float64, bool) {
	bax := a.X - b.X
	bay := a.Y - b.Y
	bcx := c.X - b.X
	bcy := c.Y - b.Y

	la := math.Hypot(bax, bay)
	lc := math.Hypot(bcx, bcy)
	if la < minRayLength || lc < minRayLength {
		return 0, false
	}

	// Clamp before acos: floating-point overshoot of |cos| past 1 would
	// otherwise produce NaN for collinear rays.
	cos := (bax*bcx + bay*bcy) / (la * lc)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi, true
}

// Midpoint returns the midpoint of two joints, requiring both present.
func (s *Snapshot) Midpoint(a, b JointName) (Point, bool) {
	ja, ok := s.Joint(a)
	if !ok {
		return Point{}, false
	}
	jb, ok := s.Joint(b)
	if !ok {
		return Point{}, false
	}
	return Point{X: (ja.X + jb.X) / 2, Y: (ja.Y + jb.Y) / 2}, true
}

// MeanY averages the Y coordinate of whichever of the named joints are
// present. Returns false if none are.
func (s *Snapshot) MeanY(names ...JointName) (float64, bool) {
	sum := 0.0
	n := 0
	for _, name := range names {
		if j, ok := s.Joint(name); ok {
			sum += j.Y
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// HeadPoint returns the best available head landmark, in priority order:
// nose, eye midpoint, either ear, shoulder midpoint. The shoulder midpoint is
// a last resort for frames where the face is outside the crop but the torso
// is still tracked.
func (s *Snapshot) HeadPoint() (Point, bool) {
	if j, ok := s.Joint(Nose); ok {
		return j.Position(), true
	}
	if p, ok := s.Midpoint(LeftEye, RightEye); ok {
		return p, true
	}
	if j, ok := s.Joint(LeftEar); ok {
		return j.Position(), true
	}
	if j, ok := s.Joint(RightEar); ok {
		return j.Position(), true
	}
	if p, ok := s.Midpoint(LeftShoulder, RightShoulder); ok {
		return p, true
	}
	return Point{}, false
}
