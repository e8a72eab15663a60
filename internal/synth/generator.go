// Package synth generates deterministic synthetic pose streams for testing
// and for gen-poselog recordings: parameterized push-up and squat cycles and
// plank holds, with optional jitter and frame dropout.
package synth

import (
	"math"
	"math/rand"
	"time"

	"github.com/repgate/repgate/internal/pose"
)

// Options controls stream generation shared by all exercises.
type Options struct {
	FPS       int       // frames per second; default 30
	StartTime time.Time // timestamp of the first frame; default Unix epoch + 1s
	JitterDeg float64   // uniform +/- jitter applied to the driving angle
	DropEvery int       // every Nth frame is an empty (no body) frame; 0 = never
	Seed      int64     // jitter RNG seed
}

func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.StartTime.IsZero() {
		o.StartTime = time.Unix(1, 0)
	}
	return o
}

// Cycle phase durations. Generous relative to the analyzer debounce windows
// so generated reps are always countable at 30 Hz.
const (
	calibrationSeconds = 1.5
	descendSeconds     = 0.5
	bottomHoldSeconds  = 0.4
	ascendSeconds      = 0.5
	topHoldSeconds     = 0.4
)

// PushUps generates a stream containing a calibration period followed by the
// requested number of full push-up cycles (elbow angle 170 -> 100 -> 170).
func PushUps(reps int, opt Options) []pose.Frame {
	return cycleFrames(reps, 170, 100, opt, PushUpPose)
}

// Squats generates a calibration period followed by the requested number of
// full squat cycles (knee angle 170 -> 100 -> 170).
func Squats(reps int, opt Options) []pose.Frame {
	return cycleFrames(reps, 170, 100, opt, SquatPose)
}

// PlankHold generates a calibration period followed by a valid plank hold of
// the given duration.
func PlankHold(hold time.Duration, opt Options) []pose.Frame {
	opt = opt.withDefaults()
	rng := rand.New(rand.NewSource(opt.Seed))

	total := calibrationSeconds + hold.Seconds()
	n := int(total*float64(opt.FPS)) + 1

	frames := make([]pose.Frame, 0, n)
	for i := 0; i < n; i++ {
		t := opt.StartTime.Add(time.Duration(float64(i) / float64(opt.FPS) * float64(time.Second)))
		if opt.DropEvery > 0 && (i+1)%opt.DropEvery == 0 {
			frames = append(frames, pose.Frame{TNanos: t.UnixNano()})
			continue
		}
		_ = rng // plank has no angle to jitter; kept for symmetry
		frames = append(frames, pose.FrameFromSnapshot(PlankPose(true), t.UnixNano()))
	}
	return frames
}

// cycleFrames builds the angle timeline for a cyclic exercise and renders it
// through the given pose builder.
func cycleFrames(reps int, topDeg, bottomDeg float64, opt Options, build func(angleDeg float64) *pose.Snapshot) []pose.Frame {
	opt = opt.withDefaults()
	rng := rand.New(rand.NewSource(opt.Seed))

	repSeconds := descendSeconds + bottomHoldSeconds + ascendSeconds + topHoldSeconds
	total := calibrationSeconds + float64(reps)*repSeconds
	n := int(total*float64(opt.FPS)) + 1

	frames := make([]pose.Frame, 0, n)
	for i := 0; i < n; i++ {
		sec := float64(i) / float64(opt.FPS)
		t := opt.StartTime.Add(time.Duration(sec * float64(time.Second)))

		if opt.DropEvery > 0 && (i+1)%opt.DropEvery == 0 {
			frames = append(frames, pose.Frame{TNanos: t.UnixNano()})
			continue
		}

		angle := angleAtSecond(sec, topDeg, bottomDeg)
		if opt.JitterDeg > 0 {
			angle += (rng.Float64()*2 - 1) * opt.JitterDeg
		}
		frames = append(frames, pose.FrameFromSnapshot(build(angle), t.UnixNano()))
	}
	return frames
}

// angleAtSecond returns the driving angle at elapsed time sec: top during
// calibration, then piecewise-linear descend/hold/ascend/hold cycles.
func angleAtSecond(sec, topDeg, bottomDeg float64) float64 {
	if sec < calibrationSeconds {
		return topDeg
	}
	repSeconds := descendSeconds + bottomHoldSeconds + ascendSeconds + topHoldSeconds
	phase := math.Mod(sec-calibrationSeconds, repSeconds)

	switch {
	case phase < descendSeconds:
		return topDeg - (topDeg-bottomDeg)*(phase/descendSeconds)
	case phase < descendSeconds+bottomHoldSeconds:
		return bottomDeg
	case phase < descendSeconds+bottomHoldSeconds+ascendSeconds:
		p := (phase - descendSeconds - bottomHoldSeconds) / ascendSeconds
		return bottomDeg + (topDeg-bottomDeg)*p
	default:
		return topDeg
	}
}

const jointConfidence = 0.9

// PushUpPose builds a full-body snapshot whose elbow angles equal angleDeg
// and whose head height tracks the movement (so the fallback path sees a
// plausible signal too).
func PushUpPose(angleDeg float64) *pose.Snapshot {
	joints := map[pose.JointName]pose.Joint{}

	// Head descends linearly with elbow flexion: 0 at 170°, 0.12 at 100°.
	drop := (170 - clampDeg(angleDeg, 100, 170)) / 70 * 0.12
	addJoint(joints, pose.Nose, 0.45, 0.30+drop)
	addJoint(joints, pose.LeftEye, 0.44, 0.29+drop)
	addJoint(joints, pose.RightEye, 0.46, 0.29+drop)

	placeArm(joints, pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist, 0.40, 0.42+drop, angleDeg)
	placeArm(joints, pose.RightShoulder, pose.RightElbow, pose.RightWrist, 0.50, 0.42+drop, angleDeg)

	addJoint(joints, pose.LeftHip, 0.60, 0.48+drop)
	addJoint(joints, pose.RightHip, 0.64, 0.48+drop)
	addJoint(joints, pose.LeftKnee, 0.74, 0.52+drop)
	addJoint(joints, pose.RightKnee, 0.76, 0.52+drop)
	addJoint(joints, pose.LeftAnkle, 0.86, 0.56+drop)
	addJoint(joints, pose.RightAnkle, 0.88, 0.56+drop)

	return pose.NewSnapshot(joints)
}

// HeadOnlyPushUpPose is PushUpPose with all arm joints removed, forcing the
// analyzer onto the head-displacement fallback.
func HeadOnlyPushUpPose(angleDeg float64) *pose.Snapshot {
	joints := map[pose.JointName]pose.Joint{}
	drop := (170 - clampDeg(angleDeg, 100, 170)) / 70 * 0.12
	addJoint(joints, pose.Nose, 0.45, 0.30+drop)
	addJoint(joints, pose.LeftEye, 0.44, 0.29+drop)
	addJoint(joints, pose.RightEye, 0.46, 0.29+drop)
	addJoint(joints, pose.LeftHip, 0.60, 0.48+drop)
	addJoint(joints, pose.RightHip, 0.64, 0.48+drop)
	return pose.NewSnapshot(joints)
}

// SquatPose builds a full-body snapshot whose knee angles equal angleDeg.
func SquatPose(angleDeg float64) *pose.Snapshot {
	joints := map[pose.JointName]pose.Joint{}

	addJoint(joints, pose.Nose, 0.50, 0.18)
	addJoint(joints, pose.LeftShoulder, 0.46, 0.30)
	addJoint(joints, pose.RightShoulder, 0.54, 0.30)

	placeLeg(joints, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle, 0.46, 0.50, angleDeg)
	placeLeg(joints, pose.RightHip, pose.RightKnee, pose.RightAnkle, 0.54, 0.50, angleDeg)

	return pose.NewSnapshot(joints)
}

// PlankPose builds a snapshot that is a valid horizontal plank when valid is
// true (aligned shoulders/hips, visible ankle) and a clearly broken one
// otherwise (hips sagging far below the tolerance).
func PlankPose(valid bool) *pose.Snapshot {
	joints := map[pose.JointName]pose.Joint{}

	hipY := 0.56
	if !valid {
		hipY = 0.75
	}
	addJoint(joints, pose.Nose, 0.20, 0.52)
	addJoint(joints, pose.LeftShoulder, 0.30, 0.55)
	addJoint(joints, pose.RightShoulder, 0.32, 0.55)
	addJoint(joints, pose.LeftHip, 0.55, hipY)
	addJoint(joints, pose.RightHip, 0.57, hipY)
	addJoint(joints, pose.LeftAnkle, 0.82, 0.60)
	addJoint(joints, pose.RightAnkle, 0.84, 0.60)

	return pose.NewSnapshot(joints)
}

// placeArm positions shoulder/elbow/wrist so the angle at the elbow is
// exactly angleDeg: the wrist ray is the shoulder ray rotated by angleDeg.
func placeArm(joints map[pose.JointName]pose.Joint, shoulder, elbow, wrist pose.JointName, sx, sy, angleDeg float64) {
	addJoint(joints, shoulder, sx, sy)
	ex, ey := sx+0.05, sy+0.10
	addJoint(joints, elbow, ex, ey)
	wx, wy := rotateRay(sx-ex, sy-ey, angleDeg)
	addJoint(joints, wrist, ex+wx, ey+wy)
}

// placeLeg positions hip/knee/ankle so the angle at the knee is exactly
// angleDeg.
func placeLeg(joints map[pose.JointName]pose.Joint, hip, knee, ankle pose.JointName, hx, hy, angleDeg float64) {
	addJoint(joints, hip, hx, hy)
	kx, ky := hx+0.03, hy+0.14
	addJoint(joints, knee, kx, ky)
	ax, ay := rotateRay(hx-kx, hy-ky, angleDeg)
	addJoint(joints, ankle, kx+ax, ky+ay)
}

// rotateRay rotates the vector (x,y) by deg degrees and rescales it to a
// fixed limb length.
func rotateRay(x, y, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	rx := x*math.Cos(rad) - y*math.Sin(rad)
	ry := x*math.Sin(rad) + y*math.Cos(rad)
	l := math.Hypot(rx, ry)
	if l == 0 {
		return 0, 0
	}
	const limb = 0.14
	return rx / l * limb, ry / l * limb
}

func addJoint(joints map[pose.JointName]pose.Joint, name pose.JointName, x, y float64) {
	joints[name] = pose.Joint{X: x, Y: y, Confidence: jointConfidence}
}

func clampDeg(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
