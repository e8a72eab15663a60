// Package replay records and replays pose frame streams as .poselog files:
// one JSON frame per line, in the same wire form the UDP ingest accepts.
package replay

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/repgate/repgate/internal/pose"
	"github.com/repgate/repgate/internal/timeutil"
)

// Recorder appends pose frames to a .poselog file.
type Recorder struct {
	f *os.File
	w *bufio.Writer
}

// NewRecorder creates (truncating) the .poselog at path.
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create poselog: %w", err)
	}
	return &Recorder{f: f, w: bufio.NewWriter(f)}, nil
}

// Record appends one frame.
func (r *Recorder) Record(f pose.Frame) error {
	data, err := pose.EncodeFrame(f)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(data); err != nil {
		return fmt.Errorf("failed to write poselog frame: %w", err)
	}
	if err := r.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write poselog frame: %w", err)
	}
	return nil
}

// Close flushes and closes the file.
func (r *Recorder) Close() error {
	if err := r.w.Flush(); err != nil {
		r.f.Close()
		return fmt.Errorf("failed to flush poselog: %w", err)
	}
	return r.f.Close()
}

// ReadAll reads every frame from a .poselog stream.
func ReadAll(rd io.Reader) ([]pose.Frame, error) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var frames []pose.Frame
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		f, err := pose.DecodeFrame(raw)
		if err != nil {
			return nil, fmt.Errorf("poselog line %d: %w", line, err)
		}
		frames = append(frames, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read poselog: %w", err)
	}
	return frames, nil
}

// ReadFile reads every frame from the .poselog at path.
func ReadFile(path string) ([]pose.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open poselog: %w", err)
	}
	defer f.Close()
	return ReadAll(f)
}

// FrameHandler consumes one replayed frame. A nil snapshot means no body was
// detected that frame.
type FrameHandler func(s *pose.Snapshot, now time.Time)

// Player feeds recorded frames to a handler.
type Player struct {
	clock timeutil.Clock

	// Realtime honours the recorded inter-frame gaps; otherwise frames are
	// delivered as fast as possible with their recorded timestamps.
	Realtime bool
}

// NewPlayer creates a player on the given clock (nil means the real clock).
func NewPlayer(clock timeutil.Clock) *Player {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Player{clock: clock}
}

// Play delivers each frame to handler with the frame's recorded time.
func (p *Player) Play(frames []pose.Frame, handler FrameHandler) {
	var prev int64
	for i, f := range frames {
		if p.Realtime && i > 0 && f.TNanos > prev {
			p.clock.Sleep(time.Duration(f.TNanos - prev))
		}
		prev = f.TNanos
		handler(f.Snapshot(), time.Unix(0, f.TNanos))
	}
}
