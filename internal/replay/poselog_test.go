package replay

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/repgate/repgate/internal/pose"
	"github.com/repgate/repgate/internal/synth"
	"github.com/repgate/repgate/internal/timeutil"
)

func TestRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.poselog")

	frames := synth.PushUps(1, synth.Options{DropEvery: 10})
	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	for _, f := range frames {
		if err := rec.Record(f); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff(frames, got); diff != "" {
		t.Errorf("poselog round trip mismatch (-recorded +read):\n%s", diff)
	}
}

func TestReadAllSkipsBlankLines(t *testing.T) {
	in := `{"t_nanos":1}

{"t_nanos":2}
`
	frames, err := ReadAll(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(frames) != 2 || frames[0].TNanos != 1 || frames[1].TNanos != 2 {
		t.Errorf("frames = %+v, want t_nanos 1 and 2", frames)
	}
}

func TestReadAllReportsLineNumber(t *testing.T) {
	in := `{"t_nanos":1}
not json
`
	_, err := ReadAll(strings.NewReader(in))
	if err == nil {
		t.Fatal("expected an error for a malformed line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name the offending line", err)
	}
}

func TestPlayerDeliversRecordedTimes(t *testing.T) {
	frames := []pose.Frame{
		{TNanos: 1_000_000_000},
		{TNanos: 1_033_000_000},
		{TNanos: 1_066_000_000},
	}

	var gotTimes []time.Time
	p := NewPlayer(timeutil.NewMockClock(time.Unix(0, 0)))
	p.Play(frames, func(s *pose.Snapshot, now time.Time) {
		if s != nil {
			t.Error("empty frame delivered a non-nil snapshot")
		}
		gotTimes = append(gotTimes, now)
	})

	if len(gotTimes) != 3 {
		t.Fatalf("delivered %d frames, want 3", len(gotTimes))
	}
	for i, f := range frames {
		if want := time.Unix(0, f.TNanos); !gotTimes[i].Equal(want) {
			t.Errorf("frame %d delivered at %v, want %v", i, gotTimes[i], want)
		}
	}
}

func TestPlayerRealtimeSleepsRecordedGaps(t *testing.T) {
	frames := []pose.Frame{
		{TNanos: 1_000_000_000},
		{TNanos: 1_033_000_000},
		{TNanos: 1_100_000_000},
	}

	clock := timeutil.NewMockClock(time.Unix(0, 0))
	p := NewPlayer(clock)
	p.Realtime = true
	p.Play(frames, func(*pose.Snapshot, time.Time) {})

	want := []time.Duration{33 * time.Millisecond, 67 * time.Millisecond}
	if diff := cmp.Diff(want, clock.Sleeps()); diff != "" {
		t.Errorf("recorded sleeps mismatch (-want +got):\n%s", diff)
	}
}

func TestPlayerNonRealtimeNeverSleeps(t *testing.T) {
	frames := []pose.Frame{{TNanos: 1}, {TNanos: 2_000_000_000}}
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	NewPlayer(clock).Play(frames, func(*pose.Snapshot, time.Time) {})
	if sleeps := clock.Sleeps(); len(sleeps) != 0 {
		t.Errorf("non-realtime playback slept: %v", sleeps)
	}
}
