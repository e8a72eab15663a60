package session

import (
	"math"
	"testing"

	"github.com/repgate/repgate/internal/engine"
)

func TestSummarizeCadencePercentiles(t *testing.T) {
	sess := Session{
		SessionID: "s1",
		Exercise:  engine.PushUp,
		StartUnix: 100,
		EndUnix:   130,
		RepCount:  4,
	}
	events := []RepEvent{
		{SessionID: "s1", RepNumber: 1, AtUnix: 110},
		{SessionID: "s1", RepNumber: 2, AtUnix: 112},
		{SessionID: "s1", RepNumber: 3, AtUnix: 114},
		{SessionID: "s1", RepNumber: 4, AtUnix: 117},
	}

	sum := Summarize(sess, events)
	if sum.TotalReps != 4 {
		t.Errorf("TotalReps = %d, want 4", sum.TotalReps)
	}
	if math.Abs(sum.DurationSeconds-30) > 1e-9 {
		t.Errorf("DurationSeconds = %v, want 30", sum.DurationSeconds)
	}
	// Intervals are [2, 2, 3].
	if sum.P50CadenceSec != 2 {
		t.Errorf("P50 = %v, want 2", sum.P50CadenceSec)
	}
	if sum.P85CadenceSec != 3 {
		t.Errorf("P85 = %v, want 3", sum.P85CadenceSec)
	}
	if sum.P95CadenceSec != 3 {
		t.Errorf("P95 = %v, want 3", sum.P95CadenceSec)
	}
}

func TestSummarizeUnorderedEvents(t *testing.T) {
	sess := Session{SessionID: "s1", RepCount: 3}
	// Out-of-order delivery must not produce negative intervals.
	events := []RepEvent{
		{RepNumber: 2, AtUnix: 115},
		{RepNumber: 1, AtUnix: 110},
		{RepNumber: 3, AtUnix: 121},
	}
	sum := Summarize(sess, events)
	if sum.P50CadenceSec != 5 {
		t.Errorf("P50 = %v, want 5", sum.P50CadenceSec)
	}
	if sum.P95CadenceSec != 6 {
		t.Errorf("P95 = %v, want 6", sum.P95CadenceSec)
	}
}

func TestSummarizeTooFewEvents(t *testing.T) {
	sess := Session{SessionID: "s1", RepCount: 1, StartUnix: 10, EndUnix: 20}
	for _, events := range [][]RepEvent{nil, {{RepNumber: 1, AtUnix: 15}}} {
		sum := Summarize(sess, events)
		if sum.P50CadenceSec != 0 || sum.P85CadenceSec != 0 || sum.P95CadenceSec != 0 {
			t.Errorf("cadence percentiles nonzero with %d events: %+v", len(events), sum)
		}
	}
}
