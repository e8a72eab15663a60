// Package session records workout sessions and their counted repetitions.
//
// This is local capture for the monitor and reward layers; cloud sync is
// someone else's problem.
package session

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/repgate/repgate/internal/engine"
)

// Session is one workout session row.
type Session struct {
	SessionID   string          `json:"session_id"`
	Exercise    engine.Exercise `json:"exercise"`
	StartUnix   float64         `json:"start_unix"`
	EndUnix     float64         `json:"end_unix,omitempty"`
	RepCount    int             `json:"rep_count"`
	SecondsHeld int             `json:"seconds_held"`
	FrameCount  int             `json:"frame_count"`
}

// RepEvent is one counted repetition (or hold quantum) within a session.
type RepEvent struct {
	EventID   int64   `json:"event_id"`
	SessionID string  `json:"session_id"`
	RepNumber int     `json:"rep_number"`
	AtUnix    float64 `json:"at_unix"`
	// MetricDeg is the metric value at the frame that completed the rep;
	// zero for boolean-signal exercises.
	MetricDeg float64 `json:"metric_deg,omitempty"`
}

// Summary holds aggregate statistics for a finished session.
type Summary struct {
	SessionID       string          `json:"session_id"`
	Exercise        engine.Exercise `json:"exercise"`
	TotalReps       int             `json:"total_reps"`
	SecondsHeld     int             `json:"seconds_held"`
	DurationSeconds float64         `json:"duration_seconds"`

	// Inter-rep cadence percentiles in seconds; zero when fewer than two
	// reps were counted.
	P50CadenceSec float64 `json:"p50_cadence_sec"`
	P85CadenceSec float64 `json:"p85_cadence_sec"`
	P95CadenceSec float64 `json:"p95_cadence_sec"`
}

// Summarize computes aggregate statistics from a session row and its rep
// events.
func Summarize(s Session, events []RepEvent) Summary {
	sum := Summary{
		SessionID:       s.SessionID,
		Exercise:        s.Exercise,
		TotalReps:       s.RepCount,
		SecondsHeld:     s.SecondsHeld,
		DurationSeconds: s.EndUnix - s.StartUnix,
	}

	if len(events) < 2 {
		return sum
	}

	times := make([]float64, len(events))
	for i, e := range events {
		times[i] = e.AtUnix
	}
	sort.Float64s(times)

	intervals := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		intervals = append(intervals, times[i]-times[i-1])
	}
	sort.Float64s(intervals)

	sum.P50CadenceSec = stat.Quantile(0.50, stat.Empirical, intervals, nil)
	sum.P85CadenceSec = stat.Quantile(0.85, stat.Empirical, intervals, nil)
	sum.P95CadenceSec = stat.Quantile(0.95, stat.Empirical, intervals, nil)
	return sum
}
