package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/repgate/repgate/internal/engine"
	"github.com/repgate/repgate/internal/monitoring"
	"github.com/repgate/repgate/internal/pose"
	"github.com/repgate/repgate/internal/timeutil"
)

// DefaultTraceCapacity bounds the in-memory metric trace ring.
const DefaultTraceCapacity = 1800 // one minute at 30 Hz

// TracePoint is one sample of the metric trace kept for the monitor UI.
type TracePoint struct {
	AtUnix   float64      `json:"at_unix"`
	Metric   float64      `json:"metric"`
	MetricOK bool         `json:"metric_ok"`
	State    engine.State `json:"state"`
}

// Status is the live view the HTTP layer serves.
type Status struct {
	SessionID   string        `json:"session_id"`
	StartUnix   float64       `json:"start_unix"`
	FrameCount  int           `json:"frame_count"`
	Result      engine.Result `json:"result"`
	StoreBacked bool          `json:"store_backed"`
}

// Manager owns one live workout session: it drives the analyzer frame by
// frame, keeps a bounded metric trace, and forwards counted reps to the
// store (when one is attached).
//
// The analyzer itself is single-threaded by contract; Manager adds the mutex
// so the HTTP layer can read status while the ingest loop writes frames.
type Manager struct {
	mu sync.Mutex

	analyzer engine.Analyzer
	store    *Store // nil means in-memory only
	clock    timeutil.Clock

	sessionID  string
	startedAt  time.Time
	frameCount int
	prevReps   int

	trace    []TracePoint
	traceCap int

	started  bool
	finished bool
}

// NewManager creates a manager for one session. store may be nil for
// replay/tooling use where nothing should be persisted.
func NewManager(analyzer engine.Analyzer, store *Store, clock timeutil.Clock) *Manager {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Manager{
		analyzer: analyzer,
		store:    store,
		clock:    clock,
		traceCap: DefaultTraceCapacity,
	}
}

// Start opens the session: resets the analyzer, assigns a session id, and
// inserts the session row.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started && !m.finished {
		return fmt.Errorf("session %s already running", m.sessionID)
	}

	m.analyzer.Reset()
	m.sessionID = uuid.NewString()
	m.startedAt = m.clock.Now()
	m.frameCount = 0
	m.prevReps = 0
	m.trace = m.trace[:0]
	m.started = true
	m.finished = false

	if m.store != nil {
		sess := &Session{
			SessionID: m.sessionID,
			Exercise:  m.analyzer.Exercise(),
			StartUnix: unixFloat(m.startedAt),
		}
		if err := m.store.InsertSession(sess); err != nil {
			return err
		}
	}
	monitoring.Logf("session %s started (%s)", m.sessionID, m.analyzer.Exercise())
	return nil
}

// ProcessFrame feeds one pose frame (nil = no body detected) to the analyzer
// and records any newly counted rep.
func (m *Manager) ProcessFrame(s *pose.Snapshot, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started || m.finished {
		return
	}

	m.analyzer.Analyze(s, now)
	m.frameCount++
	res := m.analyzer.Result()

	m.trace = append(m.trace, TracePoint{
		AtUnix:   unixFloat(now),
		Metric:   res.Metric,
		MetricOK: res.MetricOK,
		State:    res.State,
	})
	if len(m.trace) > m.traceCap {
		m.trace = m.trace[len(m.trace)-m.traceCap:]
	}

	for rep := m.prevReps + 1; rep <= res.RepCount; rep++ {
		if m.store != nil {
			e := &RepEvent{
				SessionID: m.sessionID,
				RepNumber: rep,
				AtUnix:    unixFloat(now),
				MetricDeg: res.Metric,
			}
			if err := m.store.InsertRepEvent(e); err != nil {
				monitoring.Logf("failed to record rep %d: %v", rep, err)
			}
		}
	}
	m.prevReps = res.RepCount
}

// Status returns the live view of the session.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		SessionID:   m.sessionID,
		StartUnix:   unixFloat(m.startedAt),
		FrameCount:  m.frameCount,
		Result:      m.analyzer.Result(),
		StoreBacked: m.store != nil,
	}
}

// Trace returns a copy of the recent metric trace.
func (m *Manager) Trace() []TracePoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TracePoint, len(m.trace))
	copy(out, m.trace)
	return out
}

// Finish closes the session, writes the final counts back to the store, and
// returns the session summary.
func (m *Manager) Finish() (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return Summary{}, fmt.Errorf("no session started")
	}
	if m.finished {
		return Summary{}, fmt.Errorf("session %s already finished", m.sessionID)
	}
	m.finished = true

	res := m.analyzer.Result()
	sess := Session{
		SessionID:   m.sessionID,
		Exercise:    m.analyzer.Exercise(),
		StartUnix:   unixFloat(m.startedAt),
		EndUnix:     unixFloat(m.clock.Now()),
		RepCount:    res.RepCount,
		SecondsHeld: res.SecondsHeld,
		FrameCount:  m.frameCount,
	}

	if m.store == nil {
		return Summarize(sess, nil), nil
	}
	if err := m.store.FinishSession(&sess); err != nil {
		return Summary{}, err
	}
	events, err := m.store.ListRepEvents(m.sessionID)
	if err != nil {
		return Summary{}, err
	}
	sum := Summarize(sess, events)
	monitoring.Logf("session %s finished: %d reps, %d frames", m.sessionID, res.RepCount, m.frameCount)
	return sum, nil
}

func unixFloat(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixNano()) / 1e9
}
