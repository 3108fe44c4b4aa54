package status

import (
	"sync/atomic"
	"time"

	"github.com/asthiranalyticsyt/Asthir-story/types"
)

// ringCap bounds the error and log histories; oldest entries are evicted first
const ringCap = 100

// Snapshot is an immutable view of the pipeline state. The tracker swaps
// whole snapshots atomically, so readers never observe a half-written update.
type Snapshot struct {
	Stage        string
	StartedAt    time.Time
	VideoCreated bool
	VideoPath    string
	VideoSizeMB  float64
	Results      []types.PublishResult
	Errors       []string
	Logs         []string
}

// Successes counts publish results that succeeded
func (s *Snapshot) Successes() int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == types.OutcomeSuccess {
			n++
		}
	}
	return n
}

// Failures counts publish results that failed
func (s *Snapshot) Failures() int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == types.OutcomeFailed {
			n++
		}
	}
	return n
}

// Tracker holds the shared pipeline status. Writers come from the pipeline
// goroutine and from the log hook on any goroutine; readers use Snapshot().
type Tracker struct {
	cur atomic.Pointer[Snapshot]
}

func NewTracker() *Tracker {
	t := &Tracker{}
	t.cur.Store(&Snapshot{
		Stage:     "Idle",
		StartedAt: time.Now(),
	})
	return t
}

// Snapshot returns the current state. The returned value must not be mutated.
func (t *Tracker) Snapshot() *Snapshot {
	return t.cur.Load()
}

// update clones the current snapshot, applies fn and swaps it in. Writers
// race through the log hook, so the swap retries until it wins.
func (t *Tracker) update(fn func(*Snapshot)) {
	for {
		old := t.cur.Load()
		next := &Snapshot{
			Stage:        old.Stage,
			StartedAt:    old.StartedAt,
			VideoCreated: old.VideoCreated,
			VideoPath:    old.VideoPath,
			VideoSizeMB:  old.VideoSizeMB,
			Results:      append([]types.PublishResult(nil), old.Results...),
			Errors:       append([]string(nil), old.Errors...),
			Logs:         append([]string(nil), old.Logs...),
		}
		fn(next)
		if t.cur.CompareAndSwap(old, next) {
			return
		}
	}
}

// SetStage records the current pipeline stage label
func (t *Tracker) SetStage(stage string) {
	t.update(func(s *Snapshot) { s.Stage = stage })
}

// SetVideo records the composed artifact once it exists on disk
func (t *Tracker) SetVideo(v types.VideoArtifact) {
	t.update(func(s *Snapshot) {
		s.VideoCreated = true
		s.VideoPath = v.Path
		s.VideoSizeMB = v.SizeMB()
	})
}

// AddResult appends one publish result, preserving discovery order
func (t *Tracker) AddResult(r types.PublishResult) {
	t.update(func(s *Snapshot) { s.Results = append(s.Results, r) })
}

// AddError appends to the bounded error ring
func (t *Tracker) AddError(msg string) {
	t.update(func(s *Snapshot) { s.Errors = appendRing(s.Errors, msg) })
}

// AddLog appends to the bounded log ring
func (t *Tracker) AddLog(line string) {
	t.update(func(s *Snapshot) { s.Logs = appendRing(s.Logs, line) })
}

func appendRing(ring []string, entry string) []string {
	ring = append(ring, entry)
	if len(ring) > ringCap {
		ring = ring[len(ring)-ringCap:]
	}
	return ring
}
