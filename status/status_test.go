package status

import (
	"fmt"
	"sync"
	"testing"

	"github.com/asthiranalyticsyt/Asthir-story/types"
)

func TestTracker_InitialState(t *testing.T) {
	snap := NewTracker().Snapshot()
	if snap.Stage != "Idle" {
		t.Errorf("initial stage = %q, want Idle", snap.Stage)
	}
	if snap.StartedAt.IsZero() {
		t.Error("start timestamp not set")
	}
}

func TestTracker_SnapshotIsolation(t *testing.T) {
	tr := NewTracker()
	tr.SetStage("Composing video...")

	before := tr.Snapshot()
	tr.SetStage("Publishing...")
	tr.AddResult(types.PublishResult{Account: "a.tok", Outcome: types.OutcomeSuccess})

	// A previously obtained snapshot never changes under later writes.
	if before.Stage != "Composing video..." {
		t.Errorf("older snapshot mutated: stage = %q", before.Stage)
	}
	if len(before.Results) != 0 {
		t.Errorf("older snapshot mutated: %d results", len(before.Results))
	}

	after := tr.Snapshot()
	if after.Stage != "Publishing..." || len(after.Results) != 1 {
		t.Errorf("new snapshot missing writes: %+v", after)
	}
}

func TestTracker_ResultsPreserveOrder(t *testing.T) {
	tr := NewTracker()
	for _, name := range []string{"a.tok", "b.tok", "c.tok"} {
		tr.AddResult(types.PublishResult{Account: name, Outcome: types.OutcomeFailed})
	}
	snap := tr.Snapshot()
	want := []string{"a.tok", "b.tok", "c.tok"}
	for i, r := range snap.Results {
		if r.Account != want[i] {
			t.Errorf("result %d account = %q, want %q", i, r.Account, want[i])
		}
	}
}

func TestTracker_LogRingEviction(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 150; i++ {
		tr.AddLog(fmt.Sprintf("line %d", i))
	}
	snap := tr.Snapshot()
	if len(snap.Logs) != ringCap {
		t.Fatalf("log ring holds %d entries, want %d", len(snap.Logs), ringCap)
	}
	if snap.Logs[0] != "line 50" {
		t.Errorf("oldest retained log = %q, want line 50 (FIFO eviction)", snap.Logs[0])
	}
	if snap.Logs[len(snap.Logs)-1] != "line 149" {
		t.Errorf("newest log = %q, want line 149", snap.Logs[len(snap.Logs)-1])
	}
}

func TestTracker_ErrorRingEviction(t *testing.T) {
	tr := NewTracker()
	for i := 0; i < 120; i++ {
		tr.AddError(fmt.Sprintf("err %d", i))
	}
	snap := tr.Snapshot()
	if len(snap.Errors) != ringCap {
		t.Errorf("error ring holds %d entries, want %d", len(snap.Errors), ringCap)
	}
}

func TestTracker_ConcurrentWriters(t *testing.T) {
	tr := NewTracker()
	const n = 500

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			tr.AddResult(types.PublishResult{Account: fmt.Sprintf("acct-%d.tok", i), Outcome: types.OutcomeSuccess})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			tr.AddError(fmt.Sprintf("err %d", i))
		}
	}()
	wg.Wait()

	// The log hook writes from whatever goroutine logs, so two racing
	// updates must not lose each other's appends.
	snap := tr.Snapshot()
	if len(snap.Results) != n {
		t.Errorf("results = %d, want %d (lost update)", len(snap.Results), n)
	}
	if len(snap.Errors) != ringCap {
		t.Errorf("error ring holds %d entries, want %d", len(snap.Errors), ringCap)
	}
	if snap.Errors[len(snap.Errors)-1] != fmt.Sprintf("err %d", n-1) {
		t.Errorf("newest error = %q, want err %d", snap.Errors[len(snap.Errors)-1], n-1)
	}
}

func TestTracker_Counters(t *testing.T) {
	tr := NewTracker()
	tr.AddResult(types.PublishResult{Account: "a", Outcome: types.OutcomeSuccess})
	tr.AddResult(types.PublishResult{Account: "b", Outcome: types.OutcomeFailed})
	tr.AddResult(types.PublishResult{Account: "c", Outcome: types.OutcomeSuccess})

	snap := tr.Snapshot()
	if snap.Successes() != 2 {
		t.Errorf("successes = %d, want 2", snap.Successes())
	}
	if snap.Failures() != 1 {
		t.Errorf("failures = %d, want 1", snap.Failures())
	}
}

func TestTracker_SetVideo(t *testing.T) {
	tr := NewTracker()
	tr.SetVideo(types.VideoArtifact{Path: "final_video.mp4", SizeBytes: 2 << 20})

	snap := tr.Snapshot()
	if !snap.VideoCreated {
		t.Error("video-created flag not set")
	}
	if snap.VideoPath != "final_video.mp4" {
		t.Errorf("video path = %q", snap.VideoPath)
	}
	if snap.VideoSizeMB != 2.0 {
		t.Errorf("video size = %f MB, want 2", snap.VideoSizeMB)
	}
}
