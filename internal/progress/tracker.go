package progress

import (
	"context"
	"sync"
	"time"

	"github.com/lexam-dev/lexview/internal/lexam"
)

// DefaultInterval is the poll cadence for job status requests.
const DefaultInterval = 2 * time.Second

// Fetch retrieves the current job status, typically a closure over
// lexam.Client.FetchGenerationProgress or FetchJudgeProgress.
type Fetch func(ctx context.Context) (lexam.ProgressReport, error)

// Tracker polls a long-running server-side job until it reaches a terminal
// status. It is an owned resource: Start launches the poll loop and Stop
// must be called on view teardown unless the tracker already stopped
// itself. The zero-value (nil) tracker reports not running, so callers can
// guard resumption with a single Running check.
type Tracker struct {
	mu      sync.Mutex
	latest  lexam.ProgressReport
	lastErr error
	running bool

	cancel context.CancelFunc
	done   chan struct{}
}

// Start launches a background poll loop and returns immediately. The first
// fetch is issued right away, then every interval. A report with a
// terminal status (done, error, idle) stops the loop; that and teardown
// are the only ways polling ends.
func Start(ctx context.Context, interval time.Duration, fetch Fetch) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	t := &Tracker{
		running: true,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go t.loop(ctx, interval, fetch)
	return t
}

func (t *Tracker) loop(ctx context.Context, interval time.Duration, fetch Fetch) {
	defer close(t.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report, err := fetch(ctx)
		if ctx.Err() != nil {
			t.finish()
			return
		}

		t.mu.Lock()
		if err != nil {
			// Keep the previous report visible; a transient poll failure
			// is not a job failure. The next tick retries.
			t.lastErr = err
		} else {
			t.latest = report
			t.lastErr = nil
		}
		terminal := err == nil && report.Terminal()
		if terminal {
			t.running = false
		}
		t.mu.Unlock()

		if terminal {
			return
		}
		select {
		case <-ctx.Done():
			t.finish()
			return
		case <-ticker.C:
		}
	}
}

func (t *Tracker) finish() {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
}

// Latest returns the most recent report and the error from the last poll,
// if any. Each successful poll replaces the report unconditionally.
func (t *Tracker) Latest() (lexam.ProgressReport, error) {
	if t == nil {
		return lexam.ProgressReport{Status: "idle"}, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest, t.lastErr
}

// Running reports whether the poll loop is still active. A nil tracker is
// not running, so callers resume polling with:
//
//	if !tracker.Running() {
//		tracker = progress.Start(ctx, interval, fetch)
//	}
//
// which guarantees at most one active loop per job.
func (t *Tracker) Running() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Stop cancels the poll loop and waits for it to exit. Safe to call on a
// nil or already-stopped tracker, and idempotent.
func (t *Tracker) Stop() {
	if t == nil {
		return
	}
	t.cancel()
	<-t.done
}
