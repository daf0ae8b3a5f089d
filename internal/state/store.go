package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/lexam-dev/lexview/internal/lexam"
)

// Snapshot represents the latest server data available to the UI.
type Snapshot struct {
	Dashboard           lexam.Dashboard
	HasDashboard        bool
	Experiments         []lexam.Experiment
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Experiment returns the snapshot's row for an experiment id, if present.
func (s Snapshot) Experiment(id int) (lexam.Experiment, bool) {
	for _, exp := range s.Experiments {
		if exp.ID == id {
			return exp, true
		}
	}
	return lexam.Experiment{}, false
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous
// data is kept but the error is recorded for visibility.
func (s *Store) Update(dashboard *lexam.Dashboard, experiments []lexam.Experiment, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Experiments = cloneExperiments(experiments)
	if dashboard != nil {
		s.snapshot.Dashboard = *dashboard
		s.snapshot.HasDashboard = true
	} else {
		s.snapshot.HasDashboard = false
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Experiments = cloneExperiments(s.snapshot.Experiments)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneExperiments(items []lexam.Experiment) []lexam.Experiment {
	if len(items) == 0 {
		return nil
	}
	dup := make([]lexam.Experiment, len(items))
	copy(dup, items)
	return dup
}
