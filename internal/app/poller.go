package app

import (
	"context"
	"log"
	"time"

	"github.com/lexam-dev/lexview/internal/lexam"
	"github.com/lexam-dev/lexview/internal/state"
)

const defaultPollInterval = 2 * time.Second

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client *lexam.Client, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			refresh(ctx, store, client)
		}
	}()
}

// refresh fetches the dashboard and experiment list. The dashboard fetch is
// unfiltered here; view-scoped filtering goes through the UI's own
// commands so a background refresh never clobbers filtered chart data.
func refresh(ctx context.Context, store *state.Store, client *lexam.Client) {
	dashboard, err := client.FetchDashboard(ctx, nil)
	if err != nil {
		store.Update(nil, nil, err)
		log.Printf("dashboard poll failed: %v", err)
		return
	}
	experiments, err := client.ListExperiments(ctx)
	if err != nil {
		store.Update(nil, nil, err)
		log.Printf("experiments poll failed: %v", err)
		return
	}
	store.Update(dashboard, experiments, nil)
}
