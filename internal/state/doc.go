// Package state provides thread-safe state management for lexview.
//
// It implements a simple store for sharing the dashboard payload and the
// experiment list between the background poller and the UI. The package
// follows a producer-consumer pattern: the poller calls Update after each
// refresh, the UI calls Snapshot on its render tick. The Store mediates
// between those two goroutines with an RWMutex and defensive copies, so
// readers never observe a partially-applied refresh.
//
// Poll failures keep the previous data visible and only record the error
// plus a consecutive-failure count; Snapshot.IsOffline turns true after
// repeated failures so the UI can flag a dead backend without blanking the
// screen.
package state
