// Package progress tracks long-running server-side jobs: answer
// generation and judging.
//
// The backend runs those jobs asynchronously and exposes their status at a
// progress endpoint. A Tracker polls that endpoint on a fixed cadence and
// holds the latest report behind a mutex for the UI to read on its render
// tick, the same producer/consumer split used for the dashboard poller.
//
// A tracker's lifecycle is explicit: Start acknowledges the job and begins
// polling, a terminal report (done, error, or idle once the server forgot
// the job) stops it on its own, and Stop tears it down with the view. The
// Running guard makes resumption idempotent, so re-entering a view whose
// job is still active resumes polling exactly once rather than stacking
// intervals.
package progress
