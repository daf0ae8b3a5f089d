// Package app wires the lexview application together: configuration,
// preferences, the API client, the shared state store, the background
// poller, and finally the Bubble Tea UI.
//
// The poller refreshes the dashboard payload and the experiment list every
// poll interval and publishes them through state.Store; the UI never calls
// those two endpoints directly on its render path. Everything else, from
// question pages to job progress, is fetched on demand by the UI's own
// commands because it depends on view-local state (filters, pagination,
// the selected experiment).
package app
