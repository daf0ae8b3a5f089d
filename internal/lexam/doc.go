// Package lexam provides an HTTP client for the LEXam backend API.
//
// The backend owns all state: the question dataset, experiments, generated
// answers, judgments, and job progress. This package handles HTTP
// communication, JSON serialization, and type-safe representation of every
// payload the UI consumes.
//
// The package is split into two files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the API schema
//
// Create a client using the API bind address from configuration:
//
//	client, err := lexam.NewClient("127.0.0.1:8000")
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	dash, err := client.FetchDashboard(ctx, nil)
//	if err != nil {
//		log.Printf("dashboard fetch failed: %v", err)
//	}
//
// Query parameters for the filterable endpoints (questions, filters,
// dashboard) are built by the filter package's query builder and passed in
// as url.Values, so filtering, sorting, and pagination requests all encode
// the same way.
//
// Errors wrap the failing step ("create request", "execute request",
// "decode response") or carry the HTTP status plus the backend's detail
// message. There is no retry: a failed call is terminal and the caller
// decides whether to repeat it.
package lexam
