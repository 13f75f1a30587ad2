// Package shared holds helpers used across packages that belong to no domain layer.
//
// The testutil subpackage provides a capturing slog handler for log assertions
// and a small raw restaurant dataset used by the cleaning, analytics, service
// and transport tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	path := testutil.WriteZomatoCSV(t)
package shared
