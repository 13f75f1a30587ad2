// Package app wires the dashboard web service together and manages its
// lifecycle.
//
// NewApplication resolves the configured paths, initializes OpenTelemetry
// and the business metrics, starts the WebSocket hub, and builds the
// dashboard and health services. The chi router is assembled in this order:
//
//	RequestID → RealIP → /ws
//	OTel → StructuredLogger → Recoverer → SecurityHeaders → CORS →
//	RateLimiter → Timeout → Compress → /api/* and the HTML pages
//	/metrics (Prometheus, when metrics are enabled)
//
// The WebSocket route is registered outside the group so that no middleware
// wraps the ResponseWriter before the upgrade.
//
// # Lifecycle
//
// Start loads the dataset in the background and serves HTTP. Until the first
// load completes the readiness probe answers 503 and the pages answer with a
// DATASET_NOT_LOADED problem. Run blocks until SIGINT or SIGTERM and then
// calls Stop, which shuts the server down, stops the hub and flushes the
// telemetry providers.
//
//	application, err := app.NewApplication(nil, nil)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
package app
