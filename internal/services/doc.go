// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP handlers and the dataset, analytics, charts and
// exporter packages so that handlers stay thin.
//
// # DashboardService
//
// DashboardService reads and cleans the restaurant dataset once and caches
// it together with every page derived from it. Pages are assembled by
// running the report functions concurrently with errgroup. A reload swaps
// the cached snapshot atomically and broadcasts a dataset_reloaded event;
// a failed reload keeps the previous snapshot.
//
//	svc := services.NewDashboardService(cfg, metrics, hub, logger)
//	if err := svc.EnsureLoaded(ctx); err != nil {
//	    return err
//	}
//	page, err := svc.GeographicOverview(ctx, 0)
//
// # HealthService
//
// HealthService answers liveness and readiness probes. The service is ready
// once the dataset is loaded.
//
// # Errors
//
// Callers match the sentinel errors with errors.Is:
//
//	ErrDatasetNotLoaded   the dataset could not be loaded
//	ErrUnknownChart       no chart has the requested ID
//	ErrUnsupportedFormat  the export format is not supported
//	ErrInvalidLimit       a top-n limit is out of range
package services
