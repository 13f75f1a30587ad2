// Package http implements the HTTP handlers of the dashboard web service.
// Handlers stay thin: they parse and validate the request, call the
// dashboard or health service, and format the response.
//
// # Routes
//
// PageHandler renders the HTML pages from embedded templates:
//
//	GET /              home page with the list of dashboard pages
//	GET /overview      headline metrics and the clustered world map
//	GET /geographic    countries and cities rankings (?limit=N)
//	GET /restaurants   restaurants and cuisines rankings (?limit=N)
//
// DashboardHandler serves the JSON API mounted under /api:
//
//	GET  /api/overview            general overview page
//	GET  /api/map                 restaurant markers as GeoJSON
//	GET  /api/countries           countries tab (?limit=N)
//	GET  /api/cities              cities tab (?limit=N)
//	GET  /api/cuisines            restaurants and cuisines page (?limit=N)
//	GET  /api/dataset/stats       cleaning statistics
//	POST /api/dataset/reload      reload the dataset from disk
//	GET  /api/charts/{id}.png     chart image
//	GET  /api/export/{format}     dataset download (csv, xlsx, parquet, sqlite)
//
// WebSocketHandler upgrades /ws and attaches the connection to the hub,
// which pushes a dataset_reloaded event after every reload.
//
// # Error Handling
//
// Service sentinel errors are mapped to API errors by mapServiceError and
// written as RFC 7807 problem documents:
//
//	{
//	    "type": "/errors/service-unavailable",
//	    "title": "Service Unavailable",
//	    "status": 503,
//	    "detail": "The restaurant dataset is not loaded",
//	    "instance": "/api/overview",
//	    "error_code": "DATASET_NOT_LOADED",
//	    "trace_id": "..."
//	}
//
// # Testing
//
// Handlers are tested with httptest against testify mocks of
// DashboardServiceInterface and HealthServiceInterface.
package http
