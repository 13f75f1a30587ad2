package http

import (
	"context"
	"io"

	"github.com/paulmach/orb/geojson"

	"zomatour/internal/config"
	"zomatour/internal/services"
	"zomatour/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard operations used by the handlers
type DashboardServiceInterface interface {
	Home() domain.HomePage
	UI() config.UIConfig
	Stats(ctx context.Context) (domain.CleaningStats, error)
	Reload(ctx context.Context) (domain.CleaningStats, error)
	GeneralOverview(ctx context.Context) (domain.GeneralOverviewPage, error)
	MapGeoJSON(ctx context.Context) (*geojson.FeatureCollection, error)
	GeographicOverview(ctx context.Context, limit int) (domain.GeographicPage, error)
	RestaurantsCuisines(ctx context.Context, limit int) (domain.RestaurantsCuisinesPage, error)
	Chart(ctx context.Context, id string, w io.Writer) error
	Export(ctx context.Context, format string, w io.Writer) error
}

// HealthServiceInterface defines the health checks served by HealthHandler
type HealthServiceInterface interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
