package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/vg"

	"zomatour/internal/analytics"
	"zomatour/internal/charts"
	"zomatour/internal/cleaning"
	"zomatour/internal/config"
	"zomatour/internal/dataset"
	"zomatour/internal/exporter"
	"zomatour/internal/geo"
	"zomatour/internal/infrastructure"
	"zomatour/pkg/contracts/domain"
	"zomatour/pkg/contracts/events"
)

// Page names used in logs and metrics
const (
	PageGeneralOverview     = "general_overview"
	PageGeographic          = "geographic"
	PageRestaurantsCuisines = "restaurants_cuisines"
)

// MaxLimit is the largest top-n accepted by the page builders
const MaxLimit = 100

// Broadcaster publishes dashboard events to connected clients
type Broadcaster interface {
	Broadcast(messageType string, data interface{})
}

// Limits holds the top-n sizes of the ranked tables
type Limits struct {
	Countries       int
	RatingExtremes  int
	Cities          int
	ExpensiveCities int
	Cuisines        int
}

// DefaultLimits are the sizes shown on the dashboard pages
var DefaultLimits = Limits{
	Countries:       5,
	RatingExtremes:  3,
	Cities:          10,
	ExpensiveCities: 5,
	Cuisines:        5,
}

// uniform returns limits with every table capped at n
func uniform(n int) Limits {
	return Limits{Countries: n, RatingExtremes: n, Cities: n, ExpensiveCities: n, Cuisines: n}
}

// DashboardConfig configures a DashboardService
type DashboardConfig struct {
	DataFile    string
	Cleaning    cleaning.Options
	LoadTimeout time.Duration
	ExportDir   string
	BOMPrefix   bool
	ChartWidth  vg.Length
	ChartHeight vg.Length
	UI          config.UIConfig
}

// NewDashboardConfig builds the service configuration from the application config
func NewDashboardConfig(cfg *config.Config, paths *config.Paths) DashboardConfig {
	return DashboardConfig{
		DataFile: paths.DataFile,
		Cleaning: cleaning.Options{
			MaxDollarCost: cfg.Dataset.MaxDollarCost,
			SkipUnknown:   cfg.Dataset.SkipUnknown,
		},
		LoadTimeout: cfg.Dataset.LoadTimeout,
		ExportDir:   paths.ExportDir,
		BOMPrefix:   cfg.Export.BOMPrefix,
		ChartWidth:  vg.Length(cfg.Charts.WidthCM) * vg.Centimeter,
		ChartHeight: vg.Length(cfg.Charts.HeightCM) * vg.Centimeter,
		UI:          cfg.UI,
	}
}

// snapshot is one loaded dataset with every page derived from it
type snapshot struct {
	restaurants         []domain.Restaurant
	stats               domain.CleaningStats
	general             domain.GeneralOverviewPage
	geographic          domain.GeographicPage
	restaurantsCuisines domain.RestaurantsCuisinesPage

	chartsMu sync.Mutex
	charts   map[charts.ChartID][]byte
}

// DashboardService loads the dataset once and serves the dashboard pages,
// charts and exports derived from it
type DashboardService struct {
	cfg      DashboardConfig
	pipeline *cleaning.Pipeline
	renderer *charts.Renderer
	exporter *exporter.Exporter
	metrics  *infrastructure.BusinessMetrics
	hub      Broadcaster
	logger   *slog.Logger

	// reloadMu serializes loads; mu guards current
	reloadMu sync.Mutex
	mu       sync.RWMutex
	current  *snapshot
}

// NewDashboardService creates a dashboard service. metrics and hub may be nil.
func NewDashboardService(cfg DashboardConfig, metrics *infrastructure.BusinessMetrics, hub Broadcaster, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dashboard_service"))

	logger.Info("DashboardService initialized",
		slog.String("data_file", cfg.DataFile),
		slog.String("export_dir", cfg.ExportDir))

	return &DashboardService{
		cfg:      cfg,
		pipeline: cleaning.NewPipeline(cfg.Cleaning, logger),
		renderer: charts.NewRenderer(cfg.ChartWidth, cfg.ChartHeight),
		exporter: exporter.New(cfg.ExportDir, cfg.BOMPrefix, logger),
		metrics:  metrics,
		hub:      hub,
		logger:   logger,
	}
}

// Loaded reports whether a dataset is cached
func (s *DashboardService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// EnsureLoaded loads the dataset unless it is already cached
func (s *DashboardService) EnsureLoaded(ctx context.Context) error {
	if s.Loaded() {
		return nil
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	if s.Loaded() {
		return nil
	}
	_, err := s.reloadLocked(ctx)
	return err
}

// Reload reads and cleans the dataset file again and rebuilds every page.
// The previous dataset stays in place when the reload fails.
func (s *DashboardService) Reload(ctx context.Context) (domain.CleaningStats, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	return s.reloadLocked(ctx)
}

func (s *DashboardService) reloadLocked(ctx context.Context) (domain.CleaningStats, error) {
	snap, err := s.load(ctx)
	if err != nil {
		s.broadcast(events.MessageTypeDatasetFailed, events.DatasetFailed{
			Source: s.cfg.DataFile,
			Error:  err.Error(),
		})
		return domain.CleaningStats{}, err
	}

	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	s.broadcast(events.MessageTypeDatasetReloaded, events.DatasetReloaded{Stats: snap.stats})
	return snap.stats, nil
}

func (s *DashboardService) load(ctx context.Context) (*snapshot, error) {
	if s.cfg.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.LoadTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.clean(ctx)
	if err != nil {
		s.metrics.RecordDatasetLoad(ctx, time.Since(start), 0, 0, err)
		s.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("file", s.cfg.DataFile),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	s.metrics.RecordDatasetLoad(ctx, time.Since(start), result.Stats.RowsKept, result.Stats.Dropped(), nil)

	snap := &snapshot{
		restaurants: result.Restaurants,
		stats:       result.Stats,
		charts:      make(map[charts.ChartID][]byte),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.general = s.buildGeneral(gctx, snap.restaurants)
		return nil
	})
	g.Go(func() error {
		page, err := s.buildGeographic(gctx, snap.restaurants, DefaultLimits)
		snap.geographic = page
		return err
	})
	g.Go(func() error {
		page, err := s.buildRestaurantsCuisines(gctx, snap.restaurants, DefaultLimits)
		snap.restaurantsCuisines = page
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build pages: %w", err)
	}

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("file", s.cfg.DataFile),
		slog.Int("rows_read", snap.stats.RowsRead),
		slog.Int("rows_kept", snap.stats.RowsKept),
		slog.Duration("duration", time.Since(start)))
	return snap, nil
}

func (s *DashboardService) clean(ctx context.Context) (*cleaning.Result, error) {
	table, err := dataset.Load(ctx, s.cfg.DataFile)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Clean(ctx, table)
}

func (s *DashboardService) buildGeneral(ctx context.Context, rows []domain.Restaurant) domain.GeneralOverviewPage {
	start := time.Now()
	defer func() { s.metrics.RecordReportBuild(ctx, PageGeneralOverview, time.Since(start)) }()

	return domain.GeneralOverviewPage{
		Overview: analytics.Overview(rows),
		Map:      analytics.MapPoints(rows),
	}
}

func (s *DashboardService) buildGeographic(ctx context.Context, rows []domain.Restaurant, l Limits) (domain.GeographicPage, error) {
	start := time.Now()
	defer func() { s.metrics.RecordReportBuild(ctx, PageGeographic, time.Since(start)) }()

	var page domain.GeographicPage
	countries, cities := &page.Countries, &page.Cities

	// Each report writes its own field
	g := new(errgroup.Group)
	g.Go(func() error {
		countries.ByCities = analytics.TopCountriesByCities(rows, l.Countries)
		countries.ByCuisines = analytics.TopCountriesByCuisines(rows, l.Countries)
		countries.VotesPerRestaurant = analytics.VotesPerRestaurant(rows, l.Countries)
		countries.DeliveryPresence = analytics.DeliveryPresence(rows)
		return nil
	})
	g.Go(func() (err error) {
		countries.RatingExtremes, err = analytics.CountryRatingExtremes(rows, l.RatingExtremes)
		return err
	})
	g.Go(func() (err error) {
		countries.AverageCost, err = analytics.CountryAverageCost(rows)
		return err
	})
	g.Go(func() error {
		cities.Excellent = analytics.TopExcellentCities(rows, l.Cities)
		cities.Population = analytics.CityPopulationBuckets(rows)
		cities.Delivery = analytics.CityDeliveryShare(rows)
		cities.CuisineDiversity = analytics.CuisineDiversity(rows)
		return nil
	})
	g.Go(func() (err error) {
		cities.Expensive, err = analytics.TopExpensiveCities(rows, l.ExpensiveCities)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.GeographicPage{}, err
	}
	return page, nil
}

func (s *DashboardService) buildRestaurantsCuisines(ctx context.Context, rows []domain.Restaurant, l Limits) (domain.RestaurantsCuisinesPage, error) {
	start := time.Now()
	defer func() { s.metrics.RecordReportBuild(ctx, PageRestaurantsCuisines, time.Since(start)) }()

	var page domain.RestaurantsCuisinesPage
	g := new(errgroup.Group)
	g.Go(func() (err error) {
		page.VotesByOnlineDelivery, err = analytics.VotesByOnlineDelivery(rows)
		return err
	})
	g.Go(func() (err error) {
		page.RatingByTableBooking, err = analytics.RatingByTableBooking(rows)
		return err
	})
	g.Go(func() error {
		page.OnlineCuisines = analytics.TopOnlineCuisines(rows, l.Cuisines)
		return nil
	})
	g.Go(func() (err error) {
		page.ExpensiveCuisines, err = analytics.TopExpensiveCuisines(rows, l.Cuisines)
		return err
	})
	g.Go(func() (err error) {
		page.FavoriteCuisines, err = analytics.FavoriteCuisines(rows)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.RestaurantsCuisinesPage{}, err
	}
	return page, nil
}

// cached returns the cached dataset, loading it on first use
func (s *DashboardService) cached(ctx context.Context) (*snapshot, error) {
	if err := s.EnsureLoaded(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatasetNotLoaded, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, nil
}

// Home returns the landing page
func (s *DashboardService) Home() domain.HomePage {
	return domain.HomePage{
		Title: s.cfg.UI.Title + " - Company Overview",
		Pages: []domain.PageSummary{
			{Title: "General Overview", Path: "/overview", Description: "Key Indicators"},
			{Title: "Geographic Overview", Path: "/geographic", Description: "How Zomato works around the world"},
			{Title: "Restaurants and Cuisines Overview", Path: "/restaurants", Description: "What we bring to the table"},
		},
	}
}

// UI returns the sidebar settings
func (s *DashboardService) UI() config.UIConfig {
	return s.cfg.UI
}

// Stats returns the cleaning statistics of the cached dataset
func (s *DashboardService) Stats(ctx context.Context) (domain.CleaningStats, error) {
	snap, err := s.cached(ctx)
	if err != nil {
		return domain.CleaningStats{}, err
	}
	return snap.stats, nil
}

// Restaurants returns the cleaned dataset
func (s *DashboardService) Restaurants(ctx context.Context) ([]domain.Restaurant, error) {
	snap, err := s.cached(ctx)
	if err != nil {
		return nil, err
	}
	return snap.restaurants, nil
}

// GeneralOverview returns the headline metrics and the world map
func (s *DashboardService) GeneralOverview(ctx context.Context) (domain.GeneralOverviewPage, error) {
	snap, err := s.cached(ctx)
	if err != nil {
		return domain.GeneralOverviewPage{}, err
	}
	return snap.general, nil
}

// MapGeoJSON returns the restaurant markers as a GeoJSON feature collection
func (s *DashboardService) MapGeoJSON(ctx context.Context) (*geojson.FeatureCollection, error) {
	page, err := s.GeneralOverview(ctx)
	if err != nil {
		return nil, err
	}
	return geo.FeatureCollection(page.Map), nil
}

// GeographicOverview returns the Countries and Cities tabs. A limit of 0
// returns the cached page with the default sizes; any other limit caps
// every ranked table at that size.
func (s *DashboardService) GeographicOverview(ctx context.Context, limit int) (domain.GeographicPage, error) {
	if err := checkLimit(limit); err != nil {
		return domain.GeographicPage{}, err
	}
	snap, err := s.cached(ctx)
	if err != nil {
		return domain.GeographicPage{}, err
	}
	if limit == 0 {
		return snap.geographic, nil
	}
	return s.buildGeographic(ctx, snap.restaurants, uniform(limit))
}

// RestaurantsCuisines returns the restaurants and cuisines page. limit
// behaves as in GeographicOverview.
func (s *DashboardService) RestaurantsCuisines(ctx context.Context, limit int) (domain.RestaurantsCuisinesPage, error) {
	if err := checkLimit(limit); err != nil {
		return domain.RestaurantsCuisinesPage{}, err
	}
	snap, err := s.cached(ctx)
	if err != nil {
		return domain.RestaurantsCuisinesPage{}, err
	}
	if limit == 0 {
		return snap.restaurantsCuisines, nil
	}
	return s.buildRestaurantsCuisines(ctx, snap.restaurants, uniform(limit))
}

func checkLimit(limit int) error {
	if limit < 0 || limit > MaxLimit {
		return fmt.Errorf("%w: %d is outside 0..%d", ErrInvalidLimit, limit, MaxLimit)
	}
	return nil
}

// Chart renders the chart as PNG into w. Rendered images are cached until
// the next reload.
func (s *DashboardService) Chart(ctx context.Context, id string, w io.Writer) error {
	chartID, ok := charts.ParseID(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownChart, id)
	}
	snap, err := s.cached(ctx)
	if err != nil {
		return err
	}

	snap.chartsMu.Lock()
	png, hit := snap.charts[chartID]
	snap.chartsMu.Unlock()

	if !hit {
		chart, err := charts.Build(chartID, charts.Pages{
			Geographic:          snap.geographic,
			RestaurantsCuisines: snap.restaurantsCuisines,
		})
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if _, err := s.renderer.RenderPNG(&buf, chart); err != nil {
			return fmt.Errorf("failed to render chart %s: %w", chartID, err)
		}
		png = buf.Bytes()

		snap.chartsMu.Lock()
		snap.charts[chartID] = png
		snap.chartsMu.Unlock()

		s.metrics.RecordChartRender(ctx, chartID.String())
		s.logger.DebugContext(ctx, "chart rendered",
			slog.String("chart", chartID.String()),
			slog.Int("bytes", len(png)))
	}

	_, err = w.Write(png)
	return err
}

// ReportTables returns every report of the dashboard as a table
func (s *DashboardService) ReportTables(ctx context.Context) ([]exporter.Table, error) {
	snap, err := s.cached(ctx)
	if err != nil {
		return nil, err
	}
	return exporter.ReportTables(snap.geographic, snap.restaurantsCuisines), nil
}

func (s *DashboardService) exportSnapshot(ctx context.Context) (exporter.Snapshot, error) {
	snap, err := s.cached(ctx)
	if err != nil {
		return exporter.Snapshot{}, err
	}
	return exporter.Snapshot{
		Restaurants: snap.restaurants,
		Stats:       snap.stats,
		Tables:      exporter.ReportTables(snap.geographic, snap.restaurantsCuisines),
	}, nil
}

// Export streams the dataset in the named format to w
func (s *DashboardService) Export(ctx context.Context, format string, w io.Writer) (err error) {
	f, err := exporter.ParseFormat(format)
	if err != nil {
		return err
	}
	defer func() { s.metrics.RecordExport(ctx, string(f), err) }()

	snap, err := s.exportSnapshot(ctx)
	if err != nil {
		return err
	}
	return s.exporter.Write(ctx, f, w, snap)
}

// ExportFile saves the dataset in the named format inside the export
// directory and returns the file path
func (s *DashboardService) ExportFile(ctx context.Context, format, name string) (path string, err error) {
	f, err := exporter.ParseFormat(format)
	if err != nil {
		return "", err
	}
	defer func() { s.metrics.RecordExport(ctx, string(f), err) }()

	snap, err := s.exportSnapshot(ctx)
	if err != nil {
		return "", err
	}
	return s.exporter.WriteFile(ctx, f, name, snap)
}

// AppendExport appends the dataset to the CSV file name inside the export
// directory, creating it with a header when missing
func (s *DashboardService) AppendExport(ctx context.Context, name string) (path string, err error) {
	defer func() { s.metrics.RecordExport(ctx, string(exporter.FormatCSV), err) }()

	snap, err := s.exportSnapshot(ctx)
	if err != nil {
		return "", err
	}
	return s.exporter.AppendFile(ctx, name, snap)
}

// ExportTables saves every report table as a CSV file under dir
func (s *DashboardService) ExportTables(ctx context.Context, dir string) ([]string, error) {
	tables, err := s.ReportTables(ctx)
	if err != nil {
		return nil, err
	}
	return s.exporter.WriteTables(dir, tables)
}

func (s *DashboardService) broadcast(messageType events.MessageType, data interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(string(messageType), data)
}
