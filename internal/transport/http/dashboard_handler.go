package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "zomatour/internal/errors"
	"zomatour/internal/exporter"
	customMiddleware "zomatour/internal/middleware"
	"zomatour/internal/services"
)

// DashboardHandler serves the dashboard JSON API, chart images and exports
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *customMiddleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler with RFC 7807 error handling
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    customMiddleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes. They are mounted under /api.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/home", h.GetHome)
		r.Get("/overview", h.GetOverview)
		r.Get("/map", h.GetMap)
		r.Get("/countries", h.GetCountries)
		r.Get("/cities", h.GetCities)
		r.Get("/cuisines", h.GetCuisines)

		r.Route("/dataset", func(r chi.Router) {
			r.Get("/stats", h.GetStats)
			r.Post("/reload", h.ReloadDataset)
		})
	})

	// Binary responses
	r.Get("/charts/{id}.png", h.GetChart)
	r.Get("/export/{format}", h.Export)

	return r
}

// GetHome handles GET /api/home
func (h *DashboardHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   h.service.Home(),
	})
}

// GetOverview handles GET /api/overview
func (h *DashboardHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.GeneralOverview(r.Context())
	if err != nil {
		h.fail(w, r, "failed to build general overview", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   page,
	})
}

// GetMap handles GET /api/map. The body is a GeoJSON feature collection
// with one point per restaurant.
func (h *DashboardHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	fc, err := h.service.MapGeoJSON(r.Context())
	if err != nil {
		h.fail(w, r, "failed to build map", err)
		return
	}

	render.JSON(w, r, fc)
}

// GetCountries handles GET /api/countries?limit=N
func (h *DashboardHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limit(w, r)
	if !ok {
		return
	}

	page, err := h.service.GeographicOverview(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "failed to build countries tab", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   page.Countries,
		"limit":  limit,
	})
}

// GetCities handles GET /api/cities?limit=N
func (h *DashboardHandler) GetCities(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limit(w, r)
	if !ok {
		return
	}

	page, err := h.service.GeographicOverview(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "failed to build cities tab", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   page.Cities,
		"limit":  limit,
	})
}

// GetCuisines handles GET /api/cuisines?limit=N
func (h *DashboardHandler) GetCuisines(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limit(w, r)
	if !ok {
		return
	}

	page, err := h.service.RestaurantsCuisines(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "failed to build restaurants and cuisines page", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   page,
		"limit":  limit,
	})
}

// GetStats handles GET /api/dataset/stats
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.fail(w, r, "failed to get dataset stats", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   stats,
	})
}

// ReloadDataset handles POST /api/dataset/reload
func (h *DashboardHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	h.logger.InfoContext(r.Context(), "dataset reload requested",
		slog.String("request_id", reqID))

	stats, err := h.service.Reload(r.Context())
	if err != nil {
		h.fail(w, r, "dataset reload failed", err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   stats,
	})
}

// GetChart handles GET /api/charts/{id}.png
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var buf bytes.Buffer
	if err := h.service.Chart(r.Context(), id, &buf); err != nil {
		h.fail(w, r, "failed to render chart", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// Export handles GET /api/export/{format}. The body is buffered so that a
// failed export still produces a problem document.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	name, ok := h.validator.ValidateEnum(w, r, "format", chi.URLParam(r, "format"), formatNames())
	if !ok {
		return
	}
	format, err := exporter.ParseFormat(name)
	if err != nil {
		h.fail(w, r, "invalid export format", err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), name, &buf); err != nil {
		h.fail(w, r, "export failed", err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="zomato%s"`, format.Extension()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// limitQuery bounds the top-n of the ranked pages; max is services.MaxLimit
// and 0 selects the page defaults
type limitQuery struct {
	Limit int `query:"limit" validate:"min=0,max=100"`
}

// parseLimit reads ?limit and writes a problem response when it is invalid
func parseLimit(v *customMiddleware.QueryParamValidator, w http.ResponseWriter, r *http.Request) (int, bool) {
	limit, ok := v.ParseInt(w, r, "limit", 0)
	if !ok {
		return 0, false
	}
	q := limitQuery{Limit: limit}
	if !v.Check(w, r, q) {
		return 0, false
	}
	return q.Limit, true
}

func (h *DashboardHandler) limit(w http.ResponseWriter, r *http.Request) (int, bool) {
	return parseLimit(h.validator, w, r)
}

func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		slog.String("error", err.Error()),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	h.errorHandler.HandleError(w, r, mapServiceError(err))
}

// mapServiceError converts service sentinel errors to API errors
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrDatasetNotLoaded):
		return apierrors.New(http.StatusServiceUnavailable, "DATASET_NOT_LOADED",
			"The restaurant dataset is not loaded")
	case errors.Is(err, services.ErrUnknownChart):
		return apierrors.NotFoundError("chart")
	case errors.Is(err, services.ErrUnsupportedFormat):
		return apierrors.ErrValidation("format", fmt.Sprintf("format must be one of: %s", formatList()))
	case errors.Is(err, services.ErrInvalidLimit):
		return apierrors.ErrValidation("limit", fmt.Sprintf("limit must be between 0 and %d", services.MaxLimit))
	}
	return err
}

func formatNames() []string {
	formats := exporter.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

func formatList() string {
	return strings.Join(formatNames(), ", ")
}
