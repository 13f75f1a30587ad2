package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"zomatour/internal/config"
	apierrors "zomatour/internal/errors"
	customMiddleware "zomatour/internal/middleware"
	"zomatour/internal/services"
	"zomatour/pkg/contracts/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page templates, each rendered inside the shared layout
const (
	pageHome        = "home.html"
	pageOverview    = "overview.html"
	pageGeographic  = "geographic.html"
	pageRestaurants = "restaurants.html"
)

// pageData is the model of every dashboard page
type pageData struct {
	Title    string
	Active   string
	UI       config.UIConfig
	Home     domain.HomePage
	Limit    int
	MaxLimit int

	Overview    *domain.GeneralOverviewPage
	Geographic  *domain.GeographicPage
	Restaurants *domain.RestaurantsCuisinesPage
}

// PageHandler renders the HTML dashboard pages
type PageHandler struct {
	service      DashboardServiceInterface
	templates    map[string]*template.Template
	validator    *customMiddleware.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPageHandler parses the embedded templates
func NewPageHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) (*PageHandler, error) {
	templates := make(map[string]*template.Template)
	for _, page := range []string{pageHome, pageOverview, pageGeographic, pageRestaurants} {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/tables.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[page] = tmpl
	}

	return &PageHandler{
		service:      service,
		templates:    templates,
		validator:    customMiddleware.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "page_handler")),
		errorHandler: errorHandler,
	}, nil
}

// Routes returns the page routes
func (h *PageHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Home)
	r.Get("/overview", h.GeneralOverview)
	r.Get("/geographic", h.GeographicOverview)
	r.Get("/restaurants", h.RestaurantsCuisines)
	return r
}

func (h *PageHandler) newPage(title, active string) pageData {
	return pageData{
		Title:    title,
		Active:   active,
		UI:       h.service.UI(),
		Home:     h.service.Home(),
		MaxLimit: services.MaxLimit,
	}
}

// Home handles GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := h.newPage("", "/")
	data.Title = data.Home.Title
	h.render(w, r, pageHome, data)
}

// GeneralOverview handles GET /overview
func (h *PageHandler) GeneralOverview(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.GeneralOverview(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	data := h.newPage("General Overview", "/overview")
	data.Overview = &page
	h.render(w, r, pageOverview, data)
}

// GeographicOverview handles GET /geographic?limit=N
func (h *PageHandler) GeographicOverview(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(h.validator, w, r)
	if !ok {
		return
	}

	page, err := h.service.GeographicOverview(r.Context(), limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	data := h.newPage("Geographic Overview", "/geographic")
	data.Geographic = &page
	data.Limit = displayLimit(limit, services.DefaultLimits.Cities)
	h.render(w, r, pageGeographic, data)
}

// RestaurantsCuisines handles GET /restaurants?limit=N
func (h *PageHandler) RestaurantsCuisines(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(h.validator, w, r)
	if !ok {
		return
	}

	page, err := h.service.RestaurantsCuisines(r.Context(), limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	data := h.newPage("Restaurants and Cuisines Overview", "/restaurants")
	data.Restaurants = &page
	data.Limit = displayLimit(limit, services.DefaultLimits.Cuisines)
	h.render(w, r, pageRestaurants, data)
}

// render executes into a buffer first so a template error still yields a
// clean error response
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, page string, data pageData) {
	var buf bytes.Buffer
	if err := h.templates[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page",
			slog.String("page", page),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.NewRenderError("failed to render page", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func displayLimit(limit, fallback int) int {
	if limit == 0 {
		return fallback
	}
	return limit
}
