package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zomatour/internal/config"
	apierrors "zomatour/internal/errors"
	"zomatour/internal/shared/testutil"
	"zomatour/pkg/contracts/domain"
)

var testHome = domain.HomePage{
	Title: "Zomato Tour - Company Overview",
	Pages: []domain.PageSummary{
		{Title: "General Overview", Path: "/overview", Description: "Key Indicators"},
		{Title: "Geographic Overview", Path: "/geographic", Description: "How Zomato works around the world"},
		{Title: "Restaurants and Cuisines Overview", Path: "/restaurants", Description: "What we bring to the table"},
	},
}

func newTestPageHandler(t *testing.T, svc *MockDashboardService) http.Handler {
	t.Helper()
	svc.On("Home").Return(testHome).Maybe()
	svc.On("UI").Return(config.UIConfig{
		Title:      "Zomato Tour",
		AuthorName: "Jane Doe",
		AuthorURL:  "https://example.com/jane",
	}).Maybe()

	logger, _ := testutil.NewTestLogger(t)
	h, err := NewPageHandler(svc, logger, apierrors.NewErrorHandler(logger, false))
	require.NoError(t, err)
	return h.Routes()
}

func TestPageHandler_Home(t *testing.T) {
	rec := serve(newTestPageHandler(t, new(MockDashboardService)), http.MethodGet, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Zomato Tour - Company Overview</title>")
	assert.Contains(t, body, "How Zomato works around the world")
	assert.Contains(t, body, `href="https://example.com/jane"`)
	assert.Contains(t, body, "Jane Doe")
}

func TestPageHandler_GeneralOverview(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("GeneralOverview").Return(domain.GeneralOverviewPage{
		Overview: domain.Overview{Countries: 5, Cities: 5, Restaurants: 8, TotalVotesFormatted: "2,287", AverageRating: 3.68},
		Map:      domain.MapView{CenterLatitude: 25.1, CenterLongitude: 12.3},
	}, nil)

	rec := serve(newTestPageHandler(t, svc), http.MethodGet, "/overview")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "2,287")
	assert.Contains(t, body, "3.68")
	assert.Contains(t, body, `data-lat="25.1"`)
	assert.Contains(t, body, "/api/map")
}

func TestPageHandler_GeneralOverviewNotLoaded(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("GeneralOverview").Return(domain.GeneralOverviewPage{}, notLoaded)

	rec := serve(newTestPageHandler(t, svc), http.MethodGet, "/overview")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPageHandler_GeographicOverview(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("GeographicOverview", 0).Return(domain.GeographicPage{
		Countries: domain.CountriesTab{
			ByCities: []domain.RankedCount{{Position: 1, Name: "India", Count: 2}},
			DeliveryPresence: []domain.DeliveryPresence{
				{Position: 1, Country: "India", TotalRestaurants: 3, DeliveryOptions: 1, DeliveryPresence: "33.33%"},
			},
		},
		Cities: domain.CitiesTab{
			Expensive: []domain.ExpensiveCity{{Position: 1, City: "London", DollarAverageCostForTwo: 56.25, Country: "England", CountryCostRank: 1}},
		},
	}, nil)
	svc.On("GeographicOverview", 7).Return(domain.GeographicPage{}, nil)

	h := newTestPageHandler(t, svc)

	rec := serve(h, http.MethodGet, "/geographic")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "33.33%")
	assert.Contains(t, body, "56.25")
	assert.Contains(t, body, "/api/charts/countries-by-cities.png")
	assert.Contains(t, body, `value="10"`)

	rec = serve(h, http.MethodGet, "/geographic?limit=7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="7"`)

	rec = serve(h, http.MethodGet, "/geographic?limit=500")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertExpectations(t)
}

func TestPageHandler_RestaurantsCuisines(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("RestaurantsCuisines", 0).Return(domain.RestaurantsCuisinesPage{
		FavoriteCuisines: []domain.FavoriteCuisine{{Position: 1, Country: "India", Cuisine: "North Indian", Rating: 4.4}},
		ExpensiveCuisines: []domain.RankedCount{{Position: 1, Name: "Seafood", Count: 62}},
	}, nil)

	rec := serve(newTestPageHandler(t, svc), http.MethodGet, "/restaurants")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "North Indian")
	assert.Contains(t, body, "Seafood")
	assert.Contains(t, body, `class="active"`)
}

func TestPageHandler_EscapesData(t *testing.T) {
	svc := new(MockDashboardService)
	svc.On("RestaurantsCuisines", 0).Return(domain.RestaurantsCuisinesPage{
		OnlineCuisines: []domain.RankedCount{{Position: 1, Name: "<script>alert(1)</script>", Count: 1}},
	}, nil)

	rec := serve(newTestPageHandler(t, svc), http.MethodGet, "/restaurants")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}
