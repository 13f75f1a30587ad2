package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zomatour/internal/config"
	apierrors "zomatour/internal/errors"
	"zomatour/internal/services"
	"zomatour/internal/shared/testutil"
	"zomatour/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Home() domain.HomePage {
	args := m.Called()
	return args.Get(0).(domain.HomePage)
}

func (m *MockDashboardService) UI() config.UIConfig {
	args := m.Called()
	return args.Get(0).(config.UIConfig)
}

func (m *MockDashboardService) Stats(ctx context.Context) (domain.CleaningStats, error) {
	args := m.Called()
	return args.Get(0).(domain.CleaningStats), args.Error(1)
}

func (m *MockDashboardService) Reload(ctx context.Context) (domain.CleaningStats, error) {
	args := m.Called()
	return args.Get(0).(domain.CleaningStats), args.Error(1)
}

func (m *MockDashboardService) GeneralOverview(ctx context.Context) (domain.GeneralOverviewPage, error) {
	args := m.Called()
	return args.Get(0).(domain.GeneralOverviewPage), args.Error(1)
}

func (m *MockDashboardService) MapGeoJSON(ctx context.Context) (*geojson.FeatureCollection, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geojson.FeatureCollection), args.Error(1)
}

func (m *MockDashboardService) GeographicOverview(ctx context.Context, limit int) (domain.GeographicPage, error) {
	args := m.Called(limit)
	return args.Get(0).(domain.GeographicPage), args.Error(1)
}

func (m *MockDashboardService) RestaurantsCuisines(ctx context.Context, limit int) (domain.RestaurantsCuisinesPage, error) {
	args := m.Called(limit)
	return args.Get(0).(domain.RestaurantsCuisinesPage), args.Error(1)
}

func (m *MockDashboardService) Chart(ctx context.Context, id string, w io.Writer) error {
	args := m.Called(id)
	if args.Error(0) == nil {
		io.WriteString(w, "\x89PNG\r\n\x1a\nchart:"+id)
	}
	return args.Error(0)
}

func (m *MockDashboardService) Export(ctx context.Context, format string, w io.Writer) error {
	args := m.Called(format)
	if args.Error(0) == nil {
		io.WriteString(w, "restaurant_id,restaurant_name\n1,Spice Route\n")
	}
	return args.Error(0)
}

var notLoaded = fmt.Errorf("%w: open zomato.csv: no such file", services.ErrDatasetNotLoaded)

func newTestDashboardHandler(t *testing.T, svc *MockDashboardService) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	return NewDashboardHandler(svc, logger, errorHandler).Routes()
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDashboardHandler_GetOverview(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockDashboardService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful overview",
			setupMock: func(m *MockDashboardService) {
				m.On("GeneralOverview").Return(domain.GeneralOverviewPage{
					Overview: domain.Overview{Countries: 5, Restaurants: 8, TotalVotesFormatted: "2,287"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"total_votes_formatted":"2,287"`,
		},
		{
			name: "dataset not loaded",
			setupMock: func(m *MockDashboardService) {
				m.On("GeneralOverview").Return(domain.GeneralOverviewPage{}, notLoaded)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"DATASET_NOT_LOADED"`,
		},
		{
			name: "internal error",
			setupMock: func(m *MockDashboardService) {
				m.On("GeneralOverview").Return(domain.GeneralOverviewPage{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"Internal Server Error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockDashboardService)
			tt.setupMock(mockService)

			rec := serve(newTestDashboardHandler(t, mockService), http.MethodGet, "/overview")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_LimitValidation(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedLimit  int
	}{
		{"default limit", "/countries", http.StatusOK, 0},
		{"explicit limit", "/countries?limit=3", http.StatusOK, 3},
		{"upper bound", "/cities?limit=100", http.StatusOK, 100},
		{"negative limit", "/countries?limit=-1", http.StatusBadRequest, -1},
		{"limit too large", "/cities?limit=101", http.StatusBadRequest, -1},
		{"not a number", "/countries?limit=ten", http.StatusBadRequest, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockDashboardService)
			if tt.expectedLimit >= 0 {
				mockService.On("GeographicOverview", tt.expectedLimit).Return(domain.GeographicPage{
					Countries: domain.CountriesTab{ByCities: []domain.RankedCount{{Position: 1, Name: "India", Count: 2}}},
					Cities:    domain.CitiesTab{Expensive: []domain.ExpensiveCity{{Position: 1, City: "London"}}},
				}, nil)
			}

			rec := serve(newTestDashboardHandler(t, mockService), http.MethodGet, tt.target)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusBadRequest {
				assert.Contains(t, rec.Body.String(), `"VALIDATION_FAILED"`)
				assert.Contains(t, rec.Body.String(), "limit")
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestDashboardHandler_LimitProblemDetails(t *testing.T) {
	mockService := new(MockDashboardService)

	rec := serve(newTestDashboardHandler(t, mockService), http.MethodGet, "/cities?limit=101")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"limit"`)
	assert.Contains(t, rec.Body.String(), "limit must be at most 100")
	mockService.AssertNotCalled(t, "GeographicOverview", mock.Anything)
}

func TestDashboardHandler_GetCountries(t *testing.T) {
	mockService := new(MockDashboardService)
	mockService.On("GeographicOverview", 2).Return(domain.GeographicPage{
		Countries: domain.CountriesTab{ByCities: []domain.RankedCount{
			{Position: 1, Name: "India", Count: 2},
			{Position: 2, Name: "United States", Count: 1},
		}},
	}, nil)

	rec := serve(newTestDashboardHandler(t, mockService), http.MethodGet, "/countries?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string              `json:"status"`
		Limit  int                 `json:"limit"`
		Data   domain.CountriesTab `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 2, body.Limit)
	require.Len(t, body.Data.ByCities, 2)
	assert.Equal(t, "India", body.Data.ByCities[0].Name)
}

func TestDashboardHandler_GetCuisines(t *testing.T) {
	mockService := new(MockDashboardService)
	mockService.On("RestaurantsCuisines", 0).Return(domain.RestaurantsCuisinesPage{}, services.ErrInvalidLimit)

	rec := serve(newTestDashboardHandler(t, mockService), http.MethodGet, "/cuisines")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "limit must be between 0 and 100")
}

func TestDashboardHandler_GetMap(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(orb.Point{77.2167, 28.6315})
	f.Properties["city"] = "New Delhi"
	fc.Append(f)

	mockService := new(MockDashboardService)
	mockService.On("MapGeoJSON").Return(fc, nil)

	rec := serve(newTestDashboardHandler(t, mockService), http.MethodGet, "/map")

	require.Equal(t, http.StatusOK, rec.Code)
	decoded, err := geojson.UnmarshalFeatureCollection(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, decoded.Features, 1)
	assert.Equal(t, "New Delhi", decoded.Features[0].Properties.MustString("city"))
}

func TestDashboardHandler_Dataset(t *testing.T) {
	stats := domain.CleaningStats{RowsRead: 11, RowsKept: 8, DuplicatesDropped: 1}

	t.Run("stats", func(t *testing.T) {
		mockService := new(MockDashboardService)
		mockService.On("Stats").Return(stats, nil)

		rec := serve(newTestDashboardHandler(t, mockService), http.MethodGet, "/dataset/stats")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"rows_kept":8`)
	})

	t.Run("reload", func(t *testing.T) {
		mockService := new(MockDashboardService)
		mockService.On("Reload").Return(stats, nil).Once()

		rec := serve(newTestDashboardHandler(t, mockService), http.MethodPost, "/dataset/reload")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"rows_read":11`)
		mockService.AssertExpectations(t)
	})

	t.Run("reload requires POST", func(t *testing.T) {
		mockService := new(MockDashboardService)

		rec := serve(newTestDashboardHandler(t, mockService), http.MethodGet, "/dataset/reload")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		mockService.AssertNotCalled(t, "Reload")
	})

	t.Run("failed reload", func(t *testing.T) {
		mockService := new(MockDashboardService)
		mockService.On("Reload").Return(domain.CleaningStats{}, notLoaded)

		rec := serve(newTestDashboardHandler(t, mockService), http.MethodPost, "/dataset/reload")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestDashboardHandler_GetChart(t *testing.T) {
	mockService := new(MockDashboardService)
	mockService.On("Chart", "country-ratings").Return(nil)
	mockService.On("Chart", "nope").Return(fmt.Errorf("%w: %q", services.ErrUnknownChart, "nope"))

	h := newTestDashboardHandler(t, mockService)

	rec := serve(h, http.MethodGet, "/charts/country-ratings.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
	assert.Contains(t, rec.Body.String(), "chart:country-ratings")

	rec = serve(h, http.MethodGet, "/charts/nope.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "chart not found")

	mockService.AssertExpectations(t)
}

func TestDashboardHandler_Export(t *testing.T) {
	tests := []struct {
		name                string
		format              string
		expectedStatus      int
		expectedType        string
		expectedDisposition string
	}{
		{"csv", "csv", http.StatusOK, "text/csv; charset=utf-8", `attachment; filename="zomato.csv"`},
		{"sqlite", "sqlite", http.StatusOK, "application/vnd.sqlite3", `attachment; filename="zomato.db"`},
		{"unknown format", "json", http.StatusBadRequest, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockDashboardService)
			if tt.expectedStatus == http.StatusOK {
				mockService.On("Export", tt.format).Return(nil)
			}

			rec := serve(newTestDashboardHandler(t, mockService), http.MethodGet, "/export/"+tt.format)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedType, rec.Header().Get("Content-Type"))
				assert.Equal(t, tt.expectedDisposition, rec.Header().Get("Content-Disposition"))
				assert.Contains(t, rec.Body.String(), "Spice Route")
			} else {
				assert.Contains(t, rec.Body.String(), "format must be one of: csv, xlsx, parquet, sqlite")
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{notLoaded, http.StatusServiceUnavailable, "DATASET_NOT_LOADED"},
		{services.ErrUnknownChart, http.StatusNotFound, "NOT_FOUND"},
		{services.ErrUnsupportedFormat, http.StatusBadRequest, "VALIDATION_FAILED"},
		{services.ErrInvalidLimit, http.StatusBadRequest, "VALIDATION_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			var apiErr *apierrors.APIError
			require.ErrorAs(t, mapServiceError(tt.err), &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.code, apiErr.ErrorCode)
		})
	}

	plain := errors.New("plain")
	assert.Equal(t, plain, mapServiceError(plain))
}
