package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"zomatour/pkg/contracts/domain"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func samplePages() Pages {
	return Pages{
		Geographic: domain.GeographicPage{
			Countries: domain.CountriesTab{
				ByCities: []domain.RankedCount{
					{Position: 1, Name: "India", Count: 2},
					{Position: 2, Name: "Brazil", Count: 1},
				},
				ByCuisines:         []domain.RankedCount{{Position: 1, Name: "England", Count: 2}},
				VotesPerRestaurant: []domain.RankedCount{{Position: 1, Name: "United States of America", Count: 490}},
				DeliveryPresence: []domain.DeliveryPresence{
					{Position: 1, Country: "England", TotalRestaurants: 2, DeliveryOptions: 1, DeliveryPresence: "50.00%", Ratio: 0.5},
				},
				RatingExtremes: domain.RatingExtremes{
					Top:         []domain.RankedValue{{Position: 1, Name: "India", Value: 4.23, Color: "skyblue"}},
					Bottom:      []domain.RankedValue{{Position: 4, Name: "Brazil", Value: 0, Color: "indianred"}},
					OverallMean: 2.93,
				},
				AverageCost: []domain.RankedValue{{Position: 1, Name: "England", Value: 58.95}},
			},
			Cities: domain.CitiesTab{
				Excellent: []domain.ExcellentCity{
					{Position: 1, City: "Austin", Country: "United States of America", Restaurants: 1},
					{Position: 2, City: "London", Country: "England", Restaurants: 1},
				},
				Population: []domain.Share{{Label: "1-20", Count: 5, Percent: 100}},
				Delivery:   []domain.Share{{Label: "Yes", Count: 2, Percent: 40}, {Label: "No", Count: 3, Percent: 60}},
				Expensive: []domain.ExpensiveCity{
					{Position: 1, City: "London", DollarAverageCostForTwo: 58.95, Country: "England", CountryCostRank: 1},
				},
				CuisineDiversity: []domain.Share{{Label: "High", Count: 0}, {Label: "Low", Count: 5, Percent: 100}},
			},
		},
		RestaurantsCuisines: domain.RestaurantsCuisinesPage{
			VotesByOnlineDelivery: []domain.LabeledMean{{Label: "Offline", Value: 264}, {Label: "Online", Value: 293.33}},
			RatingByTableBooking:  []domain.LabeledMean{{Label: "No table booking", Value: 3.3}, {Label: "Table booking", Value: 3.73}},
			OnlineCuisines:        []domain.RankedCount{{Position: 1, Name: "British", Count: 1}},
			ExpensiveCuisines:     []domain.RankedCount{{Position: 1, Name: "Seafood", Count: 65}},
			FavoriteCuisines: []domain.FavoriteCuisine{
				{Position: 1, Country: "United States of America", Cuisine: "American", Rating: 4.9},
				{Position: 2, Country: "England", Cuisine: "British", Rating: 4.5},
			},
		},
	}
}

func TestParseID(t *testing.T) {
	for _, id := range IDs() {
		got, ok := ParseID(string(id))
		assert.True(t, ok)
		assert.Equal(t, id, got)
	}

	_, ok := ParseID("pie-in-the-sky")
	assert.False(t, ok)
	assert.Len(t, IDs(), 16)
}

func TestBuild_EveryChartRenders(t *testing.T) {
	r := NewRenderer(4*vg.Inch, 3*vg.Inch)
	pages := samplePages()

	for _, id := range IDs() {
		t.Run(string(id), func(t *testing.T) {
			chart, err := Build(id, pages)
			require.NoError(t, err)

			var buf bytes.Buffer
			n, err := r.RenderPNG(&buf, chart)
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), n)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestBuild_EmptyPagesRender(t *testing.T) {
	r := NewRenderer(0, 0)
	for _, id := range IDs() {
		chart, err := Build(id, Pages{})
		require.NoError(t, err, id)

		var buf bytes.Buffer
		_, err = r.RenderPNG(&buf, chart)
		require.NoError(t, err, id)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), id)
	}
}

func TestBuild_UnknownChart(t *testing.T) {
	_, err := Build("nope", samplePages())
	assert.ErrorIs(t, err, ErrUnknownChart)
}

func TestBuild_CountryRatingsColorsAndReference(t *testing.T) {
	chart, err := Build(CountryRatings, samplePages())
	require.NoError(t, err)

	bars, ok := chart.(BarChart)
	require.True(t, ok)
	require.Len(t, bars.Bars, 2)
	assert.Equal(t, "skyblue", bars.Bars[0].Color)
	assert.Equal(t, "indianred", bars.Bars[1].Color)
	require.NotNil(t, bars.Reference)
	assert.InDelta(t, 2.93, *bars.Reference, 1e-9)
}

func TestBuild_FavoriteCuisinesGroups(t *testing.T) {
	chart, err := Build(FavoriteCuisines, samplePages())
	require.NoError(t, err)

	bars := chart.(BarChart)
	require.Len(t, bars.Bars, 2)
	assert.Equal(t, "American", bars.Bars[0].Group)
	assert.Equal(t, "American 4.90", bars.Bars[0].Annotation)
	assert.NotEqual(t, bars.Bars[0].Color, bars.Bars[1].Color)
}

func TestPieChart_InvalidSlice(t *testing.T) {
	_, err := PieChart{Slices: []Slice{{Label: "bad", Value: -1}}}.Plot()
	assert.Error(t, err)
}

func TestSharesToSlices(t *testing.T) {
	got := SharesToSlices([]domain.Share{{Label: "Yes", Count: 2}, {Label: "No", Count: 3}})
	assert.Equal(t, []Slice{{Label: "Yes", Value: 2}, {Label: "No", Value: 3}}, got)
}

func TestPalette(t *testing.T) {
	assert.Equal(t, PaletteName(0), PaletteName(len(palette)))
	assert.NotNil(t, Palette(3))
	assert.Equal(t, named[DefaultColor], namedColor("no-such-color", DefaultColor))
	assert.Equal(t, named["skyblue"], namedColor("SkyBlue", DefaultColor))
}
