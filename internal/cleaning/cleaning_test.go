package cleaning

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zomatour/internal/dataset"
	apierrors "zomatour/internal/errors"
	"zomatour/internal/shared/testutil"
)

func fixtureTable(t *testing.T) *dataset.RawTable {
	t.Helper()
	table, err := dataset.Read(context.Background(), strings.NewReader(testutil.ZomatoCSV))
	require.NoError(t, err)
	return table
}

func setCell(t *testing.T, table *dataset.RawTable, row int, column, value string) {
	t.Helper()
	idx, ok := table.Index(column)
	require.True(t, ok, column)
	table.Rows[row][idx] = value
}

func TestLookups(t *testing.T) {
	country, ok := CountryName(148)
	assert.True(t, ok)
	assert.Equal(t, "New Zeland", country)

	_, ok = CountryName(999)
	assert.False(t, ok)

	for priceRange, want := range map[int]string{1: "cheap", 2: "normal", 3: "expensive", 4: "gourmet", 0: "gourmet"} {
		got, ok := PriceType(priceRange)
		assert.True(t, ok)
		assert.Equal(t, want, got, "price range %d", priceRange)
	}

	color, ok := ColorName("3f7e00")
	assert.True(t, ok)
	assert.Equal(t, "darkgreen", color)

	_, ok = ColorName("000000")
	assert.False(t, ok)

	text, ok := RatingText("yellow")
	assert.True(t, ok)
	assert.Equal(t, "Average", text)

	assert.Len(t, Countries(), 15)
	assert.Len(t, Currencies(), 12)
	assert.Equal(t, "Australia", Countries()[0])

	codes := CountryCodes()
	assert.Len(t, codes, 15)
	assert.Equal(t, 1, codes[0])
	assert.Equal(t, 216, codes[len(codes)-1])

	hexes := ColorHexes()
	assert.Len(t, hexes, 7)
	for _, hex := range hexes {
		name, ok := ColorName(hex)
		require.True(t, ok, hex)
		_, ok = RatingText(name)
		assert.True(t, ok, name)
	}
}

func TestToDollars(t *testing.T) {
	tests := []struct {
		amount   int64
		currency string
		want     string
	}{
		{800, "Indian Rupees(Rs.)", "9.6"},
		{200, "Brazilian Real(R$)", "42"},
		{50, "Pounds(£)", "65.5"},
		{300000, "Indonesian Rupiah(IDR)", "20.1"},
		{4000, "Emirati Diram(AED)", "1080"},
		{30, "Dollar($)", "30"},
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			got, err := ToDollars(tt.amount, tt.currency)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := ToDollars(10, "Yen(¥)")
	require.Error(t, err)
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeLookup))
}

func TestPipeline_Clean(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	p := NewPipeline(Options{}, logger)

	result, err := p.Clean(context.Background(), fixtureTable(t))
	require.NoError(t, err)

	stats := result.Stats
	assert.Equal(t, 11, stats.RowsRead)
	assert.Equal(t, 1, stats.DuplicatesDropped)
	assert.Equal(t, 1, stats.NullRowsDropped)
	assert.Equal(t, 1, stats.OverCostDropped)
	assert.Zero(t, stats.UnknownKeysDropped)
	assert.Zero(t, stats.InvalidRowsDropped)
	assert.Equal(t, testutil.ZomatoCSVKept, stats.RowsKept)
	assert.Equal(t, 3, stats.Dropped())
	assert.False(t, stats.LoadedAt.IsZero())
	assert.Equal(t, "reader", stats.Source)

	ids := make([]int64, 0, len(result.Restaurants))
	for _, r := range result.Restaurants {
		ids = append(ids, r.RestaurantID)
	}
	assert.Equal(t, []int64{1001, 1002, 1003, 2001, 2002, 3001, 4001, 4002}, ids)

	spice := result.Restaurants[0]
	assert.Equal(t, "Spice Route", spice.RestaurantName)
	assert.Equal(t, "India", spice.Country)
	assert.Equal(t, "New Delhi", spice.City)
	assert.Equal(t, "North Indian", spice.Cuisines)
	assert.Equal(t, "normal", spice.PriceType)
	assert.Equal(t, "3F7E00", spice.RatingColor)
	assert.Equal(t, "darkgreen", spice.ColorName)
	assert.Equal(t, "Excellent", spice.RatingText)
	assert.True(t, spice.HasTableBooking)
	assert.True(t, spice.HasOnlineDelivery)
	assert.True(t, spice.IsDeliveringNow)
	assert.InDelta(t, 9.6, spice.DollarAverageCostForTwo, 1e-9)
	assert.InDelta(t, 28.6315, spice.Latitude, 1e-9)
	assert.EqualValues(t, 500, spice.Votes)

	churrascaria := result.Restaurants[5]
	assert.Equal(t, "Brazil", churrascaria.Country)
	assert.Equal(t, "gourmet", churrascaria.PriceType)
	assert.Equal(t, "Not rated", churrascaria.RatingText)
	assert.InDelta(t, 42.0, churrascaria.DollarAverageCostForTwo, 1e-9)

	fish := result.Restaurants[6]
	assert.Equal(t, "Poor", fish.RatingText)
	assert.InDelta(t, 65.5, fish.DollarAverageCostForTwo, 1e-9)

	assert.True(t, logs.ContainsMessage("dataset cleaned"))
	assert.True(t, logs.ContainsAttr("rows_kept", int64(8)))
}

func TestPipeline_CostBound(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	p := NewPipeline(Options{MaxDollarCost: 52.4}, logger)

	result, err := p.Clean(context.Background(), fixtureTable(t))
	require.NoError(t, err)

	// 52.4 itself is not strictly below the bound
	assert.Equal(t, 3, result.Stats.OverCostDropped)
	assert.Equal(t, 6, result.Stats.RowsKept)
	for _, r := range result.Restaurants {
		assert.Less(t, r.DollarAverageCostForTwo, 52.4)
	}
}

func TestPipeline_StrictErrors(t *testing.T) {
	tests := []struct {
		name     string
		column   string
		value    string
		wantType apierrors.ErrorType
		wantMsg  string
	}{
		{"unknown country", dataset.ColCountryCode, "999", apierrors.ErrTypeLookup, "unknown country code 999"},
		{"unknown color", dataset.ColRatingColor, "000000", apierrors.ErrTypeLookup, "unknown rating color 000000"},
		{"unknown currency", dataset.ColCurrency, "Yen(¥)", apierrors.ErrTypeLookup, "unknown currency Yen(¥)"},
		{"bad flag", dataset.ColHasOnlineDelivery, "Maybe", apierrors.ErrTypeParsing, "invalid has_online_delivery"},
		{"bad votes", dataset.ColVotes, "many", apierrors.ErrTypeParsing, "invalid votes"},
		{"rating out of range", dataset.ColAggregateRating, "7.5", apierrors.ErrTypeValidation, "row failed validation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			table := fixtureTable(t)
			setCell(t, table, 1, tt.column, tt.value)

			_, err := NewPipeline(Options{}, logger).Clean(context.Background(), table)
			require.Error(t, err)
			assert.True(t, apierrors.IsType(err, tt.wantType), err.Error())
			assert.Contains(t, err.Error(), tt.wantMsg)

			var appErr *apierrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, 3, appErr.Context["line"])
		})
	}
}

func TestPipeline_SkipUnknown(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	table := fixtureTable(t)
	setCell(t, table, 0, dataset.ColCountryCode, "999")
	setCell(t, table, 1, dataset.ColCurrency, "Yen(¥)")
	setCell(t, table, 2, dataset.ColIsDeliveringNow, "Maybe")

	result, err := NewPipeline(Options{SkipUnknown: true}, logger).Clean(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.UnknownKeysDropped)
	assert.Equal(t, 1, result.Stats.InvalidRowsDropped)
	assert.Equal(t, testutil.ZomatoCSVKept-3, result.Stats.RowsKept)
	assert.Equal(t, int64(2001), result.Restaurants[0].RestaurantID)
}

func TestPipeline_NumericFlags(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	table := fixtureTable(t)
	setCell(t, table, 0, dataset.ColHasTableBooking, "0")
	setCell(t, table, 1, dataset.ColHasTableBooking, "1")

	result, err := NewPipeline(Options{}, logger).Clean(context.Background(), table)
	require.NoError(t, err)
	assert.False(t, result.Restaurants[0].HasTableBooking)
	assert.True(t, result.Restaurants[1].HasTableBooking)
}

func TestPipeline_Cancelled(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPipeline(Options{}, logger).Clean(ctx, fixtureTable(t))
	assert.ErrorIs(t, err, context.Canceled)
}
