package charts

// ChartID addresses a dashboard chart
type ChartID string

// Charts of the geographic overview
const (
	CountriesByCities   ChartID = "countries-by-cities"
	CountriesByCuisines ChartID = "countries-by-cuisines"
	VotesPerRestaurant  ChartID = "votes-per-restaurant"
	DeliveryPresence    ChartID = "delivery-presence"
	CountryRatings      ChartID = "country-ratings"
	CountryAverageCost  ChartID = "country-average-cost"
	ExcellentCities     ChartID = "excellent-cities"
	CityPopulation      ChartID = "city-population"
	CityDelivery        ChartID = "city-delivery"
	ExpensiveCities     ChartID = "expensive-cities"
	CuisineDiversity    ChartID = "cuisine-diversity"
)

// Charts of the restaurants and cuisines page
const (
	VotesByOnlineDelivery ChartID = "votes-by-online-delivery"
	RatingByTableBooking  ChartID = "rating-by-table-booking"
	OnlineCuisines        ChartID = "online-cuisines"
	ExpensiveCuisines     ChartID = "expensive-cuisines"
	FavoriteCuisines      ChartID = "favorite-cuisines"
)

var all = []ChartID{
	CountriesByCities,
	CountriesByCuisines,
	VotesPerRestaurant,
	DeliveryPresence,
	CountryRatings,
	CountryAverageCost,
	ExcellentCities,
	CityPopulation,
	CityDelivery,
	ExpensiveCities,
	CuisineDiversity,
	VotesByOnlineDelivery,
	RatingByTableBooking,
	OnlineCuisines,
	ExpensiveCuisines,
	FavoriteCuisines,
}

// IDs lists every chart in page order
func IDs() []ChartID {
	out := make([]ChartID, len(all))
	copy(out, all)
	return out
}

// ParseID returns the chart ID named by s
func ParseID(s string) (ChartID, bool) {
	for _, id := range all {
		if string(id) == s {
			return id, true
		}
	}
	return "", false
}

// String implements fmt.Stringer
func (id ChartID) String() string { return string(id) }
