package domain

// RankedCount is a table row holding an integer aggregate for a category.
// Position starts at 1.
type RankedCount struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Count    int64  `json:"count"`
}

// RankedValue is a table row holding a real-valued aggregate for a category
type RankedValue struct {
	Position int     `json:"position"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Color    string  `json:"color,omitempty"`
}

// Share is one slice of a pie or one histogram bucket
type Share struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// LabeledMean is a mean value for a labelled group
type LabeledMean struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Overview holds the headline metrics of the General Overview page
type Overview struct {
	Countries           int     `json:"countries"`
	Cities              int     `json:"cities"`
	Restaurants         int     `json:"restaurants"`
	Cuisines            int     `json:"cuisines"`
	TotalVotes          int64   `json:"total_votes"`
	TotalVotesFormatted string  `json:"total_votes_formatted"`
	AverageRating       float64 `json:"average_rating"`
}

// MapMarker is a restaurant pin on the world map
type MapMarker struct {
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	City            string  `json:"city"`
	RestaurantName  string  `json:"restaurant_name"`
	AggregateRating float64 `json:"aggregate_rating"`
	ColorName       string  `json:"color_name"`
}

// MapView is the world map: its center and the markers to cluster
type MapView struct {
	CenterLatitude  float64     `json:"center_latitude"`
	CenterLongitude float64     `json:"center_longitude"`
	Markers         []MapMarker `json:"markers"`
}

// DeliveryPresence is the share of restaurants delivering now in a country
type DeliveryPresence struct {
	Position         int     `json:"position"`
	Country          string  `json:"country"`
	TotalRestaurants int     `json:"total_restaurants"`
	DeliveryOptions  int     `json:"delivery_options"`
	DeliveryPresence string  `json:"delivery_presence"`
	Ratio            float64 `json:"ratio"`
}

// RatingExtremes holds the best and worst rated countries
type RatingExtremes struct {
	Top         []RankedValue `json:"top"`
	Bottom      []RankedValue `json:"bottom"`
	OverallMean float64       `json:"overall_mean"`
}

// ExcellentCity counts restaurants rated 4.5 or more in a city
type ExcellentCity struct {
	Position    int    `json:"position"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Restaurants int    `json:"restaurants"`
}

// ExpensiveCity is a city ranked by its mean cost for two in dollars
type ExpensiveCity struct {
	Position                int     `json:"position"`
	City                    string  `json:"city"`
	DollarAverageCostForTwo float64 `json:"dollar_average_cost_for_two"`
	Country                 string  `json:"country"`
	CountryCostRank         int     `json:"country_cost_rank"`
}

// FavoriteCuisine is the best rated cuisine of a country
type FavoriteCuisine struct {
	Position int     `json:"position"`
	Country  string  `json:"country"`
	Cuisine  string  `json:"cuisine"`
	Rating   float64 `json:"rating"`
}

// PageSummary describes a dashboard page on the home page
type PageSummary struct {
	Title       string `json:"title"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// HomePage is the landing page content
type HomePage struct {
	Title string        `json:"title"`
	Pages []PageSummary `json:"pages"`
}

// GeneralOverviewPage is the general overview page content
type GeneralOverviewPage struct {
	Overview Overview `json:"overview"`
	Map      MapView  `json:"map"`
}

// CountriesTab is the Countries tab of the geographic overview
type CountriesTab struct {
	ByCities           []RankedCount      `json:"by_cities"`
	ByCuisines         []RankedCount      `json:"by_cuisines"`
	VotesPerRestaurant []RankedCount      `json:"votes_per_restaurant"`
	DeliveryPresence   []DeliveryPresence `json:"delivery_presence"`
	RatingExtremes     RatingExtremes     `json:"rating_extremes"`
	AverageCost        []RankedValue      `json:"average_cost"`
}

// CitiesTab is the Cities tab of the geographic overview
type CitiesTab struct {
	Excellent        []ExcellentCity `json:"excellent"`
	Population       []Share         `json:"population"`
	Delivery         []Share         `json:"delivery"`
	Expensive        []ExpensiveCity `json:"expensive"`
	CuisineDiversity []Share         `json:"cuisine_diversity"`
}

// GeographicPage is the geographic overview page content
type GeographicPage struct {
	Countries CountriesTab `json:"countries"`
	Cities    CitiesTab    `json:"cities"`
}

// RestaurantsCuisinesPage is the restaurants and cuisines page content
type RestaurantsCuisinesPage struct {
	VotesByOnlineDelivery []LabeledMean     `json:"votes_by_online_delivery"`
	RatingByTableBooking  []LabeledMean     `json:"rating_by_table_booking"`
	OnlineCuisines        []RankedCount     `json:"online_cuisines"`
	ExpensiveCuisines     []RankedCount     `json:"expensive_cuisines"`
	FavoriteCuisines      []FavoriteCuisine `json:"favorite_cuisines"`
}
