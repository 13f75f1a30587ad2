package exporter

import (
	"strconv"

	"zomatour/pkg/contracts/domain"
)

// RestaurantHeader is the column order of every restaurant export
var RestaurantHeader = []string{
	"restaurant_id",
	"restaurant_name",
	"country_code",
	"country",
	"city",
	"address",
	"locality",
	"longitude",
	"latitude",
	"cuisines",
	"average_cost_for_two",
	"currency",
	"has_table_booking",
	"has_online_delivery",
	"is_delivering_now",
	"price_range",
	"price_type",
	"aggregate_rating",
	"rating_color",
	"color_name",
	"rating_text",
	"votes",
	"dollar_average_cost_for_two",
}

// RestaurantRecord renders a restaurant in RestaurantHeader order
func RestaurantRecord(r domain.Restaurant) []string {
	return []string{
		strconv.FormatInt(r.RestaurantID, 10),
		r.RestaurantName,
		strconv.Itoa(r.CountryCode),
		r.Country,
		r.City,
		r.Address,
		r.Locality,
		formatFloat(r.Longitude),
		formatFloat(r.Latitude),
		r.Cuisines,
		strconv.FormatInt(r.AverageCostForTwo, 10),
		r.Currency,
		formatFlag(r.HasTableBooking),
		formatFlag(r.HasOnlineDelivery),
		formatFlag(r.IsDeliveringNow),
		strconv.Itoa(r.PriceRange),
		r.PriceType,
		formatFloat(r.AggregateRating),
		r.RatingColor,
		r.ColorName,
		r.RatingText,
		strconv.FormatInt(r.Votes, 10),
		formatFloat(r.DollarAverageCostForTwo),
	}
}

// restaurantValues is RestaurantRecord with native types, for workbooks
func restaurantValues(r domain.Restaurant) []interface{} {
	return []interface{}{
		r.RestaurantID,
		r.RestaurantName,
		r.CountryCode,
		r.Country,
		r.City,
		r.Address,
		r.Locality,
		r.Longitude,
		r.Latitude,
		r.Cuisines,
		r.AverageCostForTwo,
		r.Currency,
		formatFlag(r.HasTableBooking),
		formatFlag(r.HasOnlineDelivery),
		formatFlag(r.IsDeliveringNow),
		r.PriceRange,
		r.PriceType,
		r.AggregateRating,
		r.RatingColor,
		r.ColorName,
		r.RatingText,
		r.Votes,
		r.DollarAverageCostForTwo,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatFlag(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
