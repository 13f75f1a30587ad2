package analytics

import (
	"zomatour/pkg/contracts/domain"
)

// Overview computes the headline metrics of the general overview
func Overview(rows []domain.Restaurant) domain.Overview {
	var total int64
	for _, r := range rows {
		total += r.Votes
	}

	return domain.Overview{
		Countries:           distinct(rows, byCountry.of),
		Cities:              distinct(rows, byCity.of),
		Restaurants:         distinct(rows, restaurantID),
		Cuisines:            distinct(rows, byCuisine.of),
		TotalVotes:          total,
		TotalVotesFormatted: FormatThousands(total),
		AverageRating:       round2(meanOf(rows, rating)),
	}
}

// MapPoints centers the map on the mean coordinates and places one marker
// per restaurant
func MapPoints(rows []domain.Restaurant) domain.MapView {
	view := domain.MapView{
		CenterLatitude: meanOf(rows, measure{"latitude", func(r domain.Restaurant) float64 {
			return r.Latitude
		}}),
		CenterLongitude: meanOf(rows, measure{"longitude", func(r domain.Restaurant) float64 {
			return r.Longitude
		}}),
		Markers: make([]domain.MapMarker, 0, len(rows)),
	}

	for _, r := range rows {
		view.Markers = append(view.Markers, domain.MapMarker{
			Latitude:        r.Latitude,
			Longitude:       r.Longitude,
			City:            r.City,
			RestaurantName:  r.RestaurantName,
			AggregateRating: r.AggregateRating,
			ColorName:       r.ColorName,
		})
	}
	return view
}
