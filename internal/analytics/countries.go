package analytics

import (
	"fmt"
	"sort"

	"zomatour/pkg/contracts/domain"
)

// Bar colors of the rating extremes chart
const (
	ColorTop    = "skyblue"
	ColorBottom = "indianred"
)

// TopCountriesByCities ranks countries by their number of distinct cities
func TopCountriesByCities(rows []domain.Restaurant, n int) []domain.RankedCount {
	return toRankedCounts(head(countTallies(distinctBy(rows, byCountry, byCity.of)), n))
}

// TopCountriesByCuisines ranks countries by their number of distinct cuisines
func TopCountriesByCuisines(rows []domain.Restaurant, n int) []domain.RankedCount {
	return toRankedCounts(head(countTallies(distinctBy(rows, byCountry, byCuisine.of)), n))
}

// VotesPerRestaurant ranks countries by total votes divided by distinct
// restaurants. The ratio is truncated only after ranking.
func VotesPerRestaurant(rows []domain.Restaurant, n int) []domain.RankedCount {
	sums := make(map[string]int64)
	for _, r := range rows {
		sums[r.Country] += r.Votes
	}
	restaurants := distinctBy(rows, byCountry, restaurantID)

	ts := make([]tally, 0, len(sums))
	for country, sum := range sums {
		ts = append(ts, tally{name: country, value: float64(sum) / float64(restaurants[country])})
	}
	return toRankedCounts(head(ranked(ts), n))
}

// DeliveryPresence lists countries with at least one restaurant delivering
// now, ordered by the number of delivering rows
func DeliveryPresence(rows []domain.Restaurant) []domain.DeliveryPresence {
	delivering := make(map[string]int)
	for _, r := range rows {
		if r.IsDeliveringNow {
			delivering[r.Country]++
		}
	}
	restaurants := distinctBy(rows, byCountry, restaurantID)

	out := make([]domain.DeliveryPresence, 0, len(delivering))
	for country, options := range delivering {
		ratio := float64(options) / float64(restaurants[country])
		out = append(out, domain.DeliveryPresence{
			Country:          country,
			TotalRestaurants: restaurants[country],
			DeliveryOptions:  options,
			DeliveryPresence: fmt.Sprintf("%.2f%%", ratio*100),
			Ratio:            ratio,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DeliveryOptions != out[j].DeliveryOptions {
			return out[i].DeliveryOptions > out[j].DeliveryOptions
		}
		return out[i].Country < out[j].Country
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

// CountryRatingExtremes returns the n best and n worst countries by mean
// rating. A country appears in at most one of the two lists.
func CountryRatingExtremes(rows []domain.Restaurant, n int) (domain.RatingExtremes, error) {
	means, err := meanBy(rows, rating, byCountry)
	if err != nil {
		return domain.RatingExtremes{}, err
	}

	ts := make([]tally, len(means))
	var sum float64
	for i, g := range means {
		ts[i] = tally{name: g.keys[0], value: g.mean}
		sum += g.mean
	}
	ts = ranked(ts)

	extremes := domain.RatingExtremes{
		Top:    []domain.RankedValue{},
		Bottom: []domain.RankedValue{},
	}
	if len(ts) == 0 {
		return extremes, nil
	}
	extremes.OverallMean = round2(sum / float64(len(ts)))

	top := head(ts, n)
	for i, t := range top {
		extremes.Top = append(extremes.Top, domain.RankedValue{
			Position: i + 1, Name: t.name, Value: round2(t.value), Color: ColorTop,
		})
	}

	from := len(ts) - n
	if from < len(top) {
		from = len(top)
	}
	for i := from; i < len(ts); i++ {
		extremes.Bottom = append(extremes.Bottom, domain.RankedValue{
			Position: i + 1, Name: ts[i].name, Value: round2(ts[i].value), Color: ColorBottom,
		})
	}
	return extremes, nil
}

// CountryAverageCost ranks every country by its mean dollar cost for two
func CountryAverageCost(rows []domain.Restaurant) ([]domain.RankedValue, error) {
	ts, err := meanTallies(rows, dollarCost, byCountry)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RankedValue, len(ts))
	for i, t := range ts {
		out[i] = domain.RankedValue{Position: i + 1, Name: t.name, Value: round2(t.value)}
	}
	return out, nil
}

// meanTallies averages m per value of a single key, ranked
func meanTallies(rows []domain.Restaurant, m measure, k key) ([]tally, error) {
	means, err := meanBy(rows, m, k)
	if err != nil {
		return nil, err
	}
	ts := make([]tally, len(means))
	for i, g := range means {
		ts[i] = tally{name: g.keys[0], value: g.mean}
	}
	return ranked(ts), nil
}
