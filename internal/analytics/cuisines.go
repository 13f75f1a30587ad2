package analytics

import (
	"sort"

	"zomatour/pkg/contracts/domain"
)

// Group labels of the restaurants page
const (
	LabelOffline   = "Offline"
	LabelOnline    = "Online"
	LabelNoBooking = "No table booking"
	LabelBooking   = "Table booking"
)

// VotesByOnlineDelivery averages votes for restaurants without and with
// online delivery
func VotesByOnlineDelivery(rows []domain.Restaurant) ([]domain.LabeledMean, error) {
	return labeledMeans(rows, votes, byOnlineDelivery, LabelOffline, LabelOnline)
}

// RatingByTableBooking averages ratings for restaurants without and with
// table booking
func RatingByTableBooking(rows []domain.Restaurant) ([]domain.LabeledMean, error) {
	return labeledMeans(rows, rating, byTableBooking, LabelNoBooking, LabelBooking)
}

// labeledMeans returns the means of the groups present, in label order
func labeledMeans(rows []domain.Restaurant, m measure, k key, labels ...string) ([]domain.LabeledMean, error) {
	means, err := meanBy(rows, m, k)
	if err != nil {
		return nil, err
	}
	byLabel := make(map[string]float64, len(means))
	for _, g := range means {
		byLabel[g.keys[0]] = g.mean
	}

	out := []domain.LabeledMean{}
	for _, label := range labels {
		if v, ok := byLabel[label]; ok {
			out = append(out, domain.LabeledMean{Label: label, Value: round2(v)})
		}
	}
	return out, nil
}

// TopOnlineCuisines ranks cuisines by distinct restaurants offering online
// delivery
func TopOnlineCuisines(rows []domain.Restaurant, n int) []domain.RankedCount {
	var online []domain.Restaurant
	for _, r := range rows {
		if r.HasOnlineDelivery {
			online = append(online, r)
		}
	}
	return toRankedCounts(head(countTallies(distinctBy(online, byCuisine, restaurantID)), n))
}

// TopExpensiveCuisines ranks cuisines by mean dollar cost for two,
// truncated to whole dollars
func TopExpensiveCuisines(rows []domain.Restaurant, n int) ([]domain.RankedCount, error) {
	ts, err := meanTallies(rows, dollarCost, byCuisine)
	if err != nil {
		return nil, err
	}
	for i := range ts {
		ts[i].value = float64(int64(ts[i].value))
	}
	return toRankedCounts(head(ranked(ts), n)), nil
}

// FavoriteCuisines picks the best rated cuisine of every country, ordered by
// rating
func FavoriteCuisines(rows []domain.Restaurant) ([]domain.FavoriteCuisine, error) {
	means, err := meanBy(rows, rating, byCountry, byCuisine)
	if err != nil {
		return nil, err
	}

	best := make(map[string]domain.FavoriteCuisine)
	for _, g := range means {
		country, cuisine, value := g.keys[0], g.keys[1], round2(g.mean)
		cur, ok := best[country]
		if !ok || value > cur.Rating || (value == cur.Rating && cuisine < cur.Cuisine) {
			best[country] = domain.FavoriteCuisine{Country: country, Cuisine: cuisine, Rating: value}
		}
	}

	out := make([]domain.FavoriteCuisine, 0, len(best))
	for _, f := range best {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Country < out[j].Country
	})
	for i := range out {
		out[i].Position = i + 1
	}
	return out, nil
}
