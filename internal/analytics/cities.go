package analytics

import (
	"zomatour/pkg/contracts/domain"
)

// ExcellentRating is the lowest rating counted as excellent
const ExcellentRating = 4.5

// Labels of the city shares
const (
	LabelYes  = "Yes"
	LabelNo   = "No"
	LabelHigh = "High"
	LabelLow  = "Low"
)

// HighDiversity is the number of distinct cuisines from which a city counts
// as highly diverse
const HighDiversity = 10

// populationBuckets are the inclusive bounds of the restaurants-per-city
// histogram. The last bucket is open.
var populationBuckets = []struct {
	label    string
	min, max int
}{
	{"1-20", 1, 20},
	{"21-40", 21, 40},
	{"41-60", 41, 60},
	{"61+", 61, 0},
}

// TopExcellentCities ranks cities by distinct restaurants rated 4.5 or more.
// Each city is joined to its countries, so a city name found in two
// countries yields two rows.
func TopExcellentCities(rows []domain.Restaurant, n int) []domain.ExcellentCity {
	var excellent []domain.Restaurant
	for _, r := range rows {
		if r.AggregateRating >= ExcellentRating {
			excellent = append(excellent, r)
		}
	}

	countries := cityCountries(rows)
	out := []domain.ExcellentCity{}
	for _, t := range head(countTallies(distinctBy(excellent, byCity, restaurantID)), n) {
		for _, country := range countries[t.name] {
			out = append(out, domain.ExcellentCity{
				Position:    len(out) + 1,
				City:        t.name,
				Country:     country,
				Restaurants: int(t.value),
			})
		}
	}
	return out
}

// cityCountries lists each city's distinct countries in order of appearance
func cityCountries(rows []domain.Restaurant) map[string][]string {
	out := make(map[string][]string)
	seen := make(map[[2]string]struct{})
	for _, r := range rows {
		k := [2]string{r.City, r.Country}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out[r.City] = append(out[r.City], r.Country)
	}
	return out
}

// CityPopulationBuckets counts cities per restaurants-per-city bucket.
// Empty buckets are omitted.
func CityPopulationBuckets(rows []domain.Restaurant) []domain.Share {
	perCity := distinctBy(rows, byCity, restaurantID)
	counts := make([]int, len(populationBuckets))
	for _, c := range perCity {
		for i, b := range populationBuckets {
			if c >= b.min && (b.max == 0 || c <= b.max) {
				counts[i]++
				break
			}
		}
	}

	out := []domain.Share{}
	for i, b := range populationBuckets {
		if counts[i] == 0 {
			continue
		}
		out = append(out, domain.Share{
			Label:   b.label,
			Count:   counts[i],
			Percent: percent(counts[i], len(perCity)),
		})
	}
	return out
}

// CityDeliveryShare splits cities into those with a restaurant delivering
// now and those without
func CityDeliveryShare(rows []domain.Restaurant) []domain.Share {
	delivering := make(map[string]bool)
	for _, r := range rows {
		delivering[r.City] = delivering[r.City] || r.IsDeliveringNow
	}

	var yes int
	for _, d := range delivering {
		if d {
			yes++
		}
	}
	return shares(len(delivering), LabelYes, yes, LabelNo)
}

// CuisineDiversity splits cities by their number of distinct cuisines
func CuisineDiversity(rows []domain.Restaurant) []domain.Share {
	perCity := distinctBy(rows, byCity, byCuisine.of)
	var high int
	for _, c := range perCity {
		if c >= HighDiversity {
			high++
		}
	}
	return shares(len(perCity), LabelHigh, high, LabelLow)
}

// TopExpensiveCities ranks cities by mean dollar cost for two and attaches
// each of the city's countries with that country's cost rank. A city name
// found in two countries yields one row per country.
func TopExpensiveCities(rows []domain.Restaurant, n int) ([]domain.ExpensiveCity, error) {
	cities, err := meanTallies(rows, dollarCost, byCity)
	if err != nil {
		return nil, err
	}
	countryMeans, err := meanTallies(rows, dollarCost, byCountry)
	if err != nil {
		return nil, err
	}
	ranks := averageRanks(countryMeans)
	countries := cityCountries(rows)

	out := []domain.ExpensiveCity{}
	for _, t := range head(cities, n) {
		for _, country := range countries[t.name] {
			out = append(out, domain.ExpensiveCity{
				Position:                len(out) + 1,
				City:                    t.name,
				DollarAverageCostForTwo: round2(t.value),
				Country:                 country,
				CountryCostRank:         ranks[country],
			})
		}
	}
	return out, nil
}

// averageRanks ranks ranked tallies from 1, giving ties the mean of their
// positions truncated to an integer
func averageRanks(ts []tally) map[string]int {
	ranks := make(map[string]int, len(ts))
	for i := 0; i < len(ts); {
		j := i
		for j+1 < len(ts) && ts[j+1].value == ts[i].value {
			j++
		}
		// positions i+1..j+1
		rank := (i + 1 + j + 1) / 2
		for k := i; k <= j; k++ {
			ranks[ts[k].name] = rank
		}
		i = j + 1
	}
	return ranks
}

func shares(total int, first string, count int, second string) []domain.Share {
	return []domain.Share{
		{Label: first, Count: count, Percent: percent(count, total)},
		{Label: second, Count: total - count, Percent: percent(total-count, total)},
	}
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) * 100 / float64(total))
}
