package charts

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"

	"zomatour/pkg/contracts/domain"
)

// Chart is anything that can be turned into a gonum plot
type Chart interface {
	Plot() (*plot.Plot, error)
}

// Pages holds the report pages charts are drawn from
type Pages struct {
	Geographic          domain.GeographicPage
	RestaurantsCuisines domain.RestaurantsCuisinesPage
}

// ErrUnknownChart is returned for an ID that names no chart
var ErrUnknownChart = errors.New("unknown chart")

// Build returns the chart addressed by id
func Build(id ChartID, pages Pages) (Chart, error) {
	countries := pages.Geographic.Countries
	cities := pages.Geographic.Cities
	rc := pages.RestaurantsCuisines

	switch id {
	case CountriesByCities:
		return countBars("Countries with most Cities registered", "Country", "Cities", countries.ByCities), nil
	case CountriesByCuisines:
		return countBars("Countries with most unique Cuisines", "Country", "Cuisines", countries.ByCuisines), nil
	case VotesPerRestaurant:
		return countBars("Votes per restaurant by Country", "Country", "Votes per restaurant", countries.VotesPerRestaurant), nil
	case DeliveryPresence:
		c := BarChart{Title: "Restaurants delivering now by Country", XLabel: "Country", YLabel: "Delivery presence (%)", ValueFormat: "%.2f%%"}
		for _, d := range countries.DeliveryPresence {
			c.Bars = append(c.Bars, Bar{Label: d.Country, Value: d.Ratio * 100})
		}
		return c, nil
	case CountryRatings:
		ex := countries.RatingExtremes
		mean := ex.OverallMean
		c := BarChart{
			Title:          "Top and Bottom countries on Avg Rating",
			XLabel:         "Country",
			YLabel:         "Average Rating",
			Reference:      &mean,
			ReferenceLabel: fmt.Sprintf("Overall average %.2f", mean),
		}
		for _, v := range append(append([]domain.RankedValue{}, ex.Top...), ex.Bottom...) {
			c.Bars = append(c.Bars, Bar{Label: v.Name, Value: v.Value, Color: v.Color})
		}
		return c, nil
	case CountryAverageCost:
		return valueBars("Average Cost for Two by Country", "Country", "Average Cost for Two (in dollars)", countries.AverageCost), nil
	case ExcellentCities:
		c := BarChart{Title: "Cities with most restaurants rated as Excellent", XLabel: "City", YLabel: "Amount of Excellent Restaurants", ValueFormat: "%.0f"}
		for _, e := range cities.Excellent {
			c.Bars = append(c.Bars, Bar{Label: e.City, Value: float64(e.Restaurants), Group: e.Country, Color: countryColor(cities.Excellent, e.Country)})
		}
		return c, nil
	case CityPopulation:
		c := BarChart{Title: "Cities by restaurant population", XLabel: "Restaurants per city", YLabel: "Amount of Cities", ValueFormat: "%.0f"}
		for _, s := range cities.Population {
			c.Bars = append(c.Bars, Bar{Label: s.Label, Value: float64(s.Count)})
		}
		return c, nil
	case CityDelivery:
		return PieChart{Title: "% of cities that have Delivery option", Slices: SharesToSlices(cities.Delivery)}, nil
	case ExpensiveCities:
		c := BarChart{Title: "Most Expensive Cities", XLabel: "City", YLabel: "Average Cost for Two (in dollars)"}
		for _, e := range cities.Expensive {
			c.Bars = append(c.Bars, Bar{Label: e.City, Value: e.DollarAverageCostForTwo})
		}
		return c, nil
	case CuisineDiversity:
		return PieChart{Title: "Cities with high or low diversity of Cuisines", Slices: SharesToSlices(cities.CuisineDiversity)}, nil
	case VotesByOnlineDelivery:
		c := PieChart{Title: "Votes amount"}
		for _, m := range rc.VotesByOnlineDelivery {
			c.Slices = append(c.Slices, Slice{Label: "Restaurants " + m.Label, Value: m.Value})
		}
		return c, nil
	case RatingByTableBooking:
		c := BarChart{Title: "Restaurant Ratings by table booking", XLabel: "Table booking", YLabel: "Average Rating"}
		for _, m := range rc.RatingByTableBooking {
			c.Bars = append(c.Bars, Bar{Label: m.Label, Value: m.Value})
		}
		return c, nil
	case OnlineCuisines:
		return countBars("Cuisines x Amount of Restaurants delivering online", "Cuisine", "Restaurants", rc.OnlineCuisines), nil
	case ExpensiveCuisines:
		return countBars("Most expensive Cuisines for two people (dollars)", "Cuisine", "Cost for two", rc.ExpensiveCuisines), nil
	case FavoriteCuisines:
		c := BarChart{Title: "Countries' favorite Cuisines", XLabel: "Country", YLabel: "Average Rating"}
		cuisines := map[string]string{}
		for _, f := range rc.FavoriteCuisines {
			if _, ok := cuisines[f.Cuisine]; !ok {
				cuisines[f.Cuisine] = PaletteName(len(cuisines))
			}
			c.Bars = append(c.Bars, Bar{
				Label:      f.Country,
				Value:      f.Rating,
				Color:      cuisines[f.Cuisine],
				Group:      f.Cuisine,
				Annotation: fmt.Sprintf("%s %.2f", f.Cuisine, f.Rating),
			})
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChart, id)
	}
}

func countBars(title, x, y string, rows []domain.RankedCount) BarChart {
	c := BarChart{Title: title, XLabel: x, YLabel: y, ValueFormat: "%.0f"}
	for _, r := range rows {
		c.Bars = append(c.Bars, Bar{Label: r.Name, Value: float64(r.Count)})
	}
	return c
}

func valueBars(title, x, y string, rows []domain.RankedValue) BarChart {
	c := BarChart{Title: title, XLabel: x, YLabel: y}
	for _, r := range rows {
		c.Bars = append(c.Bars, Bar{Label: r.Name, Value: r.Value, Color: r.Color})
	}
	return c
}

// countryColor colors excellent cities by country in order of appearance
func countryColor(rows []domain.ExcellentCity, country string) string {
	seen := map[string]int{}
	for _, r := range rows {
		if _, ok := seen[r.Country]; !ok {
			seen[r.Country] = len(seen)
		}
	}
	return PaletteName(seen[country])
}
