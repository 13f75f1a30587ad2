package exporter

import (
	"strconv"

	"zomatour/pkg/contracts/domain"
)

// Table is a report table exported next to the dataset
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// Snapshot is everything an export contains
type Snapshot struct {
	Restaurants []domain.Restaurant
	Stats       domain.CleaningStats
	Tables      []Table
}

// ReportTables flattens the report pages into tables, one per report
func ReportTables(geo domain.GeographicPage, rc domain.RestaurantsCuisinesPage) []Table {
	c, ci := geo.Countries, geo.Cities
	tables := []Table{
		countTable("Countries by cities", "cities", c.ByCities),
		countTable("Countries by cuisines", "cuisines", c.ByCuisines),
		countTable("Votes per restaurant", "votes_per_restaurant", c.VotesPerRestaurant),
	}

	delivery := Table{Name: "Delivery presence", Headers: []string{"position", "country", "total_restaurants", "delivery_options", "delivery_presence"}}
	for _, d := range c.DeliveryPresence {
		delivery.Rows = append(delivery.Rows, []string{
			strconv.Itoa(d.Position), d.Country, strconv.Itoa(d.TotalRestaurants), strconv.Itoa(d.DeliveryOptions), d.DeliveryPresence,
		})
	}
	tables = append(tables, delivery)

	ratings := Table{Name: "Country ratings", Headers: []string{"position", "country", "aggregate_rating", "group"}}
	for _, v := range c.RatingExtremes.Top {
		ratings.Rows = append(ratings.Rows, []string{strconv.Itoa(v.Position), v.Name, formatFloat(v.Value), "top"})
	}
	for _, v := range c.RatingExtremes.Bottom {
		ratings.Rows = append(ratings.Rows, []string{strconv.Itoa(v.Position), v.Name, formatFloat(v.Value), "bottom"})
	}
	tables = append(tables, ratings, valueTable("Country average cost", "dollar_average_cost_for_two", c.AverageCost))

	excellent := Table{Name: "Excellent cities", Headers: []string{"position", "city", "country", "restaurants"}}
	for _, e := range ci.Excellent {
		excellent.Rows = append(excellent.Rows, []string{strconv.Itoa(e.Position), e.City, e.Country, strconv.Itoa(e.Restaurants)})
	}
	expensive := Table{Name: "Expensive cities", Headers: []string{"position", "city", "dollar_average_cost_for_two", "country", "country_cost_rank"}}
	for _, e := range ci.Expensive {
		expensive.Rows = append(expensive.Rows, []string{
			strconv.Itoa(e.Position), e.City, formatFloat(e.DollarAverageCostForTwo), e.Country, strconv.Itoa(e.CountryCostRank),
		})
	}
	tables = append(tables,
		excellent,
		shareTable("City population", ci.Population),
		shareTable("City delivery", ci.Delivery),
		expensive,
		shareTable("Cuisine diversity", ci.CuisineDiversity),
		meanTable("Votes by online delivery", "votes", rc.VotesByOnlineDelivery),
		meanTable("Rating by table booking", "aggregate_rating", rc.RatingByTableBooking),
		countTable("Online cuisines", "restaurants", rc.OnlineCuisines),
		countTable("Expensive cuisines", "dollar_average_cost_for_two", rc.ExpensiveCuisines),
	)

	favorites := Table{Name: "Favorite cuisines", Headers: []string{"position", "country", "cuisine", "aggregate_rating"}}
	for _, f := range rc.FavoriteCuisines {
		favorites.Rows = append(favorites.Rows, []string{strconv.Itoa(f.Position), f.Country, f.Cuisine, formatFloat(f.Rating)})
	}
	return append(tables, favorites)
}

func countTable(name, column string, rows []domain.RankedCount) Table {
	t := Table{Name: name, Headers: []string{"position", "name", column}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{strconv.Itoa(r.Position), r.Name, strconv.FormatInt(r.Count, 10)})
	}
	return t
}

func valueTable(name, column string, rows []domain.RankedValue) Table {
	t := Table{Name: name, Headers: []string{"position", "name", column}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{strconv.Itoa(r.Position), r.Name, formatFloat(r.Value)})
	}
	return t
}

func shareTable(name string, rows []domain.Share) Table {
	t := Table{Name: name, Headers: []string{"label", "count", "percent"}}
	for _, s := range rows {
		t.Rows = append(t.Rows, []string{s.Label, strconv.Itoa(s.Count), formatFloat(s.Percent)})
	}
	return t
}

func meanTable(name, column string, rows []domain.LabeledMean) Table {
	t := Table{Name: name, Headers: []string{"label", column}}
	for _, m := range rows {
		t.Rows = append(t.Rows, []string{m.Label, formatFloat(m.Value)})
	}
	return t
}
