package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"zomatour/pkg/contracts/domain"
)

// key is a categorical column derived from a restaurant
type key struct {
	name string
	of   func(domain.Restaurant) string
}

var (
	byCountry = key{"country", func(r domain.Restaurant) string { return r.Country }}
	byCity    = key{"city", func(r domain.Restaurant) string { return r.City }}
	byCuisine = key{"cuisines", func(r domain.Restaurant) string { return r.Cuisines }}

	byOnlineDelivery = key{"online_delivery", func(r domain.Restaurant) string {
		if r.HasOnlineDelivery {
			return LabelOnline
		}
		return LabelOffline
	}}
	byTableBooking = key{"table_booking", func(r domain.Restaurant) string {
		if r.HasTableBooking {
			return LabelBooking
		}
		return LabelNoBooking
	}}
)

// measure is a numeric column derived from a restaurant
type measure struct {
	name string
	of   func(domain.Restaurant) float64
}

var (
	rating     = measure{"aggregate_rating", func(r domain.Restaurant) float64 { return r.AggregateRating }}
	votes      = measure{"votes", func(r domain.Restaurant) float64 { return float64(r.Votes) }}
	dollarCost = measure{"dollar_average_cost_for_two", func(r domain.Restaurant) float64 { return r.DollarAverageCostForTwo }}
)

// groupMean is one row of a grouped mean
type groupMean struct {
	keys []string
	mean float64
}

// meanBy groups rows by the given keys and averages m within each group.
// The result order is unspecified.
func meanBy(rows []domain.Restaurant, m measure, keys ...key) ([]groupMean, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make([]series.Series, 0, len(keys)+1)
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		values := make([]string, len(rows))
		for i, r := range rows {
			values[i] = k.of(r)
		}
		columns = append(columns, series.New(values, series.String, k.name))
		names = append(names, k.name)
	}
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = m.of(r)
	}
	columns = append(columns, series.New(values, series.Float, m.name))

	df := dataframe.New(columns...)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to build frame for %s: %w", m.name, df.Err)
	}

	agg := df.GroupBy(names...).Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_MEAN},
		[]string{m.name},
	)
	if agg.Err != nil {
		return nil, fmt.Errorf("failed to average %s by %s: %w", m.name, strings.Join(names, ","), agg.Err)
	}

	meanColumn := ""
	for _, name := range agg.Names() {
		if strings.HasPrefix(name, m.name+"_") {
			meanColumn = name
			break
		}
	}
	if meanColumn == "" {
		return nil, fmt.Errorf("aggregation of %s produced no mean column", m.name)
	}

	means := agg.Col(meanColumn).Float()
	groups := make([]groupMean, agg.Nrow())
	for i := range groups {
		groups[i] = groupMean{keys: make([]string, len(keys)), mean: means[i]}
	}
	for j, k := range keys {
		for i, v := range agg.Col(k.name).Records() {
			groups[i].keys[j] = v
		}
	}
	return groups, nil
}

// meanOf averages m over all rows, zero for no rows
func meanOf(rows []domain.Restaurant, m measure) float64 {
	if len(rows) == 0 {
		return 0
	}
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = m.of(r)
	}
	return series.New(values, series.Float, m.name).Mean()
}

// distinctBy counts distinct member values per group
func distinctBy(rows []domain.Restaurant, group key, member func(domain.Restaurant) string) map[string]int {
	sets := make(map[string]map[string]struct{})
	for _, r := range rows {
		g := group.of(r)
		if sets[g] == nil {
			sets[g] = make(map[string]struct{})
		}
		sets[g][member(r)] = struct{}{}
	}
	counts := make(map[string]int, len(sets))
	for g, set := range sets {
		counts[g] = len(set)
	}
	return counts
}

func restaurantID(r domain.Restaurant) string { return fmt.Sprint(r.RestaurantID) }

func distinct(rows []domain.Restaurant, of func(domain.Restaurant) string) int {
	set := make(map[string]struct{})
	for _, r := range rows {
		set[of(r)] = struct{}{}
	}
	return len(set)
}

// tally is a named value awaiting ranking
type tally struct {
	name  string
	value float64
}

// ranked sorts by value descending, then name ascending
func ranked(ts []tally) []tally {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].value != ts[j].value {
			return ts[i].value > ts[j].value
		}
		return ts[i].name < ts[j].name
	})
	return ts
}

// head returns the first n items; n <= 0 keeps all
func head[T any](items []T, n int) []T {
	if n <= 0 || n >= len(items) {
		return items
	}
	return items[:n]
}

func countTallies(counts map[string]int) []tally {
	ts := make([]tally, 0, len(counts))
	for name, c := range counts {
		ts = append(ts, tally{name: name, value: float64(c)})
	}
	return ranked(ts)
}

func toRankedCounts(ts []tally) []domain.RankedCount {
	out := make([]domain.RankedCount, len(ts))
	for i, t := range ts {
		out[i] = domain.RankedCount{Position: i + 1, Name: t.name, Count: int64(t.value)}
	}
	return out
}

// round2 rounds half away from zero to two decimals
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

var printer = message.NewPrinter(language.English)

// FormatThousands renders n with comma thousands separators
func FormatThousands(n int64) string {
	return printer.Sprintf("%d", n)
}
