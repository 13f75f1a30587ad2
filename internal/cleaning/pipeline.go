package cleaning

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"zomatour/internal/dataset"
	apierrors "zomatour/internal/errors"
	"zomatour/pkg/contracts/domain"
)

// DefaultMaxDollarCost is the exclusive upper bound on the dollar cost for two
const DefaultMaxDollarCost = 1000

// Options configures a Pipeline
type Options struct {
	// MaxDollarCost drops rows whose dollar cost for two is not strictly below it
	MaxDollarCost float64
	// SkipUnknown drops rows with unknown lookup keys or unparsable cells
	// instead of failing the whole run
	SkipUnknown bool
}

// Result is a cleaned dataset
type Result struct {
	Restaurants []domain.Restaurant
	Stats       domain.CleaningStats
}

// Pipeline turns a raw table into typed, enriched restaurants
type Pipeline struct {
	opts     Options
	maxCost  decimal.Decimal
	validate *validator.Validate
	logger   *slog.Logger
}

// NewPipeline creates a cleaning pipeline
func NewPipeline(opts Options, logger *slog.Logger) *Pipeline {
	if opts.MaxDollarCost <= 0 {
		opts.MaxDollarCost = DefaultMaxDollarCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		opts:     opts,
		maxCost:  decimal.NewFromFloat(opts.MaxDollarCost),
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "cleaning")),
	}
}

// rowError marks why a single row could not be converted
type rowError struct {
	unknownKey bool
	err        *apierrors.AppError
}

// Clean runs the cleaning steps in order: duplicates, nulls, lookups,
// primary cuisine, dollar conversion and the cost bound. Rows keep their
// relative order.
func (p *Pipeline) Clean(ctx context.Context, table *dataset.RawTable) (*Result, error) {
	start := time.Now()
	stats := domain.CleaningStats{
		Source:   table.Source,
		RowsRead: table.Len(),
	}

	seen := make(map[string]struct{}, table.Len())
	restaurants := make([]domain.Restaurant, 0, table.Len())

	for i, row := range table.Rows {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			stats.DuplicatesDropped++
			continue
		}
		seen[key] = struct{}{}

		if hasEmptyCell(row) {
			stats.NullRowsDropped++
			continue
		}

		// Header is line 1
		line := i + 2
		r, rerr := p.convert(table, row)
		if rerr != nil {
			rerr.err.WithContext("line", line)
			if !p.opts.SkipUnknown {
				return nil, rerr.err
			}
			if rerr.unknownKey {
				stats.UnknownKeysDropped++
			} else {
				stats.InvalidRowsDropped++
			}
			p.logger.DebugContext(ctx, "row dropped",
				slog.Int("line", line),
				slog.String("reason", rerr.err.Error()))
			continue
		}

		if err := p.validate.Struct(r); err != nil {
			if !p.opts.SkipUnknown {
				return nil, apierrors.NewAppValidationError("row failed validation", err).WithContext("line", line)
			}
			stats.InvalidRowsDropped++
			continue
		}

		if !decimal.NewFromFloat(r.DollarAverageCostForTwo).LessThan(p.maxCost) {
			stats.OverCostDropped++
			continue
		}

		restaurants = append(restaurants, r)
	}

	stats.RowsKept = len(restaurants)
	stats.Duration = time.Since(start)
	stats.LoadedAt = time.Now().UTC()

	p.logger.InfoContext(ctx, "dataset cleaned",
		slog.String("source", stats.Source),
		slog.Int("rows_read", stats.RowsRead),
		slog.Int("rows_kept", stats.RowsKept),
		slog.Int("duplicates", stats.DuplicatesDropped),
		slog.Int("nulls", stats.NullRowsDropped),
		slog.Int("unknown_keys", stats.UnknownKeysDropped),
		slog.Int("invalid", stats.InvalidRowsDropped),
		slog.Int("over_cost", stats.OverCostDropped),
		slog.Duration("duration", stats.Duration))

	return &Result{Restaurants: restaurants, Stats: stats}, nil
}

func hasEmptyCell(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) == "" {
			return true
		}
	}
	return false
}

func (p *Pipeline) convert(table *dataset.RawTable, row []string) (domain.Restaurant, *rowError) {
	var (
		r   domain.Restaurant
		err *apierrors.AppError
	)
	value := func(col string) string { return strings.TrimSpace(table.Value(row, col)) }

	if r.RestaurantID, err = parseInt(value(dataset.ColRestaurantID), dataset.ColRestaurantID); err != nil {
		return r, &rowError{err: err}
	}
	r.RestaurantName = value(dataset.ColRestaurantName)
	r.City = value(dataset.ColCity)
	r.Address = value(dataset.ColAddress)
	r.Locality = value(dataset.ColLocality)
	r.Currency = value(dataset.ColCurrency)
	r.RatingColor = strings.ToUpper(value(dataset.ColRatingColor))

	code, err := parseInt(value(dataset.ColCountryCode), dataset.ColCountryCode)
	if err != nil {
		return r, &rowError{err: err}
	}
	r.CountryCode = int(code)

	if r.Longitude, err = parseFloat(value(dataset.ColLongitude), dataset.ColLongitude); err != nil {
		return r, &rowError{err: err}
	}
	if r.Latitude, err = parseFloat(value(dataset.ColLatitude), dataset.ColLatitude); err != nil {
		return r, &rowError{err: err}
	}
	if r.AverageCostForTwo, err = parseInt(value(dataset.ColAverageCostForTwo), dataset.ColAverageCostForTwo); err != nil {
		return r, &rowError{err: err}
	}
	if r.HasTableBooking, err = parseFlag(value(dataset.ColHasTableBooking), dataset.ColHasTableBooking); err != nil {
		return r, &rowError{err: err}
	}
	if r.HasOnlineDelivery, err = parseFlag(value(dataset.ColHasOnlineDelivery), dataset.ColHasOnlineDelivery); err != nil {
		return r, &rowError{err: err}
	}
	if r.IsDeliveringNow, err = parseFlag(value(dataset.ColIsDeliveringNow), dataset.ColIsDeliveringNow); err != nil {
		return r, &rowError{err: err}
	}

	priceRange, err := parseInt(value(dataset.ColPriceRange), dataset.ColPriceRange)
	if err != nil {
		return r, &rowError{err: err}
	}
	r.PriceRange = int(priceRange)

	if r.AggregateRating, err = parseFloat(value(dataset.ColAggregateRating), dataset.ColAggregateRating); err != nil {
		return r, &rowError{err: err}
	}
	if r.Votes, err = parseInt(value(dataset.ColVotes), dataset.ColVotes); err != nil {
		return r, &rowError{err: err}
	}

	country, ok := CountryName(r.CountryCode)
	if !ok {
		return r, unknown(TableCountry, r.CountryCode, dataset.ColCountryCode)
	}
	r.Country = country

	r.PriceType, _ = PriceType(r.PriceRange)

	colorName, ok := ColorName(r.RatingColor)
	if !ok {
		return r, unknown(TableColor, r.RatingColor, dataset.ColRatingColor)
	}
	r.ColorName = colorName
	r.RatingText, _ = RatingText(colorName)

	r.Cuisines = strings.TrimSpace(strings.SplitN(value(dataset.ColCuisines), ",", 2)[0])

	dollars, lookupErr := ToDollars(r.AverageCostForTwo, r.Currency)
	if lookupErr != nil {
		return r, unknown(TableCurrency, r.Currency, dataset.ColCurrency)
	}
	r.DollarAverageCostForTwo = dollars.InexactFloat64()

	return r, nil
}

func unknown(table string, key interface{}, column string) *rowError {
	return &rowError{
		unknownKey: true,
		err:        apierrors.NewLookupError(table, key).WithContext("column", column),
	}
}

func parseInt(s, column string) (int64, *apierrors.AppError) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, cellError(column, s, err)
	}
	return v, nil
}

func parseFloat(s, column string) (float64, *apierrors.AppError) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, cellError(column, s, err)
	}
	return v, nil
}

func parseFlag(s, column string) (bool, *apierrors.AppError) {
	switch strings.ToLower(s) {
	case "yes", "1", "true":
		return true, nil
	case "no", "0", "false":
		return false, nil
	default:
		return false, cellError(column, s, fmt.Errorf("expected Yes/No or 1/0"))
	}
}

func cellError(column, value string, cause error) *apierrors.AppError {
	return apierrors.NewParsingError(fmt.Sprintf("invalid %s %q", column, value), cause).
		WithContext("column", column).
		WithContext("value", value)
}
