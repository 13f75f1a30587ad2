package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apierrors "zomatour/internal/errors"
)

// Canonical column names, as produced by RenameColumn
const (
	ColRestaurantID      = "restaurant_id"
	ColRestaurantName    = "restaurant_name"
	ColCountryCode       = "country_code"
	ColCity              = "city"
	ColAddress           = "address"
	ColLocality          = "locality"
	ColLongitude         = "longitude"
	ColLatitude          = "latitude"
	ColCuisines          = "cuisines"
	ColAverageCostForTwo = "average_cost_for_two"
	ColCurrency          = "currency"
	ColHasTableBooking   = "has_table_booking"
	ColHasOnlineDelivery = "has_online_delivery"
	ColIsDeliveringNow   = "is_delivering_now"
	ColPriceRange        = "price_range"
	ColAggregateRating   = "aggregate_rating"
	ColRatingColor       = "rating_color"
	ColRatingText        = "rating_text"
	ColVotes             = "votes"
)

// RequiredColumns must be present in every dataset
var RequiredColumns = []string{
	ColRestaurantID,
	ColRestaurantName,
	ColCountryCode,
	ColCity,
	ColLongitude,
	ColLatitude,
	ColCuisines,
	ColAverageCostForTwo,
	ColCurrency,
	ColHasTableBooking,
	ColHasOnlineDelivery,
	ColIsDeliveringNow,
	ColPriceRange,
	ColAggregateRating,
	ColRatingColor,
	ColRatingText,
	ColVotes,
}

var (
	// ErrEmptyDataset is returned for input without a header row
	ErrEmptyDataset = errors.New("dataset is empty")
	// ErrMissingColumn is returned when a required column is absent
	ErrMissingColumn = errors.New("missing required column")
)

// utf8BOM is stripped from the first header cell
const utf8BOM = "\ufeff"

// RawTable is the dataset as read from disk: the original header row and
// every data row with its cells kept as strings.
type RawTable struct {
	Source string
	Header []string
	Rows   [][]string

	columns map[string]int
}

// NewRawTable builds a table and indexes its columns by canonical name
func NewRawTable(source string, header []string, rows [][]string) (*RawTable, error) {
	if len(header) == 0 {
		return nil, ErrEmptyDataset
	}
	if len(header[0]) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	t := &RawTable{
		Source:  source,
		Header:  header,
		Rows:    rows,
		columns: make(map[string]int, len(header)),
	}
	for i, h := range header {
		name := RenameColumn(h)
		if _, dup := t.columns[name]; !dup {
			t.columns[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := t.columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apierrors.NewParsingError(
			fmt.Sprintf("%s: %s", ErrMissingColumn, strings.Join(missing, ", ")), ErrMissingColumn,
		).WithContext("source", source).WithContext("missing", missing)
	}

	return t, nil
}

// Len returns the number of data rows
func (t *RawTable) Len() int {
	return len(t.Rows)
}

// Columns returns the canonical column names in header order
func (t *RawTable) Columns() []string {
	names := make([]string, len(t.Header))
	for i, h := range t.Header {
		names[i] = RenameColumn(h)
	}
	return names
}

// Index returns the position of a canonical column
func (t *RawTable) Index(column string) (int, bool) {
	i, ok := t.columns[column]
	return i, ok
}

// Value returns the cell of row at the canonical column, or "" when absent
func (t *RawTable) Value(row []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// Load reads a dataset file. CSV is the native format; .xlsx workbooks are
// read from their first sheet.
func Load(ctx context.Context, path string) (*RawTable, error) {
	logger := slog.Default().With(slog.String("component", "dataset"))

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadWorkbook(ctx, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apierrors.NewParsingError("failed to open dataset", err).WithContext("path", path)
	}
	defer f.Close()

	table, err := read(ctx, path, f)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Header)))
	return table, nil
}

// Read reads a CSV dataset from r
func Read(ctx context.Context, r io.Reader) (*RawTable, error) {
	return read(ctx, "reader", r)
}

func read(ctx context.Context, source string, r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apierrors.NewParsingError("failed to read header", ErrEmptyDataset).WithContext("source", source)
	}
	if err != nil {
		return nil, apierrors.NewParsingError("failed to read header", err).WithContext("source", source)
	}

	var rows [][]string
	for {
		if len(rows)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			appErr := apierrors.NewParsingError("failed to read row", err).WithContext("source", source)
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				appErr.WithContext("line", parseErr.Line)
			}
			return nil, appErr
		}
		rows = append(rows, record)
	}

	return NewRawTable(source, header, rows)
}

func loadWorkbook(ctx context.Context, path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apierrors.NewParsingError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apierrors.NewParsingError("workbook has no sheets", ErrEmptyDataset).WithContext("path", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apierrors.NewParsingError("failed to read sheet", err).
			WithContext("path", path).
			WithContext("sheet", sheets[0])
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apierrors.NewParsingError("failed to read header", ErrEmptyDataset).WithContext("path", path)
	}

	// GetRows trims trailing empty cells; pad so empty cells stay visible as nulls
	width := len(rows[0])
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			row = padded
		}
		data = append(data, row)
	}

	slog.Default().InfoContext(ctx, "dataset loaded from workbook",
		slog.String("component", "dataset"),
		slog.String("path", path),
		slog.String("sheet", sheets[0]),
		slog.Int("rows", len(data)))

	return NewRawTable(path, rows[0], data)
}
