package dataset

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apierrors "zomatour/internal/errors"
	"zomatour/internal/shared/testutil"
)

func TestRenameColumn(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Restaurant ID", "restaurant_id"},
		{"Restaurant Name", "restaurant_name"},
		{"Country Code", "country_code"},
		{"Average Cost for two", "average_cost_for_two"},
		{"Has Table booking", "has_table_booking"},
		{"Is delivering now", "is_delivering_now"},
		{"Switch to order menu", "switch_to_order_menu"},
		{"Aggregate rating", "aggregate_rating"},
		{"Locality Verbose", "locality_verbose"},
		{"  City ", "city"},
		{"Votes", "votes"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, RenameColumn(tt.header))
		})
	}
}

func TestLoad(t *testing.T) {
	path := testutil.WriteZomatoCSV(t)

	table, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, table.Source)
	assert.Equal(t, 11, table.Len())
	assert.Len(t, table.Header, 21)
	assert.Equal(t, "Restaurant ID", table.Header[0])

	idx, ok := table.Index(ColAverageCostForTwo)
	require.True(t, ok)
	assert.Equal(t, 10, idx)

	first := table.Rows[0]
	assert.Equal(t, "Spice Route", table.Value(first, ColRestaurantName))
	assert.Equal(t, "North Indian, Chinese", table.Value(first, ColCuisines))
	assert.Equal(t, "", table.Value(first, "not_a_column"))

	columns := table.Columns()
	assert.Equal(t, "restaurant_id", columns[0])
	assert.Equal(t, "votes", columns[len(columns)-1])
}

func TestRead_StripsBOM(t *testing.T) {
	table, err := Read(context.Background(), strings.NewReader("\ufeff"+testutil.ZomatoCSV))
	require.NoError(t, err)
	assert.Equal(t, "Restaurant ID", table.Header[0])
	assert.Equal(t, "reader", table.Source)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrEmptyDataset,
		},
		{
			name:    "missing column",
			input:   "Restaurant ID,Restaurant Name\n1,A\n",
			wantErr: ErrMissingColumn,
		},
		{
			name:  "ragged row",
			input: testutil.ZomatoHeader + "\n1001,Spice Route,1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(context.Background(), strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, apierrors.IsType(err, apierrors.ErrTypeParsing))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRead_RaggedRowReportsLine(t *testing.T) {
	_, err := Read(context.Background(), strings.NewReader(testutil.ZomatoHeader+"\n1001,Spice Route,1\n"))

	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 2, appErr.Context["line"])
}

func TestRead_MissingColumnsListed(t *testing.T) {
	header := strings.Replace(testutil.ZomatoHeader, ",Votes", "", 1)
	header = strings.Replace(header, ",Currency", ",Money", 1)

	_, err := Read(context.Background(), strings.NewReader(header+"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currency")
	assert.Contains(t, err.Error(), "votes")
}

func TestRead_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Read(ctx, strings.NewReader(testutil.ZomatoCSV))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeParsing))
}

func TestLoad_Workbook(t *testing.T) {
	source, err := Read(context.Background(), strings.NewReader(testutil.ZomatoCSV))
	require.NoError(t, err)

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for i, row := range append([][]string{source.Header}, source.Rows...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}

	path := filepath.Join(t.TempDir(), "zomato.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, source.Len(), table.Len())

	// The row without cuisine keeps its empty cell
	nameless := table.Rows[8]
	assert.Equal(t, "Nameless", table.Value(nameless, ColRestaurantName))
	assert.Equal(t, "", table.Value(nameless, ColCuisines))
	assert.Len(t, nameless, len(table.Header))
}
