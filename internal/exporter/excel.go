package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// DatasetSheet is the workbook sheet holding the cleaned restaurants
const DatasetSheet = "Restaurants"

// maxSheetName is Excel's limit on sheet name length
const maxSheetName = 31

// WriteWorkbook writes the dataset and one sheet per report table as XLSX
func WriteWorkbook(w io.Writer, snap Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), DatasetSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(DatasetSheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}
	if err := sw.SetRow("A1", toRow(RestaurantHeader)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range snap.Restaurants {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, restaurantValues(r)); err != nil {
			return fmt.Errorf("failed to write restaurant %d: %w", r.RestaurantID, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush dataset sheet: %w", err)
	}

	for _, t := range snap.Tables {
		if err := writeTableSheet(f, t); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeTableSheet(f *excelize.File, t Table) error {
	name := SheetName(t.Name)
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	rows := append([][]string{t.Headers}, t.Rows...)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := toRow(row)
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", name, err)
		}
	}
	return nil
}

// SheetName fits a table name into Excel's sheet name limit
func SheetName(name string) string {
	r := []rune(name)
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	return string(r)
}

func toRow(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
