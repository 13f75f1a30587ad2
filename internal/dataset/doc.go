// Package dataset reads the raw restaurant dataset.
//
// Cells are kept as strings so the cleaning pipeline can apply its rules
// (duplicate and null detection happen before any typing). Columns are
// addressed by their canonical snake_case name:
//
//	table, err := dataset.Load(ctx, "data/zomato.csv")
//	if err != nil {
//	    return err
//	}
//	idx, _ := table.Index(dataset.ColCountryCode)
package dataset
