// Package exporter writes snapshots of the cleaned dataset.
//
// This package contains these components:
//
// CSVWriter: core CSV writing with headers, append mode, streaming and an
// optional UTF-8 BOM for Excel compatibility.
//
// WriteWorkbook, WriteParquet and WriteSQLite: the XLSX (dataset plus one
// sheet per report table), Snappy parquet and SQLite renditions.
//
// Exporter: dispatches a Snapshot to one of the formats, either streamed to
// an io.Writer or saved inside the export directory.
//
// Example usage:
//
//	exp := exporter.New("exports", true, logger)
//	path, err := exp.WriteFile(ctx, exporter.FormatParquet, "restaurants", snap)
package exporter
