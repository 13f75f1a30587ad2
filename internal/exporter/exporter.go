package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apierrors "zomatour/internal/errors"
)

// Format is an export file format
type Format string

// Supported formats
const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
	FormatSQLite  Format = "sqlite"
)

// ErrUnsupportedFormat is returned for an unknown format name
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Formats lists the supported formats
func Formats() []Format {
	return []Format{FormatCSV, FormatXLSX, FormatParquet, FormatSQLite}
}

// ParseFormat parses a case-insensitive format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	if f == FormatSQLite {
		return ".db"
	}
	return "." + string(f)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatSQLite:
		return "application/vnd.sqlite3"
	default:
		return "application/octet-stream"
	}
}

// Exporter writes dataset snapshots in every supported format
type Exporter struct {
	dir    string
	bom    bool
	csv    *CSVWriter
	logger *slog.Logger
}

// New creates an exporter writing files into dir. bom prefixes CSV output
// with a UTF-8 byte order mark.
func New(dir string, bom bool, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &Exporter{
		dir:    dir,
		bom:    bom,
		csv:    NewCSVWriter(dir, logger),
		logger: logger,
	}
}

// Dir returns the export directory
func (e *Exporter) Dir() string {
	return e.dir
}

// Write streams a snapshot in format f to w
func (e *Exporter) Write(ctx context.Context, f Format, w io.Writer, snap Snapshot) error {
	switch f {
	case FormatCSV:
		return e.csv.WriteTo(w, WriteOptions{
			Headers:   RestaurantHeader,
			Records:   restaurantRecords(snap),
			BOMPrefix: e.bom,
		})
	case FormatXLSX:
		return WriteWorkbook(w, snap)
	case FormatParquet:
		return WriteParquet(w, snap.Restaurants)
	case FormatSQLite:
		// sqlite needs a real file to build the database in
		tmp, err := os.MkdirTemp("", "zomatour-export-*")
		if err != nil {
			return apierrors.NewStorageError("failed to create temp dir", err)
		}
		defer os.RemoveAll(tmp)

		path := filepath.Join(tmp, "restaurants.db")
		if err := WriteSQLite(ctx, path, snap.Restaurants); err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return apierrors.NewStorageError("failed to open database", err).WithContext("path", path)
		}
		defer file.Close()
		if _, err := io.Copy(w, file); err != nil {
			return fmt.Errorf("failed to copy database: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// WriteFile writes a snapshot to name inside the export directory, adding
// the format's extension when name has none. It returns the full path.
func (e *Exporter) WriteFile(ctx context.Context, f Format, name string, snap Snapshot) (string, error) {
	path := e.filePath(name, f)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apierrors.NewStorageError("failed to create export directory", err).WithContext("path", path)
	}

	var err error
	switch f {
	case FormatSQLite:
		err = WriteSQLite(ctx, path, snap.Restaurants)
	case FormatCSV:
		err = e.streamCSV(ctx, path, snap)
	default:
		err = e.createFile(ctx, f, path, snap)
	}
	if err != nil {
		return "", err
	}

	e.logger.InfoContext(ctx, "snapshot exported",
		slog.String("format", string(f)),
		slog.String("path", path),
		slog.Int("restaurants", len(snap.Restaurants)))
	return path, nil
}

// AppendFile appends the snapshot's restaurants to the CSV file name inside
// the export directory. A missing file is created with a header first.
func (e *Exporter) AppendFile(ctx context.Context, name string, snap Snapshot) (string, error) {
	path := e.filePath(name, FormatCSV)
	if !fileExists(path) {
		return e.WriteFile(ctx, FormatCSV, name, snap)
	}

	if err := e.csv.AppendToCSV(path, restaurantRecords(snap)); err != nil {
		return "", apierrors.NewStorageError("failed to append to CSV file", err).WithContext("path", path)
	}

	e.logger.InfoContext(ctx, "snapshot appended",
		slog.String("path", path),
		slog.Int("restaurants", len(snap.Restaurants)))
	return path, nil
}

// streamCSV writes one record per restaurant without building the whole
// document in memory
func (e *Exporter) streamCSV(ctx context.Context, path string, snap Snapshot) error {
	stream, err := e.csv.CreateStreamWriter(path, RestaurantHeader, e.bom)
	if err != nil {
		return apierrors.NewStorageError("failed to create CSV file", err).WithContext("path", path)
	}

	for _, r := range snap.Restaurants {
		if err := ctx.Err(); err != nil {
			stream.Close()
			return err
		}
		if err := stream.WriteRecord(RestaurantRecord(r)); err != nil {
			stream.Close()
			return apierrors.NewStorageError("failed to write CSV record", err).
				WithContext("path", path).
				WithContext("restaurant_id", r.RestaurantID)
		}
	}

	if err := stream.Close(); err != nil {
		return apierrors.NewStorageError("failed to close CSV file", err).WithContext("path", path)
	}
	e.logger.DebugContext(ctx, "CSV stream closed", slog.Int("records", stream.Count()))
	return nil
}

func (e *Exporter) createFile(ctx context.Context, f Format, path string, snap Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return apierrors.NewStorageError("failed to create file", err).WithContext("path", path)
	}
	if err := e.Write(ctx, f, file, snap); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return apierrors.NewStorageError("failed to close file", err).WithContext("path", path)
	}
	return nil
}

// filePath resolves name against the export directory and adds the
// format's extension when name has none. The result is absolute so the
// CSV writer does not resolve it a second time.
func (e *Exporter) filePath(name string, f Format) string {
	if filepath.Ext(name) == "" {
		name += f.Extension()
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.dir, name)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteTables writes every report table as its own CSV file in dir,
// relative to the export directory
func (e *Exporter) WriteTables(dir string, tables []Table) ([]string, error) {
	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		name := filepath.Join(dir, fileSlug(t.Name)+".csv")
		if err := e.csv.WriteCSV(name, WriteOptions{Headers: t.Headers, Records: t.Rows, BOMPrefix: e.bom}); err != nil {
			return paths, fmt.Errorf("failed to write table %s: %w", t.Name, err)
		}
		paths = append(paths, e.csv.resolvePath(name))
	}
	return paths, nil
}

func restaurantRecords(snap Snapshot) [][]string {
	records := make([][]string, len(snap.Restaurants))
	for i, r := range snap.Restaurants {
		records[i] = RestaurantRecord(r)
	}
	return records
}

func fileSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
