package exporter

import (
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"zomatour/pkg/contracts/domain"
)

// parquetFlushInterval bounds the rows buffered per row group
const parquetFlushInterval = 10000

// WriteParquet writes the restaurants as a Snappy compressed parquet file
func WriteParquet(w io.Writer, restaurants []domain.Restaurant) error {
	writer := parquet.NewGenericWriter[domain.Restaurant](w,
		parquet.Compression(&parquet.Snappy),
		parquet.CreatedBy("zomatour", "1", ""),
	)

	for start := 0; start < len(restaurants); start += parquetFlushInterval {
		end := start + parquetFlushInterval
		if end > len(restaurants) {
			end = len(restaurants)
		}
		if _, err := writer.Write(restaurants[start:end]); err != nil {
			writer.Close()
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
		if err := writer.Flush(); err != nil {
			writer.Close()
			return fmt.Errorf("failed to flush parquet row group: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
