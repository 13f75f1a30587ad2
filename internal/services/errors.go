package services

import (
	"errors"

	"zomatour/internal/charts"
	"zomatour/internal/exporter"
)

// Dashboard service errors
var (
	// Dataset errors
	ErrDatasetNotLoaded = errors.New("dataset not loaded")

	// Chart errors
	ErrUnknownChart = charts.ErrUnknownChart

	// Export errors
	ErrUnsupportedFormat = exporter.ErrUnsupportedFormat

	// General errors
	ErrInvalidLimit = errors.New("invalid limit")
)
