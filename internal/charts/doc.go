// Package charts renders the dashboard charts as PNG images with gonum/plot.
//
// Every chart has a stable ChartID. Build maps an ID to a BarChart or a
// PieChart filled from the report pages, and a Renderer turns it into an
// image. Bars can carry their own colors, value labels and a dashed
// reference line; pies label each wedge with its percentage.
package charts
