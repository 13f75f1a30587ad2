package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v2"

	"zomatour/internal/charts"
	"zomatour/internal/cleaning"
	"zomatour/internal/config"
	"zomatour/internal/exporter"
	"zomatour/internal/infrastructure"
	"zomatour/internal/services"
)

var heading = color.New(color.FgYellow, color.Bold)

// newService builds a dashboard service without hub or metrics from the
// global flags
func newService(c *cli.Context) (*services.DashboardService, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if data := c.String("data"); data != "" {
		cfg.Dataset.File = data
	}
	// The CLI logs to stderr only
	cfg.Logging.FilePath = ""

	paths, err := cfg.ResolvePaths("")
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	logger := infrastructure.WithComponent(infrastructure.NewLogger(c.App.ErrWriter, c.String("log-level")), "cli")
	c.Context = infrastructure.EnsureTraceID(c.Context)
	return services.NewDashboardService(services.NewDashboardConfig(cfg, paths), nil, nil, logger), nil
}

func printTable(w io.Writer, title string, headers []string, rows [][]string) {
	heading.Fprintf(w, "\n%s\n", title)
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

func cleanCommand() *cli.Command {
	return &cli.Command{
		Name:  "clean",
		Usage: "Load and clean the dataset and print what cleaning dropped",
		Action: func(c *cli.Context) error {
			svc, err := newService(c)
			if err != nil {
				return err
			}
			stats, err := svc.Reload(c.Context)
			if err != nil {
				return err
			}

			printTable(c.App.Writer, "Cleaning "+stats.Source, []string{"step", "rows"}, [][]string{
				{"read", strconv.Itoa(stats.RowsRead)},
				{"duplicates dropped", strconv.Itoa(stats.DuplicatesDropped)},
				{"missing values dropped", strconv.Itoa(stats.NullRowsDropped)},
				{"unknown lookup keys dropped", strconv.Itoa(stats.UnknownKeysDropped)},
				{"invalid values dropped", strconv.Itoa(stats.InvalidRowsDropped)},
				{"over cost bound dropped", strconv.Itoa(stats.OverCostDropped)},
				{"kept", strconv.Itoa(stats.RowsKept)},
			})
			color.New(color.FgGreen).Fprintf(c.App.Writer, "Cleaned in %s\n", stats.Duration)
			return nil
		},
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Print every ranking of the dashboard as a table",
		Action: func(c *cli.Context) error {
			svc, err := newService(c)
			if err != nil {
				return err
			}
			tables, err := svc.ReportTables(c.Context)
			if err != nil {
				return err
			}
			for _, t := range tables {
				printTable(c.App.Writer, t.Name, t.Headers, t.Rows)
			}
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	formats := make([]string, 0, len(exporter.Formats()))
	for _, f := range exporter.Formats() {
		formats = append(formats, string(f))
	}

	return &cli.Command{
		Name:  "export",
		Usage: "Save the cleaned dataset, or the report tables, in the export directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   string(exporter.FormatCSV),
				Usage:   "Output format (" + strings.Join(formats, ", ") + ")",
			},
			&cli.StringFlag{
				Name:    "name",
				Aliases: []string{"n"},
				Value:   "zomato",
				Usage:   "File name, relative to the export directory",
			},
			&cli.StringFlag{
				Name:  "tables",
				Usage: "Write every report table as CSV into this directory instead",
			},
			&cli.BoolFlag{
				Name:  "append",
				Usage: "Append the dataset to an existing CSV file instead of replacing it",
			},
		},
		Action: func(c *cli.Context) error {
			svc, err := newService(c)
			if err != nil {
				return err
			}

			if dir := c.String("tables"); dir != "" {
				paths, err := svc.ExportTables(c.Context, dir)
				if err != nil {
					return err
				}
				for _, p := range paths {
					fmt.Fprintln(c.App.Writer, p)
				}
				return nil
			}

			if c.Bool("append") {
				if f, err := exporter.ParseFormat(c.String("format")); err != nil || f != exporter.FormatCSV {
					return fmt.Errorf("--append only supports %s", exporter.FormatCSV)
				}
				path, err := svc.AppendExport(c.Context, c.String("name"))
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, path)
				return nil
			}

			path, err := svc.ExportFile(c.Context, c.String("format"), c.String("name"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, path)
			return nil
		},
	}
}

func chartsCommand() *cli.Command {
	return &cli.Command{
		Name:  "charts",
		Usage: "Render every dashboard chart as PNG",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   "charts",
				Usage:   "Output directory",
			},
		},
		Action: func(c *cli.Context) error {
			svc, err := newService(c)
			if err != nil {
				return err
			}
			dir := c.String("out")
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create %s: %w", dir, err)
			}

			for _, id := range charts.IDs() {
				path := filepath.Join(dir, id.String()+".png")
				if err := writeChart(c, svc, id.String(), path); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, path)
			}
			return nil
		},
	}
}

func writeChart(c *cli.Context, svc *services.DashboardService, id, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := svc.Chart(c.Context, id, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func lookupsCommand() *cli.Command {
	return &cli.Command{
		Name:  "lookups",
		Usage: "Print the lookup tables used to clean the dataset",
		Action: func(c *cli.Context) error {
			w := c.App.Writer

			var rows [][]string
			for _, code := range cleaning.CountryCodes() {
				name, _ := cleaning.CountryName(code)
				rows = append(rows, []string{strconv.Itoa(code), name})
			}
			printTable(w, "Countries", []string{"code", "country"}, rows)

			rows = nil
			for _, hex := range cleaning.ColorHexes() {
				name, _ := cleaning.ColorName(hex)
				text, _ := cleaning.RatingText(name)
				rows = append(rows, []string{hex, name, text})
			}
			printTable(w, "Rating colors", []string{"hex", "color", "rating text"}, rows)

			rows = nil
			for _, currency := range cleaning.Currencies() {
				m, _ := cleaning.DollarMultiplier(currency)
				rows = append(rows, []string{currency, m.String()})
			}
			printTable(w, "Dollar multipliers", []string{"currency", "usd"}, rows)

			rows = nil
			for priceRange := 1; priceRange <= 4; priceRange++ {
				label, _ := cleaning.PriceType(priceRange)
				rows = append(rows, []string{strconv.Itoa(priceRange), label})
			}
			printTable(w, "Price types", []string{"price range", "type"}, rows)
			return nil
		},
	}
}
