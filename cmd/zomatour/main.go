// Zomatour CLI - offline access to the restaurant dashboard
//
// Usage:
//
//	zomatour clean   [--config config.yaml]
//	zomatour report
//	zomatour export  --format parquet [--name snapshot] [--tables dir]
//	zomatour export  --append --name history
//	zomatour charts  --out charts/
//	zomatour lookups
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"zomatour/pkg/contracts"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "zomatour",
		Usage:   "Clean the Zomato restaurant dataset and print, export or chart its reports",
		Version: contracts.GetFullVersionString(),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file (defaults and ZOMATO_* variables otherwise)",
				EnvVars: []string{"ZOMATO_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "Override the dataset file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "Log level (debug, info, warn, error)",
			},
		},

		Commands: []*cli.Command{
			cleanCommand(),
			reportCommand(),
			exportCommand(),
			chartsCommand(),
			lookupsCommand(),
		},
	}
}
