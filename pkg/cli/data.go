package cli

import (
	"fmt"
	"log/slog"

	"github.com/mchmarny/credpulse/pkg/data"
	"github.com/urfave/cli/v2"
)

const runListLimitDefault = 20

var (
	csvFileFlag = &cli.StringFlag{
		Name:  "file",
		Usage: "Path to a CSV file with applicant records",
	}

	freshFlag = &cli.BoolFlag{
		Name:  "fresh",
		Usage: "Clear previously loaded applicants first",
	}

	runLimitFlag = &cli.IntFlag{
		Name:  "limit",
		Usage: "Limits number of runs returned",
		Value: runListLimitDefault,
	}

	dataCmd = &cli.Command{
		Name:    "data",
		Aliases: []string{"d"},
		Usage:   "Manage the applicant dataset",
		Subcommands: []*cli.Command{
			{
				Name:  "load",
				Usage: "Load applicants from a CSV file, or the bundled sample set when no file is given",
				UsageText: `credpulse data load                      # load the bundled 12-row sample
   credpulse data load --file applicants.csv # load records from CSV
   credpulse data load --fresh               # replace previously loaded records`,
				Action: cmdDataLoad,
				Flags: []cli.Flag{
					csvFileFlag,
					freshFlag,
				},
			},
			{
				Name:   "list",
				Usage:  "List loaded applicants",
				Action: cmdDataList,
			},
			{
				Name:   "runs",
				Usage:  "List training runs",
				Action: cmdDataRuns,
				Flags: []cli.Flag{
					runLimitFlag,
				},
			},
		},
	}
)

func cmdDataLoad(c *cli.Context) error {
	cfg := getConfig(c)

	list := data.SampleApplicants
	if path := c.String(csvFileFlag.Name); path != "" {
		var err error
		if list, err = data.LoadCSV(path); err != nil {
			return fmt.Errorf("loading csv: %w", err)
		}
	}

	if c.Bool(freshFlag.Name) {
		if err := data.ClearApplicants(cfg.DB); err != nil {
			return fmt.Errorf("clearing applicants: %w", err)
		}
	}

	if err := data.SaveApplicants(cfg.DB, list); err != nil {
		return fmt.Errorf("saving applicants: %w", err)
	}

	total, err := data.CountApplicants(cfg.DB)
	if err != nil {
		return fmt.Errorf("counting applicants: %w", err)
	}
	slog.Info("applicants loaded", "added", len(list), "total", total)
	return nil
}

func cmdDataList(c *cli.Context) error {
	cfg := getConfig(c)

	list, err := data.ListApplicants(cfg.DB)
	if err != nil {
		return fmt.Errorf("listing applicants: %w", err)
	}
	return encode(list)
}

func cmdDataRuns(c *cli.Context) error {
	cfg := getConfig(c)

	list, err := data.ListRuns(cfg.DB, c.Int(runLimitFlag.Name))
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	return encode(list)
}
