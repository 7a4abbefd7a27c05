package cli

import (
	"fmt"
	"log/slog"

	"github.com/mchmarny/credpulse/pkg/data"
	"github.com/mchmarny/credpulse/pkg/pipeline"
	"github.com/urfave/cli/v2"
)

var predictCmd = &cli.Command{
	Name:    "predict",
	Aliases: []string{"p"},
	Usage:   "Score applicants with the most recent trained model",
	UsageText: `credpulse predict                       # score the stored applicants
   credpulse predict --file applicants.csv  # score records from CSV`,
	Action: cmdPredict,
	Flags: []cli.Flag{
		csvFileFlag,
	},
}

func cmdPredict(c *cli.Context) error {
	app := getConfig(c)

	run, err := data.GetLatestRun(app.DB)
	if err != nil {
		return fmt.Errorf("loading latest run: %w", err)
	}

	artifacts, err := pipeline.LoadArtifacts(run.Artifacts)
	if err != nil {
		return fmt.Errorf("restoring model artifacts: %w", err)
	}

	var apps []data.Applicant
	if path := c.String(csvFileFlag.Name); path != "" {
		if apps, err = data.LoadCSV(path); err != nil {
			return fmt.Errorf("loading csv: %w", err)
		}
	} else {
		if apps, err = data.ListApplicants(app.DB); err != nil {
			return fmt.Errorf("listing applicants: %w", err)
		}
	}

	preds, err := artifacts.Predict(apps)
	if err != nil {
		return fmt.Errorf("predicting: %w", err)
	}

	slog.Debug("scored applicants", "run", run.ID, "count", len(preds))
	return encode(preds)
}
