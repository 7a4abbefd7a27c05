package cli

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mchmarny/credpulse/pkg/config"
	"github.com/mchmarny/credpulse/pkg/data"
	"github.com/mchmarny/credpulse/pkg/pipeline"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

var (
	epochsFlag = &cli.IntFlag{
		Name:  "epochs",
		Usage: "Overrides the configured epoch budget",
	}

	seedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "Overrides the configured split/training seed",
	}

	trainCmd = &cli.Command{
		Name:    "train",
		Aliases: []string{"t"},
		Usage:   "Train the two-branch classifier and evaluate it on the held-out partition",
		Action:  cmdTrain,
		Flags: []cli.Flag{
			epochsFlag,
			seedFlag,
		},
	}
)

func cmdTrain(c *cli.Context) error {
	app := getConfig(c)
	cfg := applyOverrides(c, app.Cfg)

	apps, err := labeledApplicants(app.DB)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(cfg, apps)
	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}

	if err := saveRun(app.DB, data.RunVariantTrain, cfg.Model, res); err != nil {
		return err
	}
	return encode(res)
}

// labeledApplicants loads stored records and drops any without a
// label, which are prediction-only inputs.
func labeledApplicants(db *sql.DB) ([]data.Applicant, error) {
	list, err := data.ListApplicants(db)
	if err != nil {
		return nil, fmt.Errorf("listing applicants: %w", err)
	}

	labeled := make([]data.Applicant, 0, len(list))
	for _, a := range list {
		if a.Repaid >= 0 {
			labeled = append(labeled, a)
		}
	}
	if len(labeled) == 0 {
		return nil, fmt.Errorf("no labeled applicants loaded, run 'credpulse data load' first")
	}
	return labeled, nil
}

func applyOverrides(c *cli.Context, cfg *config.Config) *config.Config {
	out := *cfg
	if v := c.Int(epochsFlag.Name); v > 0 {
		out.Model.Epochs = v
	}
	if v := c.Int64(seedFlag.Name); v > 0 {
		out.Split.Seed = v
		out.Model.Seed = v
	}
	return &out
}

func saveRun(db *sql.DB, variant string, params any, res *pipeline.Result) error {
	b, err := res.Artifacts.Marshal()
	if err != nil {
		return fmt.Errorf("serializing artifacts: %w", err)
	}
	p, err := yaml.Marshal(params)
	if err != nil {
		return fmt.Errorf("serializing run params: %w", err)
	}

	trainLoss := 0.0
	epochs := 0
	if n := len(res.Report.History); n > 0 {
		trainLoss = res.Report.History[n-1].TrainLoss
		epochs = n
	}

	id, err := data.SaveRun(db, &data.Run{
		Variant:      variant,
		Params:       string(p),
		Epochs:       epochs,
		TrainLoss:    trainLoss,
		TestAccuracy: res.TestAccuracy,
		Artifacts:    b,
	})
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	slog.Info("run saved", "id", id, "variant", variant, "test_accuracy", res.TestAccuracy)
	return nil
}
