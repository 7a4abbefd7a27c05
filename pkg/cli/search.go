package cli

import (
	"fmt"

	"github.com/mchmarny/credpulse/pkg/data"
	"github.com/mchmarny/credpulse/pkg/pipeline"
	"github.com/urfave/cli/v2"
)

var (
	trialsFlag = &cli.IntFlag{
		Name:  "trials",
		Usage: "Overrides the configured number of search trials",
	}

	searchCmd = &cli.Command{
		Name:    "search",
		Aliases: []string{"s"},
		Usage:   "Run architecture search over the model space and keep the best candidate",
		Action:  cmdSearch,
		Flags: []cli.Flag{
			trialsFlag,
			seedFlag,
		},
	}
)

func cmdSearch(c *cli.Context) error {
	app := getConfig(c)
	cfg := applyOverrides(c, app.Cfg)
	if v := c.Int(trialsFlag.Name); v > 0 {
		cfg.Search.Trials = v
	}

	apps, err := labeledApplicants(app.DB)
	if err != nil {
		return err
	}

	res, err := pipeline.RunSearch(cfg, apps)
	if err != nil {
		return fmt.Errorf("running search pipeline: %w", err)
	}

	if err := saveRun(app.DB, data.RunVariantSearch, res.SearchReport.Best.Params, res); err != nil {
		return err
	}
	return encode(res)
}
