package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/davecollins/newsintel/config"
	"github.com/davecollins/newsintel/internal/pipeline"
)

func newPipeline(cfg *config.Config, dryRun bool) *pipeline.Pipeline {
	return pipeline.New(
		pipeline.Stage{Name: "collect", Run: func(ctx context.Context) error {
			return runCollect(ctx, cfg)
		}},
		pipeline.Stage{Name: "social", Run: func(ctx context.Context) error {
			return runSocial(ctx, cfg)
		}},
		pipeline.Stage{Name: "embed", Run: func(ctx context.Context) error {
			return runEmbed(ctx, cfg)
		}},
		pipeline.Stage{Name: "notify", Run: func(ctx context.Context) error {
			return runNotify(ctx, cfg, dryRun)
		}},
	)
}

func runCMD(cfgPath *string) *cobra.Command {
	var dryRun bool
	run := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*cfgPath)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if cfg.General.RunTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.General.RunTimeout)
				defer cancel()
			}
			return newPipeline(cfg, dryRun).Run(ctx)
		},
	}
	run.Flags().BoolVar(&dryRun, "dry-run", false, "print the digest instead of sending it")
	return run
}
