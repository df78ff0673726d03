package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/spf13/cobra"

	"github.com/davecollins/newsintel/config"
)

func serveCMD(cfgPath *string) *cobra.Command {
	var cronSpec string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the pipeline on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*cfgPath)
			if err != nil {
				return err
			}
			if cronSpec == "" {
				cronSpec = cfg.Schedule.Cron
			}
			if cronSpec == "" {
				return errors.New("no schedule: set schedule.cron or pass --cron")
			}
			expr, err := cronexpr.Parse(cronSpec)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serveLoop(ctx, cfg, expr)
		},
	}
	serve.Flags().StringVar(&cronSpec, "cron", "", "cron expression (overrides schedule.cron)")
	return serve
}

func serveLoop(ctx context.Context, cfg *config.Config, expr *cronexpr.Expression) error {
	for {
		next := expr.Next(time.Now())
		if next.IsZero() {
			return errors.New("cron expression yields no future run")
		}
		log.Printf("[serve] next run at %s", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			log.Printf("[serve] shutting down")
			return nil
		case <-time.After(time.Until(next)):
		}

		runCtx := ctx
		if cfg.General.RunTimeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, cfg.General.RunTimeout)
			if err := newPipeline(cfg, false).Run(runCtx); err != nil {
				log.Printf("[serve] run failed: %v", err)
			}
			cancel()
		} else if err := newPipeline(cfg, false).Run(runCtx); err != nil {
			log.Printf("[serve] run failed: %v", err)
		}
	}
}
