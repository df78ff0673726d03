package main

import (
	"github.com/spf13/cobra"

	"github.com/davecollins/newsintel/config"
)

func notifyCMD(cfgPath *string) *cobra.Command {
	var dryRun bool
	notify := &cobra.Command{
		Use:   "notify",
		Short: "Email the digest of newly relevant articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*cfgPath)
			if err != nil {
				return err
			}
			return runNotify(cmd.Context(), cfg, dryRun)
		},
	}
	notify.Flags().BoolVar(&dryRun, "dry-run", false, "print the digest instead of sending it")
	return notify
}
