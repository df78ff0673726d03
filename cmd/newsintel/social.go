package main

import (
	"github.com/spf13/cobra"

	"github.com/davecollins/newsintel/config"
)

func socialCMD(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "social",
		Short: "Find recent posts from monitored handles and store them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*cfgPath)
			if err != nil {
				return err
			}
			return runSocial(cmd.Context(), cfg)
		},
	}
}
