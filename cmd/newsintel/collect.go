package main

import (
	"github.com/spf13/cobra"

	"github.com/davecollins/newsintel/config"
)

func collectCMD(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Fetch configured news sources and store new articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*cfgPath)
			if err != nil {
				return err
			}
			return runCollect(cmd.Context(), cfg)
		},
	}
}
