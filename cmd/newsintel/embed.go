package main

import (
	"github.com/spf13/cobra"

	"github.com/davecollins/newsintel/config"
)

func embedCMD(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "embed",
		Short: "Score stored articles against the interest embeddings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(*cfgPath)
			if err != nil {
				return err
			}
			return runEmbed(cmd.Context(), cfg)
		},
	}
}
