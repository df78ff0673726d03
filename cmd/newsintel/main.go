package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	root := &cobra.Command{
		Use:   "newsintel",
		Short: "Collect, score and deliver relevant news",
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	root.AddCommand(
		collectCMD(&cfgPath),
		socialCMD(&cfgPath),
		embedCMD(&cfgPath),
		notifyCMD(&cfgPath),
		runCMD(&cfgPath),
		serveCMD(&cfgPath),
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
