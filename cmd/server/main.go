package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "miseai",
		Short:         "MiseAI chef assistant backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")

	serve := newServeCmd(&envFiles)
	root.AddCommand(serve, newGenerateCmd(&envFiles), newOCRCmd(&envFiles))
	// Running the binary without a subcommand starts the server.
	root.RunE = serve.RunE
	return root
}
