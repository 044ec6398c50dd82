package main

import (
	"os"

	"github.com/spf13/cobra"

	"vita/internal/cli/assess"
	"vita/internal/cli/catalog"
	"vita/internal/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "vita",
		Short:        "Vita - diabetes risk check",
		Long:         `Vita runs a five-step diabetes risk check in English or Arabic, as a web service or in the terminal.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		assess.NewCommand(),
		catalog.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
