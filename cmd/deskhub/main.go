package main

import (
	"os"

	"github.com/spf13/cobra"

	"deskhub/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "deskhub",
		Short: "Deskhub - multi-backend helpdesk aggregation service",
		Long:  `Deskhub aggregates tickets and service catalogs from the legacy SOAP desk and any number of REST ticket desks, serving them through a shared stale-while-revalidate cache.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
