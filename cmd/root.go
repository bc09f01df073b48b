package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"mydata-tools/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "mydata-tools",
	Short: "myDATA CLI - fetch invoice data and build quantity reports",
	Long: `myDATA CLI retrieves invoice documents from the AADE myDATA API and
turns their line items into per-day quantity reports.

Credentials are read from the environment (or a .env file):
  MYDATA_USER_ID - the aade-user-id request header
  MYDATA_API_KEY - the Ocp-Apim-Subscription-Key request header`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("myDATA CLI executed")

		fmt.Println("Welcome to myDATA CLI!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
