// Command riskflow runs a single analysis from the command line and prints
// the result bundle as JSON or one table as CSV.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "riskflow",
	Short:         "Supply chain resilience analysis over daily equity prices",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
