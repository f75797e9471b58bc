// Package cmd provides the command-line interface for dtnsim.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dtnsim",
	Short: "dtnsim simulates delay-tolerant networks of mobile nodes.",
	Long: `dtnsim simulates delay-tolerant networks of mobile nodes. Nodes ` +
		`carry messages and hand them over when they meet, following a ` +
		`pluggable forwarding strategy.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
