package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/dtnsim/routing"
)

var routersCmd = &cobra.Command{
	Use:   "routers",
	Short: "List the available forwarding strategies.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, name := range routing.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func init() {
	rootCmd.AddCommand(routersCmd)
}
