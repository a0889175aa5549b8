package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/mindpages"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mindpages",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mindpages version %s\n", strings.TrimSpace(mindpages.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
