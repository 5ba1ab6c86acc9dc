package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "dev"
	// BuildTime is set at build time
	BuildTime = "unknown"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display Dossiers version information",
		Long:  `Display the current version of Dossiers along with build information.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Dossiers version %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Built at: %s\n", BuildTime)
		},
	}
}
