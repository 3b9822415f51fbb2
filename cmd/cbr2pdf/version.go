package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of cbr2pdf",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cbr2pdf %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
