package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	codemaster "github.com/codemaster-ai/codemaster"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of codemaster",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("codemaster version %s\n", strings.TrimSpace(codemaster.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
