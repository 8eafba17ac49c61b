package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/talktyper"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of talktyper",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("talktyper version %s\n", strings.TrimSpace(talktyper.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
