package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskflow/taskflow/util"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version of TaskFlow",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(util.Version())
	},
}
