package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssosweep/ssosweep/internal/config"
	"github.com/ssosweep/ssosweep/internal/util"
)

var (
	Version  string = "0.1.0"
	Revision string = "dev"
)

func init() {
	RootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: fmt.Sprintf("Get version number %s", config.SELF_NAME),
	Long:  `Version and Revision number of the installed CLI`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Version: %s\nRevision: %s\n", Version, Revision)
		util.CleanExit()
	},
}
