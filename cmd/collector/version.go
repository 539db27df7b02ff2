package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gems-ir/collector/pkg/collector"
)

func versionMain(command *cobra.Command, arguments []string) {
	// Print version information.
	fmt.Println(collector.Version)
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run:   versionMain,
}

var versionConfiguration struct {
	// help indicates the presence of the -h/--help flag.
	help bool
}

func init() {
	// Bind flags to configuration.
	flags := versionCommand.Flags()
	flags.BoolVarP(&versionConfiguration.help, "help", "h", false, "Show help information")
}
