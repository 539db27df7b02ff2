package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gems-ir/collector/pkg/collector"
)

func rootMain(command *cobra.Command, arguments []string) {
	// Print version information, if requested.
	if rootConfiguration.version {
		fmt.Println(collector.Version)
		return
	}

	// If no flags were set, then print help information and bail. Arguments
	// can't reach this point because they will be mistaken for subcommands
	// and an error will be displayed.
	command.Help()
}

var rootCommand = &cobra.Command{
	Use:   "collector",
	Short: "Collector acquires forensic artifacts into a staged, hashed evidence tree.",
	Run:   rootMain,
}

var rootConfiguration struct {
	// help indicates the presence of the -h/--help flag.
	help bool
	// version indicates the presence of the -V/--version flag.
	version bool
}

func init() {
	// Bind flags to configuration. We manually add help to override the
	// default message, but Cobra still implements it automatically.
	flags := rootCommand.Flags()
	flags.BoolVarP(&rootConfiguration.help, "help", "h", false, "Show help information")
	flags.BoolVarP(&rootConfiguration.version, "version", "V", false, "Show version information")

	// Disable Cobra's command sorting behavior. By default, it sorts
	// commands alphabetically in the help output.
	cobra.EnableCommandSorting = false

	// Register commands. We do this here (rather than in individual init
	// functions) so that we can control the order.
	rootCommand.AddCommand(
		collectCommand,
		listCommand,
		versionCommand,
	)
}

func main() {
	// Execute the root command.
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
