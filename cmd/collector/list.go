package main

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/gems-ir/collector/cmd"
	"github.com/gems-ir/collector/pkg/logging"
	"github.com/gems-ir/collector/pkg/resource"
)

func listMain(command *cobra.Command, arguments []string) {
	// Resolve the resource directory.
	resources := fallback(listConfiguration.resources, "COLLECTOR_RESOURCES", "resources")

	// Load the catalog.
	catalog, err := resource.LoadCatalog(resources, logging.RootLogger.Sublogger("list"))
	if err != nil {
		cmd.Fatal(errors.Wrap(err, "unable to load resources"))
	}

	// Print the catalog.
	fmt.Printf("%-32s %-16s %-6s %s\n", "NAME", "CATEGORY", "KIND", "DESCRIPTION")
	for _, name := range catalog.Names() {
		definition, _ := catalog.Lookup(name)
		kind := "path"
		if definition.IsGroup() {
			kind = "group"
		}
		fmt.Printf("%-32s %-16s %-6s %s\n", name, definition.Category(), kind, definition.Metadata.Description)
	}
}

var listCommand = &cobra.Command{
	Use:   "list",
	Short: "List the artifacts available for collection",
	Run:   listMain,
}

var listConfiguration struct {
	// help indicates the presence of the -h/--help flag.
	help bool
	// resources is the artifact definition directory.
	resources string
}

func init() {
	// Bind flags to configuration.
	flags := listCommand.Flags()
	flags.BoolVarP(&listConfiguration.help, "help", "h", false, "Show help information")
	flags.StringVarP(&listConfiguration.resources, "resources", "r", "", "Artifact definition directory")
}
