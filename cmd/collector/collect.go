package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"

	"github.com/spf13/cobra"

	"github.com/dustin/go-humanize"

	"github.com/joho/godotenv"

	"github.com/mattn/go-isatty"

	"github.com/mutagen-io/gopass"

	"github.com/gems-ir/collector/cmd"
	"github.com/gems-ir/collector/pkg/collection"
	"github.com/gems-ir/collector/pkg/logging"
	"github.com/gems-ir/collector/pkg/resource"
	"github.com/gems-ir/collector/pkg/vss"
)

// fallback returns the first non-empty value among the flag value, the named
// environment variable, and the default.
func fallback(value, variable, defaultValue string) string {
	if value != "" {
		return value
	}
	if value := os.Getenv(variable); value != "" {
		return value
	}
	return defaultValue
}

// defaultSource returns the default source root for the running platform.
func defaultSource() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

// archivePassword determines the archive password from flags, prompting with
// masked input if requested.
func archivePassword() (string, error) {
	if collectConfiguration.password != "" {
		return collectConfiguration.password, nil
	}
	if !collectConfiguration.promptPassword {
		return "", nil
	}
	fmt.Print("Enter archive password: ")
	response, err := gopass.GetPasswdMasked()
	if err != nil {
		return "", errors.Wrap(err, "unable to read response")
	}
	return string(response), nil
}

func collectMain(command *cobra.Command, arguments []string) {
	// Load defaults from an environment file, if one was specified.
	if collectConfiguration.envFile != "" {
		if err := godotenv.Load(collectConfiguration.envFile); err != nil {
			cmd.Fatal(errors.Wrap(err, "unable to load environment file"))
		}
	}

	// Resolve configuration, falling back to environment defaults.
	source := fallback(collectConfiguration.source, "COLLECTOR_SOURCE", defaultSource())
	destination := fallback(collectConfiguration.destination, "COLLECTOR_DESTINATION", "")
	resources := fallback(collectConfiguration.resources, "COLLECTOR_RESOURCES", "resources")
	if destination == "" {
		cmd.Fatal(errors.New("no destination specified"))
	}

	// Create the logger.
	logger := logging.RootLogger.Sublogger("collect")

	// Load the catalog and resolve the requested artifacts into patterns.
	catalog, err := resource.LoadCatalog(resources, logger)
	if err != nil {
		cmd.Fatal(errors.Wrap(err, "unable to load resources"))
	}
	patterns, err := catalog.Resolve(collectConfiguration.artifacts)
	if err != nil {
		cmd.Fatal(errors.Wrap(err, "unable to resolve artifacts"))
	}

	// Create the acquisition engine.
	engine, err := collection.NewCollector(source, destination, patterns, logger)
	if err != nil {
		cmd.Fatal(errors.Wrap(err, "unable to create collector"))
	}

	// Show per-file progress when attached to a terminal.
	var callback collection.ProgressCallback
	if isatty.IsTerminal(os.Stdout.Fd()) {
		callback = func(current, total uint64, path string) {
			fmt.Printf("(%d/%d) %s\n", current, total, path)
		}
	}

	// Run the live-volume collection.
	stats, err := engine.Collect(callback)
	if err != nil {
		engine.Close()
		cmd.Fatal(errors.Wrap(err, "collection failed"))
	}
	if err := engine.Close(); err != nil {
		cmd.Fatal(errors.Wrap(err, "unable to finalize manifest"))
	}

	// Collect from shadow copies, if requested.
	if collectConfiguration.vss {
		if !vss.Supported {
			cmd.Warning("shadow copies not supported on this platform, skipping")
		} else {
			drive := filepath.VolumeName(source) + `\`
			snapshots := vss.NewCollector(drive, destination, patterns, logger)
			if snapshotStats, err := snapshots.Collect(); err != nil {
				var noSnapshots *vss.NoSnapshotsError
				if errors.As(err, &noSnapshots) {
					cmd.Warning(err.Error())
				} else {
					cmd.Fatal(errors.Wrap(err, "snapshot collection failed"))
				}
			} else {
				stats.Merge(snapshotStats)
			}
		}
	}

	// Print the final report.
	fmt.Printf("Collected %d files (%s)\n", stats.FilesCollected, humanize.Bytes(stats.BytesCollected))
	fmt.Printf("  filesystem: %d  ntfs: %d  failed: %d  patterns: %d\n",
		stats.FilesystemExtractions, stats.NTFSExtractions,
		stats.FailedExtractions, stats.PatternsProcessed,
	)
	if stats.FailedExtractions > 0 {
		cmd.Warning(fmt.Sprintf("%d files could not be acquired", stats.FailedExtractions))
	}

	// Package the staged output, if requested.
	if collectConfiguration.archive {
		password, err := archivePassword()
		if err != nil {
			cmd.Fatal(err)
		}
		if err := engine.Stager().CreateArchive(password); err != nil {
			cmd.Fatal(errors.Wrap(err, "unable to create archive"))
		}
		fmt.Println("Archive created at", filepath.Join(destination, engine.Stager().FolderName()+".zip"))
	}
}

var collectCommand = &cobra.Command{
	Use:   "collect",
	Short: "Acquire the specified artifacts from a volume",
	Run:   collectMain,
}

var collectConfiguration struct {
	// help indicates the presence of the -h/--help flag.
	help bool
	// source is the source root to acquire from.
	source string
	// destination is the destination root for staged artifacts.
	destination string
	// resources is the artifact definition directory.
	resources string
	// artifacts is the list of requested artifact names.
	artifacts []string
	// vss requests an additional pass over the volume's shadow copies.
	vss bool
	// archive requests ZIP packaging of the staged output.
	archive bool
	// password is the archive password.
	password string
	// promptPassword requests a masked password prompt for the archive.
	promptPassword bool
	// envFile is an optional environment file providing defaults.
	envFile string
}

func init() {
	// Bind flags to configuration.
	flags := collectCommand.Flags()
	flags.BoolVarP(&collectConfiguration.help, "help", "h", false, "Show help information")
	flags.StringVarP(&collectConfiguration.source, "source", "s", "", "Source root to acquire from")
	flags.StringVarP(&collectConfiguration.destination, "destination", "d", "", "Destination root for staged artifacts")
	flags.StringVarP(&collectConfiguration.resources, "resources", "r", "", "Artifact definition directory")
	flags.StringSliceVarP(&collectConfiguration.artifacts, "artifacts", "a", nil, "Artifact names to acquire")
	flags.BoolVar(&collectConfiguration.vss, "vss", false, "Also acquire from volume shadow copies (Windows only)")
	flags.BoolVar(&collectConfiguration.archive, "zip", false, "Package the staged output into a ZIP archive")
	flags.StringVar(&collectConfiguration.password, "password", "", "Password for the ZIP archive")
	flags.BoolVar(&collectConfiguration.promptPassword, "prompt-password", false, "Prompt for the ZIP archive password")
	flags.StringVar(&collectConfiguration.envFile, "env-file", "", "Environment file providing configuration defaults")
}
