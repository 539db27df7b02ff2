package vss

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/google/uuid"

	"github.com/gems-ir/collector/pkg/collection"
	"github.com/gems-ir/collector/pkg/logging"
	"github.com/gems-ir/collector/pkg/privilege"
)

// Collector drives artifact acquisition against every shadow copy of a
// volume. Snapshots are mounted one at a time beneath a temporary workspace
// that is removed on all exit paths.
type Collector struct {
	// driveLetter is the drive letter whose volume is being collected.
	driveLetter string
	// destination is the destination root for staged artifacts.
	destination string
	// patterns is the resolved pattern list.
	patterns []string
	// logger is the collector's logger.
	logger *logging.Logger
	// workspace is the temporary mount workspace, if one has been created.
	workspace string
}

// NewCollector creates a snapshot collector for the volume backing the
// specified drive letter.
func NewCollector(driveLetter, destination string, patterns []string, logger *logging.Logger) *Collector {
	return &Collector{
		driveLetter: driveLetter,
		destination: destination,
		patterns:    patterns,
		logger:      logger,
	}
}

// Collect enumerates the volume's shadow copies, mounts each beneath a
// temporary workspace, runs acquisition against the mount, and returns the
// aggregated statistics. Per-snapshot failures are logged and skipped;
// enumeration failures abort. The workspace is cleaned up unconditionally.
func (c *Collector) Collect() (*collection.Stats, error) {
	// Verify privileges before driving the shadow-copy service.
	if err := privilege.Require(); err != nil {
		return nil, err
	}

	// Enumerate the volume's snapshots.
	snapshots, err := Snapshots(c.driveLetter)
	if err != nil {
		return nil, err
	}
	c.logger.Printf("found %d shadow copies for %s", len(snapshots), c.driveLetter)

	// Create the temporary mount workspace and ensure its cleanup on all
	// exit paths.
	workspace := filepath.Join(os.TempDir(), uuid.New().String())
	if err := os.MkdirAll(workspace, 0700); err != nil {
		return nil, errors.Wrap(err, "unable to create mount workspace")
	}
	c.workspace = workspace
	defer c.Cleanup()

	// Process each snapshot sequentially.
	merged := &collection.Stats{}
	for _, snapshot := range snapshots {
		c.logger.Printf("processing snapshot %s", snapshot.ID())
		stats, err := c.collectFromSnapshot(&snapshot, workspace)
		if err != nil {
			c.logger.Error(errors.Wrapf(err, "unable to collect from snapshot %s", snapshot.ID()))
			continue
		}
		merged.Merge(stats)
	}

	// Success.
	return merged, nil
}

// collectFromSnapshot mounts a single snapshot and runs acquisition against
// the mount point.
func (c *Collector) collectFromSnapshot(snapshot *Snapshot, workspace string) (*collection.Stats, error) {
	// Mount the snapshot.
	mountPoint, err := Mount(snapshot, workspace)
	if err != nil {
		return nil, err
	}

	// Run acquisition through the mount, redirecting raw reads to the
	// snapshot device and staging beneath the snapshot identifier.
	engine, err := collection.NewCollector(mountPoint, c.destination, c.patterns, c.logger)
	if err != nil {
		return nil, err
	}
	defer engine.Close()
	engine.UseSnapshot(snapshot.ID(), snapshot.DeviceVolumeName)
	return engine.Collect(nil)
}

// Cleanup removes the temporary mount workspace if one exists. It is safe to
// call repeatedly and is invoked on all exit paths of Collect; failures are
// logged, not raised.
func (c *Collector) Cleanup() {
	if c.workspace == "" {
		return
	}
	if err := os.RemoveAll(c.workspace); err != nil {
		c.logger.Warnf("unable to remove mount workspace %s: %v", c.workspace, err)
		return
	}
	c.workspace = ""
}
