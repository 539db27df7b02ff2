package collection

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mutagen-io/extstat"

	"github.com/gems-ir/collector/pkg/extraction"
	"github.com/gems-ir/collector/pkg/logging"
	"github.com/gems-ir/collector/pkg/manifest"
	"github.com/gems-ir/collector/pkg/privilege"
	"github.com/gems-ir/collector/pkg/staging"
)

// ProgressCallback is invoked once per file, before the file is processed,
// with the 1-based index of the file, the total file count, and the file's
// source path.
type ProgressCallback func(current, total uint64, path string)

// Collector acquires every file matching a pattern list beneath a source
// root into a staging directory, recording one manifest row per acquired
// file. A collector drives exactly one source (the live volume or one
// snapshot mount) and is not safe for concurrent use.
type Collector struct {
	// source is the source root.
	source string
	// patterns is the resolved pattern list.
	patterns []string
	// stager owns the staging directory.
	stager *staging.Stager
	// manifest is the manifest writer.
	manifest *manifest.Writer
	// stats accumulates counters for this collector.
	stats Stats
	// logger is the collector's logger.
	logger *logging.Logger
	// snapshotID is the identifier of the snapshot being acquired through,
	// if any.
	snapshotID string
	// snapshotDevice is the raw device path of the snapshot being acquired
	// through, if any.
	snapshotDevice string
}

// NewCollector creates a collector staging into a Collector_<hostname>
// subdirectory of the specified destination.
func NewCollector(source, destination string, patterns []string, logger *logging.Logger) (*Collector, error) {
	stager, err := staging.NewStager(destination)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create stager")
	}
	return NewCollectorWithStager(source, stager, patterns, logger)
}

// NewCollectorWithStager creates a collector over an existing stager.
func NewCollectorWithStager(source string, stager *staging.Stager, patterns []string, logger *logging.Logger) (*Collector, error) {
	writer, err := manifest.NewWriter(stager.ManifestPath())
	if err != nil {
		return nil, errors.Wrap(err, "unable to create manifest writer")
	}
	return &Collector{
		source:   source,
		patterns: patterns,
		stager:   stager,
		manifest: writer,
		logger:   logger,
	}, nil
}

// UseSnapshot redirects acquisition through a mounted shadow copy: raw-NTFS
// reads target the snapshot's device and destination paths substitute the
// source-root prefix with the snapshot identifier so that snapshots stage
// separately.
func (c *Collector) UseSnapshot(id, deviceVolumeName string) {
	c.snapshotID = id
	c.snapshotDevice = deviceVolumeName
}

// Stager returns the collector's stager.
func (c *Collector) Stager() *staging.Stager {
	return c.stager
}

// Stats returns a copy of the collector's current statistics.
func (c *Collector) Stats() Stats {
	return c.stats
}

// Close releases the collector's manifest writer.
func (c *Collector) Close() error {
	return c.manifest.Close()
}

// expandPatterns expands the pattern list against the source root, returning
// the matched regular files in glob-expansion order. Invalid patterns are
// skipped with a warning; matches that aren't regular files (or can't be
// probed) are skipped silently.
func (c *Collector) expandPatterns() []string {
	var files []string
	for _, pattern := range c.patterns {
		normalized := strings.TrimLeft(pattern, `/\`)
		matches, err := doublestar.FilepathGlob(filepath.Join(c.source, normalized))
		if err != nil {
			c.logger.Warnf("invalid pattern %q: %v", pattern, err)
			continue
		}
		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && info.Mode().IsRegular() {
				files = append(files, match)
			}
		}
	}
	return files
}

// CountFiles returns the number of files currently matching the pattern
// list, for use by interactive frontends before collection starts.
func (c *Collector) CountFiles() uint64 {
	return uint64(len(c.expandPatterns()))
}

// Collect acquires every file matching the pattern list, invoking the
// optional callback once per file. It refuses to run without elevated
// privileges, checked before any file is opened. Per-file failures are
// counted and logged but don't abort the collection.
func (c *Collector) Collect(callback ProgressCallback) (*Stats, error) {
	// Verify privileges before touching any file.
	if err := privilege.Require(); err != nil {
		return nil, err
	}

	// Expand the pattern list.
	c.logger.Printf("starting collection from %s", c.source)
	files := c.expandPatterns()
	c.stats.PatternsProcessed += uint64(len(c.patterns))
	total := uint64(len(files))
	c.logger.Printf("found %d files to collect", total)

	// Process each file sequentially in glob-expansion order.
	for index, file := range files {
		if callback != nil {
			callback(uint64(index)+1, total, file)
		}
		if err := c.processFile(file); err != nil {
			c.logger.Error(errors.Wrapf(err, "unable to process %s", file))
			c.stats.FailedExtractions++
		}
	}

	// Report the aggregate statistics.
	c.logger.Printf("collection complete: %d files (%d bytes)",
		c.stats.FilesCollected, c.stats.BytesCollected,
	)
	stats := c.stats
	return &stats, nil
}

// destinationRelativePath computes the destination-relative path for a
// source file: the source-root prefix is stripped so that only the relative
// structure below it is staged. When acquiring through a snapshot, the
// prefix is instead substituted with the snapshot identifier so that
// snapshots stage separately.
func (c *Collector) destinationRelativePath(source string) string {
	if c.snapshotID != "" {
		return strings.Replace(source, c.source, c.snapshotID, 1)
	}
	return strings.TrimPrefix(source, c.source)
}

// processFile acquires a single file and appends its manifest row.
func (c *Collector) processFile(source string) error {
	// Open the destination through the stager.
	relative := c.destinationRelativePath(source)
	destination, err := c.stager.CreateFile(relative)
	if err != nil {
		return err
	}

	// Extract, falling back to raw NTFS where supported. The destination
	// handle is scoped to this extraction.
	count, fromNTFS, err := extraction.ExtractFile(source, destination, c.snapshotDevice, c.logger)
	closeErr := destination.Close()
	if err != nil {
		return err
	} else if closeErr != nil {
		return errors.Wrap(closeErr, "unable to close destination")
	}

	// Update counters. Exactly one extraction counter is incremented per
	// acquired file.
	c.stats.FilesCollected++
	c.stats.BytesCollected += count
	if fromNTFS {
		c.stats.NTFSExtractions++
	} else {
		c.stats.FilesystemExtractions++
	}

	// Append the manifest row.
	return c.record(source, relative, fromNTFS)
}

// record hashes the staged copy and appends one manifest row for it.
func (c *Collector) record(source, relative string, fromNTFS bool) error {
	destination := c.stager.FilePath(relative)

	// When the raw-NTFS path was used, apply the source's times to the
	// destination before reading metadata so that the manifest reflects
	// origin times.
	if fromNTFS {
		if err := preserveSourceTimes(source, destination); err != nil {
			c.logger.Warnf("unable to preserve source times for %s: %v", source, err)
		}
	}

	// Read the destination metadata.
	info, err := os.Stat(destination)
	if err != nil {
		return errors.Wrapf(err, "unable to probe %s", destination)
	}
	times, err := extstat.NewFromFileName(destination)
	if err != nil {
		return errors.Wrapf(err, "unable to read times for %s", destination)
	}

	// Compute the destination hash.
	digest, err := hashFileSHA1(destination)
	if err != nil {
		return err
	}

	// Append the row.
	return c.manifest.Write(&manifest.Record{
		CollectTime:     time.Now().UTC().Format(time.RFC3339),
		SourceFile:      source,
		DestinationFile: destination,
		HashSHA1:        digest,
		FromNTFS:        fromNTFS,
		ModifiedTime:    times.ModTime.UTC().Format(time.RFC3339Nano),
		AccessTime:      times.AccessTime.UTC().Format(time.RFC3339Nano),
		FileSize:        uint64(info.Size()),
	})
}
