package manifest

import (
	"encoding/csv"
	"os"

	"github.com/pkg/errors"
)

// Writer appends records to a manifest file. The manifest is append-only: a
// header row is written on first creation and subsequent openings of an
// existing manifest continue after its last row.
type Writer struct {
	// file is the underlying manifest file.
	file *os.File
	// writer is the CSV encoder wrapping the file.
	writer *csv.Writer
}

// NewWriter opens (creating if necessary) the manifest at the specified path
// in append mode, emitting the header row if the manifest is empty.
func NewWriter(path string) (*Writer, error) {
	// Open the manifest for appending.
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open manifest %s", path)
	}

	// Create the writer.
	writer := &Writer{
		file:   file,
		writer: csv.NewWriter(file),
	}

	// Write the header row on first creation.
	if info, err := file.Stat(); err != nil {
		file.Close()
		return nil, errors.Wrap(err, "unable to probe manifest")
	} else if info.Size() == 0 {
		if err := writer.writeRow(header); err != nil {
			file.Close()
			return nil, errors.Wrap(err, "unable to write manifest header")
		}
	}

	// Success.
	return writer, nil
}

// writeRow writes and flushes a single row.
func (w *Writer) writeRow(row []string) error {
	if err := w.writer.Write(row); err != nil {
		return err
	}
	w.writer.Flush()
	return w.writer.Error()
}

// Write appends a single record to the manifest. Rows are flushed as they're
// written so that the manifest remains valid up to the point of any abort.
func (w *Writer) Write(record *Record) error {
	if err := w.writeRow(record.fields()); err != nil {
		return errors.Wrap(err, "unable to write manifest row")
	}
	return nil
}

// Close flushes and closes the manifest.
func (w *Writer) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return errors.Wrap(err, "unable to flush manifest")
	}
	return w.file.Close()
}
