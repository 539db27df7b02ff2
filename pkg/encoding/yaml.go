package encoding

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"

	"gopkg.in/yaml.v2"
)

// LoadAndUnmarshalYAML loads data from the specified path and decodes it into
// the specified structure, rejecting any fields not present in the structure.
func LoadAndUnmarshalYAML(path string, value interface{}) error {
	return LoadAndUnmarshal(path, func(data []byte) error {
		return yaml.UnmarshalStrict(data, value)
	})
}

// LoadYAMLDocuments loads the file at the specified path and splits it into
// its constituent YAML documents, returning the re-encoded bytes of each
// non-empty document. Documents are only checked for well-formedness at this
// stage, so individual documents can subsequently be decoded (and rejected)
// independently. A syntax error anywhere in the stream invalidates the whole
// file.
func LoadYAMLDocuments(path string) ([][]byte, error) {
	// Grab the file contents.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load file")
	}

	// Split the stream into documents.
	var documents [][]byte
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	for {
		// Decode the next document generically.
		var document interface{}
		if err := decoder.Decode(&document); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, "unable to parse document stream")
		}

		// Skip empty documents.
		if document == nil {
			continue
		}

		// Re-encode the document so that it can be decoded on its own.
		encoded, err := yaml.Marshal(document)
		if err != nil {
			return nil, errors.Wrap(err, "unable to re-encode document")
		}
		documents = append(documents, encoded)
	}

	// Success.
	return documents, nil
}
