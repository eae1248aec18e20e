package mapping

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*MappingFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read mapping file %s", path)
	}

	mf, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}

	return mf, nil
}

// Parse parses YAML data into a MappingFile. Unknown keys are rejected; an
// empty document is an empty file.
func Parse(data []byte) (*MappingFile, error) {
	var mf MappingFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	err := dec.Decode(&mf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.WithHint(
			errors.Wrap(err, "parse mapping YAML"),
			`expected a "traits:" list of {axis, params, container, index, result|forward}`,
		)
	}

	// Apply defaults and normalize
	applyDefaults(&mf)

	return &mf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(mf *MappingFile) {
	if mf.Version == "" {
		mf.Version = CurrentVersion
	}

	for i := range mf.Traits {
		e := &mf.Traits[i]

		e.Container = strings.TrimSpace(e.Container)
		e.Result = strings.TrimSpace(e.Result)
		e.Forward = strings.TrimSpace(e.Forward)

		if e.Index.String() == "" {
			e.Index = Unbounded
		}

		for j, p := range e.Params {
			e.Params[j] = strings.TrimSpace(p)
		}
	}
}

// Marshal serializes a MappingFile to YAML.
func Marshal(mf *MappingFile) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(mf); err != nil {
		return nil, errors.Wrap(err, "encode mapping YAML")
	}

	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode mapping YAML")
	}

	return buf.Bytes(), nil
}

// WriteFile writes a MappingFile to the given path.
func WriteFile(mf *MappingFile, path string) error {
	data, err := Marshal(mf)
	if err != nil {
		return errors.Wrap(err, "marshal mapping")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write mapping file %s", path)
	}

	return nil
}
