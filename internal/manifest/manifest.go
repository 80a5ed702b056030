// Package manifest edits package.json dependency and script entries in
// place. Unknown top-level fields survive round trips untouched; the
// dependency maps are persisted with their keys in ascending lexicographic
// order and a stable 2-space indent.
//
// Operations are read-modify-write with no locking: concurrent writers to
// the same manifest are last-writer-wins.
package manifest

import (
	"encoding/json"
	"os"

	"github.com/conneroisu/plategen/internal/errors"
)

const (
	fieldDependencies    = "dependencies"
	fieldDevDependencies = "devDependencies"
	fieldScripts         = "scripts"
)

// AddDependency inserts or overwrites name -> version in the manifest at
// path. With dev set, devDependencies is created on demand; otherwise
// dependencies must already exist and its absence is a schema error.
func AddDependency(path, name, version string, dev bool) error {
	doc, err := readDoc(path)
	if err != nil {
		return err
	}

	field := fieldDependencies
	if dev {
		field = fieldDevDependencies
	}

	deps, ok, err := stringMap(doc, field, path)
	if err != nil {
		return err
	}
	if !ok {
		if !dev {
			return errors.ErrManifestSchema(path, fieldDependencies)
		}
		deps = make(map[string]string)
	}

	deps[name] = version

	if err := setField(doc, field, deps); err != nil {
		return err
	}

	return writeDoc(path, doc)
}

// AddScript inserts or overwrites scripts[name] = command in the manifest
// at path, creating the scripts map if absent.
func AddScript(path, name, command string) error {
	doc, err := readDoc(path)
	if err != nil {
		return err
	}

	scripts, ok, err := stringMap(doc, fieldScripts, path)
	if err != nil {
		return err
	}
	if !ok {
		scripts = make(map[string]string)
	}

	scripts[name] = command

	if err := setField(doc, fieldScripts, scripts); err != nil {
		return err
	}

	return writeDoc(path, doc)
}

// Dependencies returns the named dependency map from the manifest at path.
// A missing map is returned as nil, not an error.
func Dependencies(path string, dev bool) (map[string]string, error) {
	doc, err := readDoc(path)
	if err != nil {
		return nil, err
	}

	field := fieldDependencies
	if dev {
		field = fieldDevDependencies
	}

	deps, _, err := stringMap(doc, field, path)
	if err != nil {
		return nil, err
	}

	return deps, nil
}

// Scripts returns the scripts map from the manifest at path.
func Scripts(path string) (map[string]string, error) {
	doc, err := readDoc(path)
	if err != nil {
		return nil, err
	}

	scripts, _, err := stringMap(doc, fieldScripts, path)
	if err != nil {
		return nil, err
	}

	return scripts, nil
}

// readDoc loads the manifest as raw top-level fields so entries this
// package never touches are preserved byte-for-byte.
func readDoc(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ErrFileNotFound(path, err).WithComponent("manifest")
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewSchemaError(errors.ErrCodeManifestDecode, "manifest is not a JSON object").WithFile(path)
	}

	return doc, nil
}

func writeDoc(path string, doc map[string]json.RawMessage) error {
	// MarshalIndent sorts map keys, which maintains the lexicographic
	// ordering invariant on every persisted map.
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInternalError, "encoding manifest", err).WithFile(path)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.ErrFileWrite(path, err).WithComponent("manifest")
	}

	return nil
}

func stringMap(doc map[string]json.RawMessage, field, path string) (map[string]string, bool, error) {
	raw, ok := doc[field]
	if !ok {
		return nil, false, nil
	}

	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false, errors.NewSchemaError(
			errors.ErrCodeManifestDecode,
			"manifest field "+field+" is not a string map",
		).WithFile(path)
	}

	return m, true, nil
}

func setField(doc map[string]json.RawMessage, field string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInternalError, "encoding manifest field "+field, err)
	}

	doc[field] = raw

	return nil
}
