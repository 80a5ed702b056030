package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/plategen/internal/errors"
)

const sampleManifest = `{
  "name": "myapp",
  "version": "1.0.0",
  "dependencies": {
    "express": "^4.16.2",
    "body-parser": "^1.18.2"
  },
  "scripts": {
    "start": "node server.js"
  }
}
`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAddDependency(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	require.NoError(t, AddDependency(path, "x", "1.0.0", false))

	deps, err := Dependencies(path, false)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", deps["x"])
	assert.Equal(t, "^4.16.2", deps["express"])
}

func TestAddDependencyKeysSorted(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	require.NoError(t, AddDependency(path, "async", "^2.6.0", false))
	require.NoError(t, AddDependency(path, "zlib", "^1.0.5", false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Extract the key order as persisted, not as decoded.
	depsBlock := string(data)
	start := strings.Index(depsBlock, `"dependencies"`)
	end := strings.Index(depsBlock[start:], "}")
	block := depsBlock[start : start+end]

	var keys []string
	for _, line := range strings.Split(block, "\n")[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		keys = append(keys, strings.Trim(strings.SplitN(trimmed, ":", 2)[0], `" `))
	}

	require.NotEmpty(t, keys)
	assert.True(t, sort.StringsAreSorted(keys), "dependency keys must persist in ascending order, got %v", keys)
}

func TestAddDependencyOverwritesVersion(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	require.NoError(t, AddDependency(path, "express", "^5.0.0", false))

	deps, err := Dependencies(path, false)
	require.NoError(t, err)
	assert.Equal(t, "^5.0.0", deps["express"])
}

func TestAddDevDependencyCreatesMap(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	require.NoError(t, AddDependency(path, "mocha", "^4.0.1", true))

	deps, err := Dependencies(path, true)
	require.NoError(t, err)
	assert.Equal(t, "^4.0.1", deps["mocha"])
}

func TestAddDependencyMissingDependenciesMap(t *testing.T) {
	path := writeManifest(t, `{"name": "bare"}`)

	err := AddDependency(path, "express", "^4.16.2", false)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchema))
}

func TestAddScript(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	require.NoError(t, AddScript(path, "test", "mocha"))
	require.NoError(t, AddScript(path, "start", "nodemon server.js"))

	scripts, err := Scripts(path)
	require.NoError(t, err)
	assert.Equal(t, "mocha", scripts["test"])
	assert.Equal(t, "nodemon server.js", scripts["start"])
}

func TestUnknownFieldsPreserved(t *testing.T) {
	path := writeManifest(t, `{
  "name": "myapp",
  "dependencies": {},
  "engines": {"node": ">=8"},
  "private": true
}`)

	require.NoError(t, AddDependency(path, "express", "^4.16.2", false))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.JSONEq(t, `{"node": ">=8"}`, string(doc["engines"]))
	assert.Equal(t, "true", string(doc["private"]))
	assert.Equal(t, `"myapp"`, string(doc["name"]))
}

func TestStableTwoSpaceIndent(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	require.NoError(t, AddScript(path, "test", "mocha"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Greater(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[1], "  \""), "top-level fields use 2-space indent, got %q", lines[1])
}

func TestReadDocNotJSON(t *testing.T) {
	path := writeManifest(t, "not json at all")

	_, err := Dependencies(path, false)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeSchema))
}

func TestMissingManifest(t *testing.T) {
	err := AddScript(filepath.Join(t.TempDir(), "package.json"), "start", "node .")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeIO))
}
