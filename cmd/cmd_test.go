package cmd

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/plategen/internal/render"
	"github.com/conneroisu/plategen/internal/testutils"
)

// writeConfig writes a minimal config file pointing workspace output at base.
func writeConfig(t *testing.T, base string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "plategen.yml")
	content := "workspace:\n  base_dir: " + base + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

func TestParseSetFlags(t *testing.T) {
	data, err := parseSetFlags([]string{"appName=myapp", "port=3000"})
	require.NoError(t, err)
	assert.Equal(t, render.Data{"appName": "myapp", "port": "3000"}, data)

	data, err = parseSetFlags(nil)
	require.NoError(t, err)
	assert.Empty(t, data)

	_, err = parseSetFlags([]string{"noequals"})
	assert.Error(t, err)

	_, err = parseSetFlags([]string{"=value"})
	assert.Error(t, err)
}

func TestGenerateCommand(t *testing.T) {
	scaffold := testutils.CreateScaffold(t, map[string]string{
		"app.js": "const express = require('express');\n//= ROUTES\n",
		"routes.js": "app.get('/', home);\n",
		"blueprint.yml": `name: test-app
files:
  - source: app.js
    target: app.js
injections:
  - target: app.js
    token: "//= ROUTES"
    source: routes.js
env:
  NODE_ENV: development
`,
	})

	base := t.TempDir()
	cfgPath := writeConfig(t, base)

	rootCmd.SetArgs([]string{
		"generate",
		"--config", cfgPath,
		"--session", "cmdtest",
		"--scaffold-dir", scaffold,
		"--blueprint", filepath.Join(scaffold, "blueprint.yml"),
	})
	require.NoError(t, rootCmd.Execute())

	dir := filepath.Join(base, "build", "cmdtest")
	assert.Equal(t,
		"const express = require('express');\napp.get('/', home);\n",
		testutils.ReadFile(t, filepath.Join(dir, "app.js")))
	assert.Equal(t,
		"\nNODE_ENV='development'\n",
		testutils.ReadFile(t, filepath.Join(dir, ".env")))
}

func TestGenerateCommandZipExport(t *testing.T) {
	scaffold := testutils.CreateScaffold(t, map[string]string{
		"app.js": "const app = express();\n",
		"blueprint.yml": `name: zip-app
files:
  - source: app.js
    target: app.js
env:
  NODE_ENV: production
archive:
  - app.js
  - .env
`,
	})

	base := t.TempDir()
	zipPath := filepath.Join(t.TempDir(), "out.zip")

	rootCmd.SetArgs([]string{
		"generate",
		"--config", writeConfig(t, base),
		"--session", "cmdzip",
		"--scaffold-dir", scaffold,
		"--blueprint", filepath.Join(scaffold, "blueprint.yml"),
		"--zip", zipPath,
	})
	require.NoError(t, rootCmd.Execute())

	reader, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer reader.Close()

	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"app.js", ".env"}, names)
}

func TestGenerateCommandBadBlueprint(t *testing.T) {
	scaffold := testutils.CreateScaffold(t, map[string]string{
		"blueprint.yml": "name: broken\nunknown_field: true\n",
	})

	rootCmd.SetArgs([]string{
		"generate",
		"--config", writeConfig(t, t.TempDir()),
		"--session", "cmdbad",
		"--scaffold-dir", scaffold,
		"--blueprint", filepath.Join(scaffold, "blueprint.yml"),
	})
	assert.Error(t, rootCmd.Execute())
}
