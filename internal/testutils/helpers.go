// Package testutils provides shared fixtures for plategen tests: scaffold
// trees, manifests, and session workspaces rooted in temp directories.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conneroisu/plategen/internal/workspace"
)

// CreateScaffold writes the given files (path relative to a fresh temp
// root) and returns the root.
func CreateScaffold(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()

	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	return root
}

// CreateWorkspace returns a workspace manager over a temp base dir with
// one prepared session.
func CreateWorkspace(t *testing.T, sessionID string) (*workspace.Manager, string) {
	t.Helper()

	m := workspace.NewManager(t.TempDir())
	dir, err := m.Prepare(sessionID)
	require.NoError(t, err)

	return m, dir
}

// StandardManifest is a minimal package.json used across tests.
const StandardManifest = `{
  "name": "testapp",
  "version": "1.0.0",
  "dependencies": {
    "express": "^4.16.2"
  },
  "scripts": {
    "start": "node app.js"
  }
}
`

// WriteManifest drops StandardManifest (or custom content) into dir.
func WriteManifest(t *testing.T, dir, content string) string {
	t.Helper()

	if content == "" {
		content = StandardManifest
	}
	path := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

// ReadFile reads a file or fails the test.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	return string(data)
}
