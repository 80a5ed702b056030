// Package workspace manages per-session build directories: creation,
// cleanup, .env output, and zip export. Every generation session owns
// exactly one directory derived deterministically from its id under
// <base>/build/, and no two sessions share a directory.
package workspace

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/conneroisu/plategen/internal/errors"
)

// Manager owns the workspace base directory. The base path is explicit
// construction-time state, never a process-global.
type Manager struct {
	baseDir string
}

// NewManager creates a workspace manager rooted at baseDir.
func NewManager(baseDir string) *Manager {
	return &Manager{baseDir: baseDir}
}

// NewSessionID returns a fresh random session identifier (16 hex chars).
func NewSessionID() string {
	buf := make([]byte, 8)
	// rand.Read on the crypto source only fails if the OS entropy source
	// is broken, at which point nothing else works either.
	_, _ = rand.Read(buf)

	return hex.EncodeToString(buf)
}

var validSessionID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Path returns the session's build directory. The path derivation is
// deterministic: the same id always maps to the same directory.
func (m *Manager) Path(id string) string {
	return filepath.Join(m.baseDir, "build", id)
}

// Prepare deletes any existing directory for id and recreates it fresh,
// parents included. Idempotent: repeated calls always yield an empty
// directory.
func (m *Manager) Prepare(id string) (string, error) {
	if err := m.checkID(id); err != nil {
		return "", err
	}

	dir := m.Path(id)
	if err := os.RemoveAll(dir); err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileWrite, "clearing session directory", err).WithFile(dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileWrite, "creating session directory", err).WithFile(dir)
	}

	return dir, nil
}

// Cleanup recursively deletes the session's directory tree. An already
// absent directory is success.
func (m *Manager) Cleanup(id string) error {
	if err := m.checkID(id); err != nil {
		return err
	}

	dir := m.Path(id)
	if err := os.RemoveAll(dir); err != nil {
		return errors.NewIOError(errors.ErrCodeFileWrite, "removing session directory", err).WithFile(dir)
	}

	return nil
}

// Exists reports whether the session's directory is present.
func (m *Manager) Exists(id string) bool {
	if m.checkID(id) != nil {
		return false
	}

	info, err := os.Stat(m.Path(id))

	return err == nil && info.IsDir()
}

// WriteEnv appends vars to the session's .env file as KEY='value' lines,
// keys sorted, the block framed by one newline on each side. Values are
// single-quoted with no escaping; quoting embedded quotes is the caller's
// responsibility. Repeated calls produce blank-line-separated blocks; an
// empty vars map writes nothing.
func (m *Manager) WriteEnv(id string, vars map[string]string) error {
	if err := m.checkID(id); err != nil {
		return err
	}
	if len(vars) == 0 {
		return nil
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("\n")
	for _, k := range keys {
		b.WriteString(k + "='" + vars[k] + "'\n")
	}

	path := filepath.Join(m.Path(id), ".env")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.ErrFileWrite(path, err).WithComponent("workspace")
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return errors.ErrFileWrite(path, err).WithComponent("workspace")
	}

	return nil
}

// checkID rejects ids that could escape the build directory.
func (m *Manager) checkID(id string) error {
	if id == "" || !validSessionID.MatchString(id) {
		return errors.NewValidationError(errors.ErrCodeInvalidPath, "invalid session id: "+id)
	}

	return nil
}
