// Package editor implements the line-oriented file transformations at the
// core of plategen: loading files as line sequences, stripping marked
// placeholder lines, and splicing generated code fragments over placeholder
// tokens.
//
// All operations are destructive overwrites of small text files. Files are
// split and rejoined on "\n"; no trailing line-ending normalization is
// performed. Concurrent edits to the same path are last-writer-wins.
package editor

import (
	"os"
	"strings"

	"github.com/conneroisu/plategen/internal/errors"
)

// Action describes what a transform decided to do with a line.
type Action int

const (
	ActionKeep Action = iota
	ActionReplace
	ActionDelete
)

// Decision is the outcome of a transform for a single line. Mapping every
// line to an explicit decision and then materializing the result avoids the
// index-shift bugs of mutating the slice in place.
type Decision struct {
	Action Action
	Text   string
}

// Keep leaves the line unchanged.
func Keep() Decision {
	return Decision{Action: ActionKeep}
}

// Replace substitutes the line with text. The text may contain newlines,
// in which case one line becomes a multi-line block once rejoined.
func Replace(text string) Decision {
	return Decision{Action: ActionReplace, Text: text}
}

// Delete removes the line entirely.
func Delete() Decision {
	return Decision{Action: ActionDelete}
}

// TransformFunc maps a line to a decision.
type TransformFunc func(line string) Decision

// Load reads path and returns its contents split into lines.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ErrFileNotFound(path, err).WithComponent("editor")
	}

	return strings.Split(string(data), "\n"), nil
}

// Save overwrites path with lines joined by "\n".
func Save(path string, lines []string) error {
	content := strings.Join(lines, "\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.ErrFileWrite(path, err).WithComponent("editor")
	}

	return nil
}

// Transform loads path, maps every line through fn, materializes the new
// sequence, and writes it back. A no-op transform leaves the file
// byte-identical.
func Transform(path string, fn TransformFunc) error {
	lines, err := Load(path)
	if err != nil {
		return err
	}

	result := make([]string, 0, len(lines))
	for _, line := range lines {
		switch d := fn(line); d.Action {
		case ActionKeep:
			result = append(result, line)
		case ActionReplace:
			result = append(result, d.Text)
		case ActionDelete:
			// dropped
		}
	}

	return Save(path, result)
}
