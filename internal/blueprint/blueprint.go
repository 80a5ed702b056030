// Package blueprint loads the YAML recipes that drive a generation run: a
// declarative list of scaffold copies, code injections, marker strips,
// template renders, manifest edits, env vars, and the archive file list.
package blueprint

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/conneroisu/plategen/internal/errors"
)

// Blueprint is one generation recipe. Steps execute in declaration order
// within each list, and the lists execute in struct order: copies,
// injections, strips, renders, dependencies, scripts, env.
type Blueprint struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Files       []FileCopy        `yaml:"files"`
	Injections  []Injection       `yaml:"injections"`
	Strips      []Strip           `yaml:"strips"`
	Renders     []Render          `yaml:"renders"`
	Deps        []Dependency      `yaml:"dependencies"`
	Scripts     []Script          `yaml:"scripts"`
	Env         map[string]string `yaml:"env"`
	Archive     []string          `yaml:"archive"`
}

// FileCopy copies a scaffold file into the session workspace.
type FileCopy struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// Injection splices a scaffold snippet over a placeholder token in a
// session file.
type Injection struct {
	Target           string `yaml:"target"`
	Token            string `yaml:"token"`
	Source           string `yaml:"source"`
	IndentLevel      int    `yaml:"indent_level"`
	IndentSpaces     int    `yaml:"indent_spaces"`
	LeadingBlankLine bool   `yaml:"leading_blank_line"`
}

// Strip deletes lines containing a marker from a session file.
type Strip struct {
	Target string `yaml:"target"`
	Marker string `yaml:"marker"`
}

// Render interpolates a session file as a template.
type Render struct {
	Target string                 `yaml:"target"`
	Data   map[string]interface{} `yaml:"data"`
}

// Dependency adds a package to the generated manifest. Version defaults to
// the registry's pinned version when empty.
type Dependency struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Dev     bool   `yaml:"dev"`
}

// Script adds an npm script to the generated manifest.
type Script struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command"`
}

// Load reads and validates a blueprint file.
func Load(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ErrFileNotFound(path, err).WithComponent("blueprint")
	}

	return Parse(data, path)
}

// Parse decodes blueprint YAML. Unknown fields are rejected so typos in
// recipes fail loudly instead of silently skipping steps.
func Parse(data []byte, path string) (*Blueprint, error) {
	var bp Blueprint
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&bp); err != nil {
		return nil, errors.NewSchemaError(
			errors.ErrCodeBlueprintParse,
			fmt.Sprintf("decoding blueprint: %v", err),
		).WithFile(path)
	}

	if err := bp.validate(); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeBlueprintParse, err.Error()).WithFile(path)
	}

	return &bp, nil
}

func (bp *Blueprint) validate() error {
	if bp.Name == "" {
		return fmt.Errorf("blueprint name is required")
	}

	for i, f := range bp.Files {
		if f.Source == "" || f.Target == "" {
			return fmt.Errorf("files[%d]: source and target are required", i)
		}
	}

	for i, inj := range bp.Injections {
		if inj.Target == "" || inj.Token == "" || inj.Source == "" {
			return fmt.Errorf("injections[%d]: target, token and source are required", i)
		}
		if inj.IndentLevel < 0 || inj.IndentSpaces < 0 {
			return fmt.Errorf("injections[%d]: indent counts must be non-negative", i)
		}
	}

	for i, s := range bp.Strips {
		if s.Target == "" || s.Marker == "" {
			return fmt.Errorf("strips[%d]: target and marker are required", i)
		}
	}

	for i, r := range bp.Renders {
		if r.Target == "" {
			return fmt.Errorf("renders[%d]: target is required", i)
		}
	}

	for i, d := range bp.Deps {
		if d.Name == "" {
			return fmt.Errorf("dependencies[%d]: name is required", i)
		}
	}

	for i, s := range bp.Scripts {
		if s.Name == "" || s.Command == "" {
			return fmt.Errorf("scripts[%d]: name and command are required", i)
		}
	}

	for i, name := range bp.Archive {
		if name == "" || !filepath.IsLocal(name) {
			return fmt.Errorf("archive[%d]: path must stay inside the session: %q", i, name)
		}
	}

	return nil
}
