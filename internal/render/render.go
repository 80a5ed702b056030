// Package render applies text/template interpolation to scaffold files in
// place. Rendering is strict: referencing a key absent from the data
// mapping fails instead of silently emitting "<no value>".
package render

import (
	"bytes"
	"os"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/plategen/internal/errors"
)

// Data is the string-keyed mapping bound against template expressions.
type Data map[string]interface{}

// titleCaser is shared; cases.Caser is not safe for concurrent use but
// renders run sequentially within a generation.
var titleCaser = cases.Title(language.English)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"title": titleCaser.String,
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
	}
}

// Render reads path, parses its contents as a template, executes it
// against data, and overwrites the file with the rendered output.
func Render(path string, data Data) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.ErrFileNotFound(path, err).WithComponent("render")
	}

	tmpl, err := template.New(path).
		Funcs(funcMap()).
		Option("missingkey=error").
		Parse(string(raw))
	if err != nil {
		return errors.NewTemplateError(errors.ErrCodeTemplateParse, "malformed template", err).WithFile(path)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return errors.NewTemplateError(errors.ErrCodeTemplateRender, "template execution failed", err).WithFile(path)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return errors.ErrFileWrite(path, err).WithComponent("render")
	}

	return nil
}

// RenderString executes a template string against data without touching
// the filesystem. Used for blueprint values that interpolate session data.
func RenderString(text string, data Data) (string, error) {
	tmpl, err := template.New("inline").
		Funcs(funcMap()).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return "", errors.NewTemplateError(errors.ErrCodeTemplateParse, "malformed template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.NewTemplateError(errors.ErrCodeTemplateRender, "template execution failed", err)
	}

	return buf.String(), nil
}
