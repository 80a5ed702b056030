// Package generator orchestrates a blueprint run against a session
// workspace: scaffold copies, code injections, marker strips, template
// renders, manifest edits, and env output, in that order. The first error
// aborts the run; there is no rollback.
package generator

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/conneroisu/plategen/internal/blueprint"
	"github.com/conneroisu/plategen/internal/editor"
	"github.com/conneroisu/plategen/internal/errors"
	"github.com/conneroisu/plategen/internal/logging"
	"github.com/conneroisu/plategen/internal/manifest"
	"github.com/conneroisu/plategen/internal/registry"
	"github.com/conneroisu/plategen/internal/render"
	"github.com/conneroisu/plategen/internal/workspace"
)

// Options configures a Generator.
type Options struct {
	// ScaffoldDir is the root of template source files referenced by
	// blueprint copies and injections.
	ScaffoldDir string
	// CompatBlankLines enables the historical blank-line-dropping
	// indentation behavior for injections.
	CompatBlankLines bool
	Logger           logging.Logger
}

// Generator runs blueprints. Safe for sequential use; concurrent runs
// against the same session id race on the workspace directory.
type Generator struct {
	workspaces  *workspace.Manager
	scaffoldDir string
	compat      bool
	logger      logging.Logger
}

// Result describes a finished generation run.
type Result struct {
	SessionID string
	// Dir is the session's build directory.
	Dir string
	// Artifacts are the absolute paths of the blueprint's archive list.
	Artifacts []string
}

// New creates a Generator over the given workspace manager.
func New(workspaces *workspace.Manager, opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}

	return &Generator{
		workspaces:  workspaces,
		scaffoldDir: opts.ScaffoldDir,
		compat:      opts.CompatBlankLines,
		logger:      logger.WithComponent("generator"),
	}
}

// Run executes bp into the workspace for sessionID. The workspace is
// prepared fresh, so repeated runs of the same session start empty. The
// data mapping is bound against every render step, merged under the step's
// own data.
func (g *Generator) Run(ctx context.Context, sessionID string, bp *blueprint.Blueprint, data render.Data) (*Result, error) {
	dir, err := g.workspaces.Prepare(sessionID)
	if err != nil {
		return nil, err
	}

	g.logger.Info(ctx, "generation started",
		"session", sessionID,
		"blueprint", bp.Name,
		"dir", dir)

	steps := []func(context.Context, string, *blueprint.Blueprint, render.Data) error{
		g.copyFiles,
		g.applyInjections,
		g.applyStrips,
		g.applyRenders,
		g.applyDependencies,
		g.applyScripts,
		g.writeEnv,
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step(ctx, sessionID, bp, data); err != nil {
			g.logger.Error(ctx, err, "generation failed", "session", sessionID)
			return nil, err
		}
	}

	artifacts := make([]string, 0, len(bp.Archive))
	for _, name := range bp.Archive {
		artifacts = append(artifacts, filepath.Join(dir, name))
	}

	g.logger.Info(ctx, "generation finished",
		"session", sessionID,
		"artifacts", len(artifacts))

	return &Result{SessionID: sessionID, Dir: dir, Artifacts: artifacts}, nil
}

func (g *Generator) sessionFile(sessionID, name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", errors.NewValidationError(errors.ErrCodeInvalidPath, "blueprint path escapes session: "+name)
	}

	return filepath.Join(g.workspaces.Path(sessionID), name), nil
}

func (g *Generator) scaffoldFile(name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", errors.NewValidationError(errors.ErrCodeInvalidPath, "blueprint path escapes scaffold: "+name)
	}

	return filepath.Join(g.scaffoldDir, name), nil
}

func (g *Generator) copyFiles(ctx context.Context, sessionID string, bp *blueprint.Blueprint, _ render.Data) error {
	for _, f := range bp.Files {
		src, err := g.scaffoldFile(f.Source)
		if err != nil {
			return err
		}
		dst, err := g.sessionFile(sessionID, f.Target)
		if err != nil {
			return err
		}

		if err := copyFile(src, dst); err != nil {
			return err
		}
		g.logger.Debug(ctx, "copied scaffold file", "source", f.Source, "target", f.Target)
	}

	return nil
}

func (g *Generator) applyInjections(ctx context.Context, sessionID string, bp *blueprint.Blueprint, _ render.Data) error {
	for _, inj := range bp.Injections {
		target, err := g.sessionFile(sessionID, inj.Target)
		if err != nil {
			return err
		}
		source, err := g.scaffoldFile(inj.Source)
		if err != nil {
			return err
		}

		opts := editor.InjectOptions{
			IndentLevel:      inj.IndentLevel,
			IndentSpaces:     inj.IndentSpaces,
			LeadingBlankLine: inj.LeadingBlankLine,
			DropBlankLines:   g.compat,
		}
		if err := editor.Inject(target, inj.Token, source, opts); err != nil {
			return err
		}
		g.logger.Debug(ctx, "injected snippet", "target", inj.Target, "token", inj.Token)
	}

	return nil
}

func (g *Generator) applyStrips(ctx context.Context, sessionID string, bp *blueprint.Blueprint, _ render.Data) error {
	for _, s := range bp.Strips {
		target, err := g.sessionFile(sessionID, s.Target)
		if err != nil {
			return err
		}

		if err := editor.StripMarked(target, s.Marker); err != nil {
			return err
		}
		g.logger.Debug(ctx, "stripped marker", "target", s.Target, "marker", s.Marker)
	}

	return nil
}

func (g *Generator) applyRenders(ctx context.Context, sessionID string, bp *blueprint.Blueprint, data render.Data) error {
	for _, r := range bp.Renders {
		target, err := g.sessionFile(sessionID, r.Target)
		if err != nil {
			return err
		}

		merged := make(render.Data, len(data)+len(r.Data))
		for k, v := range data {
			merged[k] = v
		}
		for k, v := range r.Data {
			merged[k] = v
		}

		if err := render.Render(target, merged); err != nil {
			return err
		}
		g.logger.Debug(ctx, "rendered template", "target", r.Target)
	}

	return nil
}

func (g *Generator) applyDependencies(ctx context.Context, sessionID string, bp *blueprint.Blueprint, _ render.Data) error {
	if len(bp.Deps) == 0 {
		return nil
	}

	path, err := g.sessionFile(sessionID, "package.json")
	if err != nil {
		return err
	}

	for _, dep := range bp.Deps {
		version := dep.Version
		if version == "" {
			version, err = registry.Lookup(dep.Name)
			if err != nil {
				return err
			}
		}

		if err := manifest.AddDependency(path, dep.Name, version, dep.Dev); err != nil {
			return err
		}
		g.logger.Debug(ctx, "added dependency", "name", dep.Name, "version", version, "dev", dep.Dev)
	}

	return nil
}

func (g *Generator) applyScripts(ctx context.Context, sessionID string, bp *blueprint.Blueprint, _ render.Data) error {
	if len(bp.Scripts) == 0 {
		return nil
	}

	path, err := g.sessionFile(sessionID, "package.json")
	if err != nil {
		return err
	}

	for _, s := range bp.Scripts {
		if err := manifest.AddScript(path, s.Name, s.Command); err != nil {
			return err
		}
		g.logger.Debug(ctx, "added script", "name", s.Name)
	}

	return nil
}

// writeEnv appends the blueprint's env block. Values are templates bound
// against the run's data, so recipes can thread user input into .env.
func (g *Generator) writeEnv(ctx context.Context, sessionID string, bp *blueprint.Blueprint, data render.Data) error {
	if len(bp.Env) == 0 {
		return nil
	}

	vars := make(map[string]string, len(bp.Env))
	for k, v := range bp.Env {
		rendered, err := render.RenderString(v, data)
		if err != nil {
			return err
		}
		vars[k] = rendered
	}

	if err := g.workspaces.WriteEnv(sessionID, vars); err != nil {
		return err
	}
	g.logger.Debug(ctx, "wrote env vars", "count", len(vars))

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.ErrFileNotFound(src, err).WithComponent("generator")
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.ErrFileWrite(dst, err).WithComponent("generator")
	}

	out, err := os.Create(dst)
	if err != nil {
		return errors.ErrFileWrite(dst, err).WithComponent("generator")
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.ErrFileWrite(dst, err).WithComponent("generator")
	}

	return nil
}
