package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conneroisu/plategen/internal/blueprint"
	"github.com/conneroisu/plategen/internal/config"
	"github.com/conneroisu/plategen/internal/generator"
	"github.com/conneroisu/plategen/internal/server"
	"github.com/conneroisu/plategen/internal/watcher"
	"github.com/conneroisu/plategen/internal/workspace"
)

var (
	watchSession string
	watchSet     []string
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate on scaffold changes and push reload events",
	Long: `Watch runs an initial generation, then watches the scaffold
directory and the blueprint file. Every debounced batch of changes triggers
a regeneration of the same session, and connected websocket clients receive
a reload event when it finishes.

The dev server runs alongside the watcher, so the freshly regenerated
session is always downloadable from /sessions/<id>/archive.

Examples:
  plategen watch
  plategen watch --session demo --set appName=myapp`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchSession, "session", "", "session id (default: random)")
	watchCmd.Flags().StringArrayVar(&watchSet, "set", nil, "template data as key=value (repeatable)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger()

	data, err := parseSetFlags(watchSet)
	if err != nil {
		return err
	}

	sessionID := watchSession
	if sessionID == "" {
		sessionID = workspace.NewSessionID()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workspaces := workspace.NewManager(cfg.Workspace.BaseDir)
	gen := generator.New(workspaces, generator.Options{
		ScaffoldDir:      cfg.Generate.ScaffoldDir,
		CompatBlankLines: cfg.Generate.CompatBlankLines,
		Logger:           logger,
	})
	srv := server.New(cfg, workspaces, logger)

	regenerate := func(ctx context.Context) error {
		bp, err := blueprint.Load(cfg.Generate.Blueprint)
		if err != nil {
			return err
		}
		result, err := gen.Run(ctx, sessionID, bp, data)
		if err != nil {
			return err
		}
		srv.NotifyReload(ctx, result.SessionID)

		return nil
	}

	if err := regenerate(ctx); err != nil {
		return err
	}
	fmt.Printf("Session %s generated, watching %s\n", sessionID, cfg.Generate.ScaffoldDir)

	sw, err := watcher.NewScaffoldWatcher(time.Duration(cfg.Watch.DebounceMs)*time.Millisecond, logger)
	if err != nil {
		return err
	}
	defer sw.Stop()

	sw.AddFilter(watcher.NoHiddenFilter)
	sw.AddFilter(watcher.NoBuildFilter)
	sw.AddHandler(func(events []watcher.ChangeEvent) error {
		logger.Info(ctx, "scaffold changed", "files", len(events))

		return regenerate(ctx)
	})

	if err := sw.AddRecursive(cfg.Generate.ScaffoldDir); err != nil {
		return err
	}
	sw.Start(ctx)

	return srv.Start(ctx)
}
