// Package server provides the plategen dev server: session archive
// downloads and the websocket reload endpoint used by watch mode.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/conneroisu/plategen/internal/config"
	"github.com/conneroisu/plategen/internal/errors"
	"github.com/conneroisu/plategen/internal/logging"
	"github.com/conneroisu/plategen/internal/workspace"
)

// Server serves session archives over HTTP and pushes reload events to
// connected clients.
type Server struct {
	config     *config.Config
	workspaces *workspace.Manager
	logger     logging.Logger
	hub        *ReloadHub
	httpServer *http.Server
}

// New creates a Server over the given workspace manager.
func New(cfg *config.Config, workspaces *workspace.Manager, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}
	logger = logger.WithComponent("server")

	return &Server{
		config:     cfg,
		workspaces: workspaces,
		logger:     logger,
		hub:        NewReloadHub(logger),
	}
}

// Handler returns the route table. Split out from Start so tests can drive
// it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /sessions/{id}/archive", s.handleArchive)
	mux.HandleFunc("GET /ws", s.hub.handleWebSocket)

	return mux
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Server.Host, fmt.Sprintf("%d", s.config.Server.Port))
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "server listening", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.CloseAll()

		return s.httpServer.Shutdown(shutdownCtx)
	}
}

// NotifyReload broadcasts a reload event for a regenerated session.
func (s *Server) NotifyReload(ctx context.Context, sessionID string) {
	s.hub.Broadcast(ctx, sessionID)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleArchive streams a zip of the session's files. The archive is built
// into a buffer before any response byte goes out, so failures still
// produce a clean 500 with the error message as body.
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if !s.workspaces.Exists(id) {
		http.Error(w, errors.ErrSessionNotFound(id).Error(), http.StatusNotFound)
		return
	}

	files, err := s.sessionFiles(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := workspace.ExportZip(&buf, files); err != nil {
		s.logger.Error(r.Context(), err, "archive export failed", "session", id)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("plategen-%s.zip", id)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(buf.Bytes()); err != nil {
		// Headers are gone; all we can do is log the broken delivery.
		s.logger.Warn(r.Context(), err, "archive delivery interrupted", "session", id)
	}
}

// sessionFiles lists every regular file in the session's directory tree in
// stable order.
func (s *Server) sessionFiles(id string) ([]string, error) {
	var files []string
	root := s.workspaces.Path(id)

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	return files, nil
}
