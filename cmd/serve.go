package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/plategen/internal/config"
	"github.com/conneroisu/plategen/internal/server"
	"github.com/conneroisu/plategen/internal/workspace"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve session archives over HTTP",
	Long: `Serve starts the dev server. Generated sessions can be downloaded
as zip archives from /sessions/<id>/archive, and /ws carries reload events
for watch mode clients.

Examples:
  plategen serve
  plategen serve --port 9090
  plategen serve --host 0.0.0.0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "server port")
	serveCmd.Flags().String("host", "", "server host")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, workspace.NewManager(cfg.Workspace.BaseDir), newLogger())

	return srv.Start(ctx)
}
