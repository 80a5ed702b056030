package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/plategen/internal/blueprint"
	"github.com/conneroisu/plategen/internal/config"
	"github.com/conneroisu/plategen/internal/generator"
	"github.com/conneroisu/plategen/internal/render"
	"github.com/conneroisu/plategen/internal/workspace"
)

var (
	generateSession string
	generateSet     []string
	generateZip     string
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the blueprint into a session build directory",
	Long: `Generate executes the configured blueprint against the scaffold
directory: scaffold files are copied into a fresh session workspace, code
snippets are spliced over placeholder tokens, marked lines are stripped,
templates are rendered, and package.json and .env are filled in.

Each run gets its own session id (random unless --session is given) and its
output lands under <workspace.base_dir>/build/<session-id>.

With --zip, the files named by the blueprint's archive list are exported
as a zip once the run finishes.

Examples:
  plategen generate
  plategen generate --session demo
  plategen generate --set appName=myapp --set port=3000
  plategen generate --zip out.zip`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateSession, "session", "", "session id (default: random)")
	generateCmd.Flags().StringArrayVar(&generateSet, "set", nil, "template data as key=value (repeatable)")
	generateCmd.Flags().StringVar(&generateZip, "zip", "", "export the blueprint's archive list as a zip to this path")
	generateCmd.Flags().String("scaffold-dir", "", "scaffold template directory")
	generateCmd.Flags().String("blueprint", "", "blueprint file path")
	generateCmd.Flags().Bool("compat-blank-lines", false, "drop blank lines from injected snippets (historical behavior)")

	_ = viper.BindPFlag("generate.scaffold_dir", generateCmd.Flags().Lookup("scaffold-dir"))
	_ = viper.BindPFlag("generate.blueprint", generateCmd.Flags().Lookup("blueprint"))
	_ = viper.BindPFlag("generate.compat_blank_lines", generateCmd.Flags().Lookup("compat-blank-lines"))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger()

	bp, err := blueprint.Load(cfg.Generate.Blueprint)
	if err != nil {
		return err
	}

	data, err := parseSetFlags(generateSet)
	if err != nil {
		return err
	}

	sessionID := generateSession
	if sessionID == "" {
		sessionID = workspace.NewSessionID()
	}

	gen := generator.New(workspace.NewManager(cfg.Workspace.BaseDir), generator.Options{
		ScaffoldDir:      cfg.Generate.ScaffoldDir,
		CompatBlankLines: cfg.Generate.CompatBlankLines,
		Logger:           logger,
	})

	result, err := gen.Run(cmd.Context(), sessionID, bp, data)
	if err != nil {
		return err
	}

	fmt.Printf("Session %s generated at %s\n", result.SessionID, result.Dir)

	if generateZip != "" {
		if err := exportArchive(generateZip, result.Artifacts); err != nil {
			return err
		}
		fmt.Printf("Archive written to %s\n", generateZip)
	}

	return nil
}

// exportArchive zips the run's artifact list to path.
func exportArchive(path string, artifacts []string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := workspace.ExportZip(out, artifacts); err != nil {
		return err
	}

	return out.Close()
}

// parseSetFlags turns --set key=value pairs into template data.
func parseSetFlags(pairs []string) (render.Data, error) {
	data := make(render.Data, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set value %q (want key=value)", pair)
		}
		data[key] = value
	}

	return data, nil
}
