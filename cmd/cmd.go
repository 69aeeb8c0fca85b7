// cmd.go - Haupt-CLI Setup und Root Command
// Hauptfunktionen: NewCLI, appendEnvDocs
package cmd

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/containerd/console"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/envconfig"
)

// appendEnvDocs - Fuegt Umgebungsvariablen-Dokumentation zum Command hinzu
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

// NewCLI - Erstellt das Haupt-CLI mit allen Commands
func NewCLI() *cobra.Command {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cobra.EnableCommandSorting = false

	if runtime.GOOS == "windows" && term.IsTerminal(int(os.Stdout.Fd())) {
		console.ConsoleFromFile(os.Stdin) //nolint:errcheck
	}

	rootCmd := &cobra.Command{
		Use:           "prodmatch",
		Short:         "Visual product matcher",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				versionHandler(cmd, args)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	// Commands erstellen
	serveCmd := newServeCmd()
	matchCmd := newMatchCmd()
	indexCmd := newIndexCmd()
	checkURLsCmd := newCheckURLsCmd()
	benchCmd := newBenchCmd()

	// Environment-Dokumentation hinzufuegen
	envVars := envconfig.AsMap()
	encoderEnvs := []envconfig.EnvVar{
		envVars["PRODMATCH_DEBUG"],
		envVars["PRODMATCH_CATALOG"],
		envVars["PRODMATCH_ENCODER"],
		envVars["PRODMATCH_MODEL"],
		envVars["PRODMATCH_ENCODER_URL"],
		envVars["PRODMATCH_DEVICE"],
		envVars["PRODMATCH_ONNX_LIBRARY"],
		envVars["PRODMATCH_EMBEDDINGS"],
		envVars["PRODMATCH_FETCH_TIMEOUT"],
		envVars["PRODMATCH_MAX_UPLOAD"],
		envVars["PRODMATCH_MAX_PIXELS"],
	}

	for _, cmd := range []*cobra.Command{serveCmd, matchCmd, indexCmd, checkURLsCmd, benchCmd} {
		switch cmd {
		case serveCmd:
			appendEnvDocs(cmd, append([]envconfig.EnvVar{
				envVars["PRODMATCH_HOST"],
				envVars["PRODMATCH_ORIGINS"],
				envVars["PRODMATCH_PRELOAD"],
				envVars["PRODMATCH_ERROR_DETAIL"],
				envVars["PRODMATCH_THRESHOLD"],
				envVars["PRODMATCH_MAX_RESULTS"],
			}, encoderEnvs...))
		case indexCmd, benchCmd:
			appendEnvDocs(cmd, encoderEnvs)
		case checkURLsCmd:
			appendEnvDocs(cmd, []envconfig.EnvVar{envVars["PRODMATCH_CATALOG"]})
		default:
			appendEnvDocs(cmd, []envconfig.EnvVar{envVars["PRODMATCH_HOST"]})
		}
	}

	rootCmd.AddCommand(
		serveCmd,
		matchCmd,
		indexCmd,
		checkURLsCmd,
		benchCmd,
	)

	return rootCmd
}
