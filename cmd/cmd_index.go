// cmd_index.go - Index Command
// Hauptfunktionen: IndexHandler
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/envconfig"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/logutil"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/matcher"
)

// IndexHandler - Berechnet Embeddings aller Produkte und speichert sie in PRODMATCH_EMBEDDINGS
func IndexHandler(cmd *cobra.Command, _ []string) error {
	slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))

	path, _ := cmd.Flags().GetString("embeddings")
	if path == "" {
		path = envconfig.Embeddings()
	}
	if path == "" {
		return errors.New("no embedding store: set PRODMATCH_EMBEDDINGS or --embeddings")
	}

	config, err := matcher.ConfigFromEnvironment(path)
	if err != nil {
		return err
	}
	defer config.Store.Close()

	m := matcher.New(config)
	defer m.Close()

	force, _ := cmd.Flags().GetBool("force")
	reset, _ := cmd.Flags().GetBool("reset")
	out := cmd.ErrOrStderr()
	interactive := term.IsTerminal(int(os.Stderr.Fd()))

	result, err := m.Index(cmd.Context(), matcher.IndexOptions{
		Force: force,
		Reset: reset,
		Progress: func(done, total int) {
			if interactive {
				fmt.Fprintf(out, "\rindexing products %d/%d", done, total)
			}
		},
	})
	if interactive {
		fmt.Fprintln(out)
	}
	if err != nil {
		return err
	}

	if reset {
		fmt.Fprintf(cmd.OutOrStdout(), "model %s: %d stored embeddings removed\n", result.Model, result.Removed)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "model %s: %d indexed, %d unchanged, %d failed (%d products)\n",
		result.Model, result.Indexed, result.Unchanged, result.Failed, result.Total)
	return nil
}

// newIndexCmd - Erstellt den index Command
func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Precompute product embeddings",
		Args:  cobra.ExactArgs(0),
		RunE:  IndexHandler,
	}
	cmd.Flags().String("embeddings", "", "SQLite file for the embeddings (overrides PRODMATCH_EMBEDDINGS)")
	cmd.Flags().Bool("force", false, "Recompute embeddings that are already current")
	cmd.Flags().Bool("reset", false, "Remove all stored embeddings of the model before indexing")
	return cmd
}
