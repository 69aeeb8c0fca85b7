// cmd_serve.go - Server starten und Versionsausgabe
// Hauptfunktionen: RunServer, versionHandler
package cmd

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/api"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/envconfig"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/server"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/version"
)

// RunServer - Startet den Matcher-Server
func RunServer(cmd *cobra.Command, _ []string) error {
	ln, err := net.Listen("tcp", envconfig.Host().Host)
	if err != nil {
		return err
	}

	err = server.Serve(cmd.Context(), ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

// versionHandler - Zeigt Client-Version und Erreichbarkeit des Servers
func versionHandler(cmd *cobra.Command, _ []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "prodmatch version is %s\n", version.Version)

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return
	}

	if err := client.Heartbeat(cmd.Context()); err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Warning: could not connect to a running prodmatch server")
	}
}

// newServeCmd - Erstellt den serve Command
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"start"},
		Short:   "Start the matcher server",
		Args:    cobra.ExactArgs(0),
		RunE:    RunServer,
	}
}
