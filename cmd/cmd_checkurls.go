// cmd_checkurls.go - check-urls Command
// Hauptfunktionen: CheckURLsHandler
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/catalog"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/envconfig"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/urlcheck"
)

// CheckURLsHandler - Prueft alle Produkt-URLs und schreibt einen Report
func CheckURLsHandler(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = envconfig.Catalog()
	}
	report, _ := cmd.Flags().GetString("report")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	cat, err := catalog.Load(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Checking URLs...")
	fmt.Fprintln(out)

	results, err := urlcheck.NewChecker(timeout).Run(cmd.Context(), cat, out)
	if err != nil {
		return err
	}

	if err := urlcheck.WriteReport(report, results); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nURL check completed. Results saved to '%s'.\n", report)
	return nil
}

// newCheckURLsCmd - Erstellt den check-urls Command
func newCheckURLsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-urls",
		Short: "Check that catalog product URLs are reachable",
		Args:  cobra.ExactArgs(0),
		RunE:  CheckURLsHandler,
	}
	cmd.Flags().String("catalog", "", "Product catalog (default PRODMATCH_CATALOG or products.json)")
	cmd.Flags().String("report", urlcheck.DefaultReport, "Report file")
	cmd.Flags().Duration("timeout", urlcheck.DefaultTimeout, "Timeout per request")
	return cmd
}
