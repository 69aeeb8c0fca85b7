// cmd_match.go - Match Command
// Hauptfunktionen: MatchHandler, writeMatches
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/api"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/catalog"
)

// MatchHandler - Schickt ein Bild (Datei oder URL) an den laufenden Server
func MatchHandler(cmd *cobra.Command, args []string) error {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	var matches []api.Match
	if ref := args[0]; catalog.IsURL(ref) {
		matches, err = client.MatchURL(cmd.Context(), ref)
	} else {
		f, ferr := os.Open(ref)
		if ferr != nil {
			return ferr
		}
		defer f.Close()

		matches, err = client.MatchImage(cmd.Context(), ref, f)
	}
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if !asJSON && !term.IsTerminal(int(os.Stdout.Fd())) {
		asJSON = true
	}

	return writeMatches(cmd.OutOrStdout(), matches, asJSON)
}

// writeMatches - Gibt Treffer als Tabelle oder JSON aus
func writeMatches(w io.Writer, matches []api.Match, asJSON bool) error {
	if asJSON {
		if matches == nil {
			matches = []api.Match{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	if len(matches) == 0 {
		fmt.Fprintln(w, "no matching products")
		return nil
	}

	var data [][]string
	for _, m := range matches {
		data = append(data, []string{m.ID.String(), m.Name, m.Category, strconv.FormatFloat(float64(m.Score), 'f', 4, 32), m.Image})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "NAME", "CATEGORY", "SCORE", "IMAGE"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}

// newMatchCmd - Erstellt den match Command
func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match FILE|URL",
		Short: "Find catalog products that look like an image",
		Args:  cobra.ExactArgs(1),
		RunE:  MatchHandler,
	}
	cmd.Flags().Bool("json", false, "Print matches as JSON")
	return cmd
}
