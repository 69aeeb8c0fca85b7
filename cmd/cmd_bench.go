// cmd_bench.go - Bench Command
// Hauptfunktionen: BenchHandler
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/envconfig"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/logutil"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/matcher"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision/benchmark"
)

// BenchHandler - Misst Latenz und Durchsatz des konfigurierten Encoders
func BenchHandler(cmd *cobra.Command, _ []string) error {
	slog.SetDefault(logutil.NewLogger(os.Stderr, envconfig.LogLevel()))

	config := benchmark.DefaultConfig()
	config.Iterations, _ = cmd.Flags().GetInt("iterations")
	config.WarmupRuns, _ = cmd.Flags().GetInt("warmup")

	sizes, _ := cmd.Flags().GetString("sizes")
	config.ImageSizes = nil
	for _, s := range strings.Split(sizes, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("invalid size %q", s)
		}
		config.ImageSizes = append(config.ImageSizes, n)
	}

	enc, err := vision.NewEncoderFromConfig(matcher.ModelConfigFromEnvironment())
	if err != nil {
		return err
	}
	defer enc.Close()

	results, err := benchmark.Run(cmd.Context(), enc, config)
	if err != nil {
		return err
	}

	var data [][]string
	for _, r := range results {
		data = append(data, []string{
			fmt.Sprintf("%dx%d", r.ImageSize, r.ImageSize),
			r.AvgLatency.String(),
			r.P95Latency.String(),
			r.MaxLatency.String(),
			strconv.FormatFloat(r.Throughput, 'f', 1, 64),
			strconv.Itoa(r.EmbeddingDim),
		})
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"SIZE", "AVG", "P95", "MAX", "IMAGES/S", "DIM"})
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

// newBenchCmd - Erstellt den bench Command
func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the configured image encoder",
		Args:  cobra.ExactArgs(0),
		RunE:  BenchHandler,
	}
	cmd.Flags().Int("iterations", 20, "Number of measured runs per size")
	cmd.Flags().Int("warmup", 3, "Number of unmeasured warmup runs")
	cmd.Flags().String("sizes", "224,640,1024", "Comma separated square image sizes")
	return cmd
}
