// MODUL: benchmark
// ZWECK: Latenz- und Durchsatzmessung fuer einen Bild-Encoder
// INPUT: vision.Encoder, Config
// OUTPUT: Result pro Bildgroesse
// NEBENEFFEKTE: CPU/GPU-Last waehrend der Messung
// ABHAENGIGKEITEN: vision (Encoder)
// HINWEISE: Warmup-Laeufe sind wichtig fuer stabile Messungen

package benchmark

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision"
)

// Result enthaelt das Ergebnis fuer eine Bildgroesse.
type Result struct {
	EncoderName  string
	ImageSize    int // Kantenlaenge des quadratischen Testbilds
	Iterations   int
	TotalTime    time.Duration
	AvgLatency   time.Duration
	MinLatency   time.Duration
	MaxLatency   time.Duration
	P95Latency   time.Duration
	Throughput   float64 // Bilder pro Sekunde
	MemoryUsed   uint64  // Alloc-Differenz in Bytes
	EmbeddingDim int
}

// Config definiert die Parameter eines Laufs.
type Config struct {
	Iterations int   // Messungen (ohne Warmup)
	WarmupRuns int   // nicht gemessene Laeufe
	ImageSizes []int // Kantenlaengen der Testbilder
}

// DefaultConfig gibt eine Standard-Konfiguration zurueck.
func DefaultConfig() Config {
	return Config{
		Iterations: 20,
		WarmupRuns: 3,
		ImageSizes: []int{224, 640, 1024},
	}
}

// Run misst den Encoder fuer alle ImageSizes.
// Der erste Encode-Fehler bricht den Lauf ab.
func Run(ctx context.Context, enc vision.Encoder, config Config) ([]Result, error) {
	if config.Iterations <= 0 {
		return nil, fmt.Errorf("benchmark: iterations must be positive, got %d", config.Iterations)
	}

	info := enc.ModelInfo()
	results := make([]Result, 0, len(config.ImageSizes))

	for _, size := range config.ImageSizes {
		if size <= 0 {
			continue
		}

		img := GenerateTestImage(size, size)

		for i := 0; i < config.WarmupRuns; i++ {
			if _, err := enc.Encode(ctx, img); err != nil {
				return results, fmt.Errorf("warmup %dpx: %w", size, err)
			}
		}

		runtime.GC()
		var memBefore, memAfter runtime.MemStats
		runtime.ReadMemStats(&memBefore)

		latencies := make([]time.Duration, 0, config.Iterations)
		var dim int
		for i := 0; i < config.Iterations; i++ {
			start := time.Now()
			emb, err := enc.Encode(ctx, img)
			if err != nil {
				return results, fmt.Errorf("encode %dpx: %w", size, err)
			}
			latencies = append(latencies, time.Since(start))
			dim = len(emb)
		}

		runtime.ReadMemStats(&memAfter)

		stats := calculateStats(latencies)
		result := Result{
			EncoderName:  info.Name,
			ImageSize:    size,
			Iterations:   config.Iterations,
			TotalTime:    stats.total,
			AvgLatency:   stats.avg,
			MinLatency:   stats.min,
			MaxLatency:   stats.max,
			P95Latency:   stats.p95,
			EmbeddingDim: dim,
		}
		if stats.total > 0 {
			result.Throughput = float64(config.Iterations) / stats.total.Seconds()
		}
		if memAfter.TotalAlloc > memBefore.TotalAlloc {
			result.MemoryUsed = memAfter.TotalAlloc - memBefore.TotalAlloc
		}
		results = append(results, result)
	}

	return results, nil
}

// latencyStats enthaelt berechnete Latenz-Statistiken.
type latencyStats struct {
	total time.Duration
	avg   time.Duration
	min   time.Duration
	max   time.Duration
	p95   time.Duration
}

// calculateStats berechnet Statistiken aus Latenz-Messungen.
func calculateStats(latencies []time.Duration) latencyStats {
	if len(latencies) == 0 {
		return latencyStats{}
	}

	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, d := range latencies {
		total += d
	}

	p95Idx := int(float64(len(sorted)) * 0.95)
	if p95Idx >= len(sorted) {
		p95Idx = len(sorted) - 1
	}

	return latencyStats{
		total: total,
		avg:   total / time.Duration(len(latencies)),
		min:   sorted[0],
		max:   sorted[len(sorted)-1],
		p95:   sorted[p95Idx],
	}
}
