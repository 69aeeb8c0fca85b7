package benchmark

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision"
)

// decodingEncoder dekodiert das Bild und gibt seine Groesse als Embedding zurueck
type decodingEncoder struct {
	calls int
	fail  bool
}

func (e *decodingEncoder) Encode(_ context.Context, data []byte) ([]float32, error) {
	e.calls++
	if e.fail {
		return nil, errors.New("boom")
	}
	img, err := vision.LoadImageFromBytes(data)
	if err != nil {
		return nil, err
	}
	return []float32{float32(img.Width), float32(img.Height), 0}, nil
}

func (e *decodingEncoder) ModelInfo() vision.ModelInfo {
	return vision.ModelInfo{Name: "decoder", Type: "test"}
}

func (e *decodingEncoder) Close() error { return nil }

func TestRun(t *testing.T) {
	enc := &decodingEncoder{}
	results, err := Run(context.Background(), enc, Config{Iterations: 5, WarmupRuns: 2, ImageSizes: []int{32, 0, 64}})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, 14, enc.calls)
	assert.Equal(t, 32, results[0].ImageSize)
	assert.Equal(t, 64, results[1].ImageSize)
	assert.Equal(t, "decoder", results[0].EncoderName)
	assert.Equal(t, 3, results[0].EmbeddingDim)
	assert.LessOrEqual(t, results[0].MinLatency, results[0].P95Latency)
	assert.LessOrEqual(t, results[0].P95Latency, results[0].MaxLatency)
}

func TestRunErrors(t *testing.T) {
	_, err := Run(context.Background(), &decodingEncoder{}, Config{Iterations: 0})
	assert.Error(t, err)

	_, err = Run(context.Background(), &decodingEncoder{fail: true}, Config{Iterations: 1, ImageSizes: []int{8}})
	assert.Error(t, err)
}

func TestCalculateStats(t *testing.T) {
	var latencies []time.Duration
	for i := 1; i <= 20; i++ {
		latencies = append(latencies, time.Duration(i)*time.Millisecond)
	}

	stats := calculateStats(latencies)
	assert.Equal(t, 210*time.Millisecond, stats.total)
	assert.Equal(t, 10500*time.Microsecond, stats.avg)
	assert.Equal(t, time.Millisecond, stats.min)
	assert.Equal(t, 20*time.Millisecond, stats.max)
	assert.Equal(t, 20*time.Millisecond, stats.p95)

	assert.Equal(t, latencyStats{}, calculateStats(nil))
}

func TestGenerateTestImage(t *testing.T) {
	img, err := vision.LoadImageFromBytes(GenerateTestImage(40, 30))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Width)
	assert.Equal(t, 30, img.Height)
	assert.Equal(t, vision.FormatJPEG, img.Format)

	assert.Equal(t, GenerateTestImageWithSeed(8, 8, 1), GenerateTestImageWithSeed(8, 8, 1))
}
