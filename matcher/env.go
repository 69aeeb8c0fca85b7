package matcher

import (
	"github.com/Nitheesh21122003/visual-product-matcher-backend/catalog"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/envconfig"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/store"
	"github.com/Nitheesh21122003/visual-product-matcher-backend/vision"

	// Encoder-Backends registrieren
	_ "github.com/Nitheesh21122003/visual-product-matcher-backend/vision/onnx"
	_ "github.com/Nitheesh21122003/visual-product-matcher-backend/vision/remote"
)

// ModelConfigFromEnvironment liest Backend, Modell und LoadOptions aus PRODMATCH_*.
func ModelConfigFromEnvironment() vision.ModelConfig {
	opts := vision.DefaultLoadOptions()
	opts.Apply(
		vision.WithDevice(envconfig.Device()),
		vision.WithEndpoint(envconfig.EncoderURL()),
		vision.WithSharedLibrary(envconfig.OnnxLibrary()),
		vision.WithTimeout(envconfig.FetchTimeout()),
		vision.WithMaxPixels(int64(envconfig.MaxPixels())),
	)

	return vision.ModelConfig{
		Type:    envconfig.Encoder(),
		Model:   envconfig.Model(),
		Options: opts,
	}
}

// ConfigFromEnvironment baut die Matcher-Config aus PRODMATCH_*.
// Ist embeddings nicht leer, wird der Store dort geoeffnet;
// der Aufrufer muss ihn schliessen.
func ConfigFromEnvironment(embeddings string) (Config, error) {
	config := FromModelConfig(ModelConfigFromEnvironment(), envconfig.Catalog())
	config.Fetcher = catalog.NewFetcher(envconfig.FetchTimeout(), int64(envconfig.MaxUpload()))
	config.Threshold = envconfig.Threshold()
	config.MaxResults = int(envconfig.MaxResults())
	config.MaxPixels = int64(envconfig.MaxPixels())

	if embeddings != "" {
		s, err := store.Open(embeddings)
		if err != nil {
			return Config{}, err
		}
		config.Store = s
	}

	return config, nil
}
