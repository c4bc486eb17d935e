package postprocessors

import (
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/postprocessors/chunker"
	"github.com/custodia-labs/askdoc-cli/internal/postprocessors/enricher"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("enricher", buildEnricher)
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Target characters per chunk (default: 1000)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithTargetSize(size))
		}
	}

	return chunker.New(opts...), nil
}

// buildEnricher creates an enricher processor from generic config.
// Supported config keys:
//   - max_length (int): Hard cap on chunk characters (default: 4000)
func buildEnricher(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []enricher.Option

	if cfg != nil {
		if n := getIntFromConfig(cfg, "max_length"); n > 0 {
			opts = append(opts, enricher.WithMaxLength(n))
		}
	}

	return enricher.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
