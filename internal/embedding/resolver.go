package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog/log"
)

// ResolveModel checks the Ollama registry for the preferred embedding model.
// If it is not installed, the first available model is used instead; an empty
// registry is a hard error since no index can be built without an embedder.
func ResolveModel(ctx context.Context, baseURL, preferred string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing ollama base URL: %w", err)
	}
	client := api.NewClient(base, http.DefaultClient)

	resp, err := client.List(ctx)
	if err != nil {
		return "", fmt.Errorf("listing ollama models: %w", err)
	}
	if len(resp.Models) == 0 {
		return "", fmt.Errorf("embedding provider has no models available")
	}

	for _, m := range resp.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		if name == preferred || strings.TrimSuffix(name, ":latest") == preferred {
			return preferred, nil
		}
	}

	fallback := resp.Models[0].Name
	if fallback == "" {
		fallback = resp.Models[0].Model
	}
	log.Warn().Str("preferred", preferred).Str("fallback", fallback).Msg("Preferred embedding model not installed, falling back")
	return fallback, nil
}
