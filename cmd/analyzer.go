package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/pathfinder/internal/ai"
	"github.com/spigell/pathfinder/internal/ai/gemini"
	"github.com/spigell/pathfinder/internal/ai/proxy"
	"github.com/spigell/pathfinder/internal/questionnaire"
	"github.com/spigell/pathfinder/internal/secrets"
)

func loadCatalog(config *Config) (*questionnaire.Catalog, error) {
	path := strings.TrimSpace(config.CatalogFile)
	if path == "" {
		return questionnaire.Default(), nil
	}
	return questionnaire.LoadCatalog(path)
}

func newAnalyzer(ctx context.Context, cfg *AnalysisConfig, catalog *questionnaire.Catalog, logger *zap.Logger) (ai.Analyzer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", proxy.Provider:
		endpoint := strings.TrimSpace(cfg.Proxy.Endpoint)
		if endpoint == "" {
			return nil, fmt.Errorf("analysis endpoint is not configured (set analysis.proxy.endpoint or PATHFINDER_PROXY_ENDPOINT)")
		}

		client, err := proxy.New(endpoint, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Proxy.UserAgent != "" {
			client.UserAgent = cfg.Proxy.UserAgent
		}
		if cfg.Proxy.MaxLogLength > 0 {
			client.MaxLogLength = cfg.Proxy.MaxLogLength
		}
		return client, nil

	case gemini.Provider:
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
			Env:  "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set analysis.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}

		return gemini.NewAnalyzer(generator, catalog, logger, cfg.Gemini.MaxLogLength), nil

	default:
		return nil, fmt.Errorf("unsupported analysis provider: %s", cfg.Provider)
	}
}
