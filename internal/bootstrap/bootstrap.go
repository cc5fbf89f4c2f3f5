// Package bootstrap wires configuration into a ready-to-use assistant.
// Shared by the HTTP server and the CLI.
package bootstrap

import (
	"context"
	"fmt"
	"log"

	"roomie/internal/config"
	"roomie/internal/repository"
	"roomie/internal/resilience"
	"roomie/internal/service"
	"roomie/internal/utils"
)

// App holds the assembled pipeline and the resources to release on shutdown
type App struct {
	Assistant *service.Assistant
	Store     repository.Store
}

// Close releases the document store
func (a *App) Close() error {
	return a.Store.Close()
}

// New builds the store, completion provider and platform fetcher from cfg
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	utils.SetDebug(cfg.IsDebug())
	if utils.DebugEnabled() {
		log.Println("🔧 Debug logging enabled")
	}

	store, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if !cfg.OpenAI.Enabled {
		log.Println("⚠️  OpenAI is disabled - every question will get the retrieval failure reply")
		log.Println("   Set OPENAI_API_KEY environment variable to enable AI features")
	}
	completer := service.NewBreakerCompleter(
		service.NewCompleter(&cfg.OpenAI),
		resilience.NewCircuitBreaker("completion", cfg.Assistant.BreakerThreshold, cfg.Assistant.BreakerOpenDuration),
	)
	log.Printf("✅ Completion client initialized")
	log.Printf("   - API Base: %s", cfg.OpenAI.APIBase)
	log.Printf("   - Chat model: %s", cfg.OpenAI.ChatModel)
	log.Printf("   - Chat Temperature: %.2f", cfg.OpenAI.ChatTemperature)
	log.Printf("   - Chat MaxTokens: %d", cfg.OpenAI.ChatMaxTokens)

	platform := service.NewCachedDocumentFetcher(
		service.NewHTTPDocumentFetcher(cfg.Assistant.PlatformInfoURL, cfg.Assistant.CallTimeout),
		cfg.Assistant.PlatformInfoTTL,
	)

	assistant := service.NewAssistant(completer, store, platform, cfg.Assistant.CallTimeout)
	log.Println("✅ Assistant initialized")

	return &App{Assistant: assistant, Store: store}, nil
}

// NewStore connects the document store selected by STORE_DRIVER
func NewStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		repo, err := repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.Store.PostgreSQL.MaxConnections,
			cfg.Store.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		log.Println("✅ Connected to PostgreSQL database")
		return repo, nil

	case config.StoreDriverMongo:
		repo, err := repository.NewMongoRepository(ctx, cfg.Store.Mongo.URI, cfg.Store.Mongo.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		log.Printf("✅ Connected to MongoDB database %s", cfg.Store.Mongo.Database)
		return repo, nil

	case config.StoreDriverMemory:
		repo, err := repository.LoadMemoryStore(cfg.Store.Memory.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load memory store: %w", err)
		}
		log.Printf("✅ Using in-memory store (seed: %q)", cfg.Store.Memory.SeedFile)
		return repo, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
