package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/dig"

	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/config"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/handler"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/handler/stream"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/model/persona"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/ai"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/chat"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/embedding"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/memory"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/sentiment"
	"github.com/Aryan-B-Parikh/SoulSync-sub000/internal/service/turn"
)

// Closers collects resources opened while building the container.
type Closers struct {
	items []func(context.Context) error
}

func (c *Closers) add(fn func(context.Context) error) {
	c.items = append(c.items, fn)
}

// Close releases everything in reverse order of creation.
func (c *Closers) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.items) - 1; i >= 0; i-- {
		if err := c.items[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build registers every component of the service with a dig container.
func Build(ctx context.Context, cfg *config.Config) (*dig.Container, error) {
	c := dig.New()

	providers := []struct {
		name string
		fn   any
	}{
		{"config", func() *config.Config { return cfg }},
		{"closers", func() *Closers { return &Closers{} }},
		{"persona store", func() persona.Store { return persona.NewMemoryStore(persona.Seed()) }},
		{"chat store", func(cfg *config.Config, closers *Closers) (chat.Store, error) {
			return provideChatStore(ctx, cfg.Store, closers)
		}},
		{"embedder", func(cfg *config.Config, closers *Closers) embedding.Embedder {
			return provideEmbedder(ctx, cfg, closers)
		}},
		{"memory backend", func(cfg *config.Config, closers *Closers) (memory.Backend, error) {
			return provideMemoryBackend(ctx, cfg, closers)
		}},
		{"memory service", func(cfg *config.Config, backend memory.Backend) *memory.Service {
			return memory.NewService(backend, cfg.Memory.TopK, cfg.Memory.MinScore)
		}},
		{"ai client", func(cfg *config.Config, closers *Closers) ai.Client {
			return provideAIClient(ctx, cfg.AI, closers)
		}},
		{"sentiment service", func(cfg *config.Config, client ai.Client, store chat.Store) *sentiment.Service {
			var classifier sentiment.Classifier
			if client != nil {
				classifier = client
			}
			svc := sentiment.NewService(classifier, store, sentiment.Config{Enabled: cfg.AI.SentimentLLMEnabled})
			if !svc.Enabled() {
				log.Println("[sentiment] model second opinion disabled, lexicon scores only")
			}
			return svc
		}},
		{"prompt builder", ai.NewPromptBuilder},
		{"turn service", provideTurnService},
		{"router", func(cfg *config.Config, personas persona.Store, store chat.Store, memories *memory.Service, client ai.Client, turns *turn.Service) http.Handler {
			var runner stream.TurnRunner
			if client != nil {
				runner = turns
			}
			return handler.NewRouter(handler.RouterDeps{
				JWTSecret: cfg.Auth.JWTSecret,
				Personas:  personas,
				Store:     store,
				Turns:     runner,
				Memories:  memories,
			})
		}},
	}

	for _, p := range providers {
		if err := c.Provide(p.fn); err != nil {
			return nil, fmt.Errorf("provide %s: %w", p.name, err)
		}
	}
	return c, nil
}

func provideChatStore(ctx context.Context, cfg config.StoreConfig, closers *Closers) (chat.Store, error) {
	if cfg.Backend != config.StoreMongo {
		log.Println("[store] using in-process conversation store")
		return chat.NewService(), nil
	}

	client, err := chat.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	closers.add(client.Disconnect)

	store, err := chat.NewMongoStore(ctx, client, cfg.MongoDB)
	if err != nil {
		return nil, err
	}
	log.Printf("[store] using mongodb database=%s", cfg.MongoDB)
	return store, nil
}

func provideEmbedder(ctx context.Context, cfg *config.Config, closers *Closers) embedding.Embedder {
	var base embedding.Embedder
	switch cfg.Embedding.Provider {
	case config.EmbeddingOpenAI:
		base = embedding.NewRemoteEmbedder(cfg.Embedding.APIKey, cfg.Embedding.BaseURL, cfg.Embedding.Model, cfg.Embedding.Dimensions)
	default:
		base = embedding.NewLocalEmbedder(cfg.Embedding.Dimensions)
	}

	if !cfg.Redis.Enabled() {
		return base
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[embedding] redis unavailable at %s, cache disabled: %v", cfg.Redis.Addr, err)
		_ = client.Close()
		return base
	}
	closers.add(func(context.Context) error { return client.Close() })

	namespace := fmt.Sprintf("%s:%s:%d", cfg.Embedding.Provider, cfg.Embedding.Model, base.Dimensions())
	log.Printf("[embedding] caching vectors in redis namespace=%s", namespace)
	return embedding.NewCachedEmbedder(base, client, namespace, cfg.Embedding.CacheTTL)
}

func provideMemoryBackend(ctx context.Context, cfg *config.Config, closers *Closers) (memory.Backend, error) {
	if cfg.Memory.Backend != config.MemoryPGVector {
		log.Println("[memory] using in-process vector store")
		return memory.NewInMemoryBackend(), nil
	}

	backend, err := memory.OpenPGVector(ctx, cfg.Memory.DatabaseURL, cfg.Embedding.Dimensions)
	if err != nil {
		return nil, err
	}
	closers.add(func(context.Context) error { return backend.Close() })
	log.Println("[memory] using pgvector store")
	return backend, nil
}

func provideAIClient(ctx context.Context, cfg config.AIConfig, closers *Closers) ai.Client {
	if !cfg.Enabled() {
		log.Printf("[ai] provider %s not configured, skipping AI initialisation", cfg.Provider)
		return nil
	}

	client, err := ai.NewClient(ctx, cfg)
	if err != nil {
		log.Printf("[ai] failed to initialise provider %s: %v", cfg.Provider, err)
		return nil
	}
	if c, ok := client.(io.Closer); ok {
		closers.add(func(context.Context) error { return c.Close() })
	}
	log.Printf("[ai] provider %s initialised", cfg.Provider)
	return client
}

func provideTurnService(
	cfg *config.Config,
	store chat.Store,
	personas persona.Store,
	embedder embedding.Embedder,
	memories *memory.Service,
	client ai.Client,
	prompts *ai.PromptBuilder,
	reconciler *sentiment.Service,
) *turn.Service {
	deps := turn.Deps{
		Store:      store,
		Personas:   personas,
		Embedder:   embedder,
		Memory:     memories,
		Prompts:    prompts,
		Reconciler: reconciler,
	}
	if client != nil {
		deps.Completer = client
	}
	return turn.NewService(deps, turn.Config{
		HistoryLimit:     cfg.Turn.HistoryLimit,
		TopK:             cfg.Memory.TopK,
		ReconcileTimeout: cfg.Turn.ReconcileTimeout,
	})
}
