package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	arkmodel "github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
)

// LLM providers.
const (
	ProviderArk    = "ark"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Embedding, memory and store backends.
const (
	EmbeddingLocal  = "local"
	EmbeddingOpenAI = "openai"

	MemoryInProcess = "memory"
	MemoryPGVector  = "pgvector"

	StoreInProcess = "memory"
	StoreMongo     = "mongo"
)

// Config aggregates every section of the service configuration.
type Config struct {
	Server    ServerConfig
	AI        AIConfig
	Embedding EmbeddingConfig
	Memory    MemoryConfig
	Store     StoreConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Turn      TurnConfig
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	embedding, err := loadEmbeddingConfig()
	if err != nil {
		return nil, err
	}

	memory, err := loadMemoryConfig()
	if err != nil {
		return nil, err
	}

	store, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	redis, err := loadRedisConfig()
	if err != nil {
		return nil, err
	}

	auth, err := loadAuthConfig()
	if err != nil {
		return nil, err
	}

	turn, err := loadTurnConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:    server,
		AI:        ai,
		Embedding: embedding,
		Memory:    memory,
		Store:     store,
		Redis:     redis,
		Auth:      auth,
		Turn:      turn,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as given.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the completion provider.
type AIConfig struct {
	Provider string

	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	GeminiAPIKey string
	GeminiModel  string

	SentimentLLMEnabled bool
}

// Enabled reports whether the selected provider has the credentials it needs.
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey != "" && c.OpenAIModel != ""
	case ProviderGemini:
		return c.GeminiAPIKey != "" && c.GeminiModel != ""
	default:
		return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
	}
}

// NewChatModel builds the ark chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	cfg, err := c.arkChatModelConfig(false)
	if err != nil {
		return nil, err
	}
	return ark.NewChatModel(ctx, cfg)
}

// NewClassifierModel builds an ark chat model that answers in a JSON object
// at temperature 0, used for the sentiment verdict.
func (c AIConfig) NewClassifierModel(ctx context.Context) (model.ChatModel, error) {
	cfg, err := c.arkChatModelConfig(true)
	if err != nil {
		return nil, err
	}
	return ark.NewChatModel(ctx, cfg)
}

func (c AIConfig) arkChatModelConfig(jsonVerdict bool) (*ark.ChatModelConfig, error) {
	if c.Model == "" || (c.APIKey == "" && (c.AccessKey == "" || c.SecretKey == "")) {
		return nil, errors.New("ark credentials or model missing: provide ARK_API_KEY + Model or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	if jsonVerdict {
		zero := float32(0)
		cfg.Temperature = &zero
		cfg.TopP = nil
		cfg.ResponseFormat = &ark.ResponseFormat{
			Type: arkmodel.ResponseFormatJsonObject,
		}
	}
	return cfg, nil
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	sentimentEnabled, err := parseBoolEnv("SENTIMENT_LLM_ENABLED", true)
	if err != nil {
		return AIConfig{}, err
	}

	provider := strings.ToLower(getEnvOrDefault("LLM_PROVIDER", ProviderArk))
	switch provider {
	case ProviderArk, ProviderOpenAI, ProviderGemini:
	default:
		return AIConfig{}, fmt.Errorf("invalid LLM_PROVIDER value %q", provider)
	}

	return AIConfig{
		Provider:            provider,
		APIKey:              strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:           strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:           strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:               strings.TrimSpace(os.Getenv("Model")),
		BaseURL:             getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:              getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:         temperature,
		TopP:                topP,
		MaxTokens:           maxTokens,
		OpenAIAPIKey:        strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:       strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
		OpenAIModel:         getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:        strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:         getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		SentimentLLMEnabled: sentimentEnabled,
	}, nil
}

// EmbeddingConfig selects the embedding model.
type EmbeddingConfig struct {
	Provider   string
	BaseURL    string
	APIKey     string
	Model      string
	Dimensions int
	CacheTTL   time.Duration
}

func loadEmbeddingConfig() (EmbeddingConfig, error) {
	dims := 384
	if override, err := parseOptionalIntEnv("EMBEDDING_DIMENSIONS"); err != nil {
		return EmbeddingConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return EmbeddingConfig{}, fmt.Errorf("invalid EMBEDDING_DIMENSIONS value %d", *override)
		}
		dims = *override
	}

	ttl := 7 * 24 * time.Hour
	if hours, err := parseOptionalIntEnv("EMBEDDING_CACHE_TTL_HOURS"); err != nil {
		return EmbeddingConfig{}, err
	} else if hours != nil {
		ttl = time.Duration(*hours) * time.Hour
	}

	provider := strings.ToLower(getEnvOrDefault("EMBEDDING_PROVIDER", EmbeddingLocal))
	if provider != EmbeddingLocal && provider != EmbeddingOpenAI {
		return EmbeddingConfig{}, fmt.Errorf("invalid EMBEDDING_PROVIDER value %q", provider)
	}

	return EmbeddingConfig{
		Provider:   provider,
		BaseURL:    strings.TrimSpace(os.Getenv("EMBEDDING_BASE_URL")),
		APIKey:     strings.TrimSpace(os.Getenv("EMBEDDING_API_KEY")),
		Model:      getEnvOrDefault("EMBEDDING_MODEL", "all-MiniLM-L6-v2"),
		Dimensions: dims,
		CacheTTL:   ttl,
	}, nil
}

// MemoryConfig selects the vector backend and retrieval parameters.
type MemoryConfig struct {
	Backend     string
	DatabaseURL string
	TopK        int
	MinScore    float64
}

func loadMemoryConfig() (MemoryConfig, error) {
	topK := 3
	if override, err := parseOptionalIntEnv("MEMORY_TOP_K"); err != nil {
		return MemoryConfig{}, err
	} else if override != nil && *override > 0 {
		topK = *override
	}

	minScore := 0.25
	if override, err := parseOptionalFloatEnv("MEMORY_MIN_SCORE"); err != nil {
		return MemoryConfig{}, err
	} else if override != nil {
		minScore = *override
	}

	backend := strings.ToLower(getEnvOrDefault("MEMORY_BACKEND", MemoryInProcess))
	dsn := strings.TrimSpace(os.Getenv("MEMORY_DATABASE_URL"))
	switch backend {
	case MemoryInProcess:
	case MemoryPGVector:
		if dsn == "" {
			return MemoryConfig{}, errors.New("MEMORY_DATABASE_URL is required for the pgvector backend")
		}
	default:
		return MemoryConfig{}, fmt.Errorf("invalid MEMORY_BACKEND value %q", backend)
	}

	return MemoryConfig{
		Backend:     backend,
		DatabaseURL: dsn,
		TopK:        topK,
		MinScore:    minScore,
	}, nil
}

// StoreConfig selects the conversation/message persistence backend.
type StoreConfig struct {
	Backend  string
	MongoURI string
	MongoDB  string
}

func loadStoreConfig() (StoreConfig, error) {
	backend := strings.ToLower(getEnvOrDefault("STORE_BACKEND", StoreInProcess))
	uri := strings.TrimSpace(os.Getenv("MONGODB_URI"))
	switch backend {
	case StoreInProcess:
	case StoreMongo:
		if uri == "" {
			return StoreConfig{}, errors.New("MONGODB_URI is required for the mongo store")
		}
	default:
		return StoreConfig{}, fmt.Errorf("invalid STORE_BACKEND value %q", backend)
	}

	return StoreConfig{
		Backend:  backend,
		MongoURI: uri,
		MongoDB:  getEnvOrDefault("MONGODB_NAME", "soulsync"),
	}, nil
}

// RedisConfig configures the embedding cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a redis address was configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

func loadRedisConfig() (RedisConfig, error) {
	db := 0
	if override, err := parseOptionalIntEnv("REDIS_DB"); err != nil {
		return RedisConfig{}, err
	} else if override != nil {
		db = *override
	}

	return RedisConfig{
		Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

// AuthConfig holds the secret used to resolve owner ids from bearer tokens.
type AuthConfig struct {
	JWTSecret string
}

func loadAuthConfig() (AuthConfig, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return AuthConfig{}, errors.New("JWT_SECRET is required")
	}
	return AuthConfig{JWTSecret: secret}, nil
}

// TurnConfig tunes the per-turn pipeline.
type TurnConfig struct {
	HistoryLimit     int
	ReconcileTimeout time.Duration
}

func loadTurnConfig() (TurnConfig, error) {
	history := 10
	if override, err := parseOptionalIntEnv("HISTORY_LIMIT"); err != nil {
		return TurnConfig{}, err
	} else if override != nil {
		if *override < 1 {
			history = 1
		} else {
			history = *override
		}
	}

	timeout := 30 * time.Second
	if override, err := parseOptionalIntEnv("RECONCILE_TIMEOUT_SECONDS"); err != nil {
		return TurnConfig{}, err
	} else if override != nil && *override > 0 {
		timeout = time.Duration(*override) * time.Second
	}

	return TurnConfig{HistoryLimit: history, ReconcileTimeout: timeout}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
