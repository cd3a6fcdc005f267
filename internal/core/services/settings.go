package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/qa-agent/internal/core/domain"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driven"
	"github.com/custodia-labs/qa-agent/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyCacheDir       = "loader.cache_dir"
	keyFetchTimeout   = "loader.timeout"
	keyChunkSize      = "index.chunk_size"
	keyOverlap        = "index.overlap"
	keyTopK           = "index.top_k"
	keyCollection     = "index.collection"
	keySplitter       = "index.splitter"
	keyCharChunkSize  = "index.char_chunk_size"
	keyCharOverlap    = "index.char_overlap"
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyEmbedRateLimit = "embedding.rate_limit"
	keyEmbedDims      = "embedding.dimensions"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyLLMTemperature = "llm.temperature"
	keyLLMMaxTokens   = "llm.max_tokens"
	keyVectorBackend  = "vectorstore.backend"
	keyVectorURL      = "vectorstore.url"
	keyVectorAPIKey   = "vectorstore.api_key"
	keyVectorDataDir  = "vectorstore.data_dir"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvQdrantURL    = "QDRANT_URL"
	EnvQdrantKey    = "QDRANT_API_KEY"
	EnvChromaURL    = "CHROMA_URL"
)

type settingKind int

const (
	kindString settingKind = iota
	kindSecret
	kindInt
	kindFloat
	kindProvider
	kindBackend
)

// settingKeys lists every key in display order.
var settingKeys = []struct {
	key  string
	kind settingKind
}{
	{keyCacheDir, kindString},
	{keyFetchTimeout, kindInt},
	{keyChunkSize, kindInt},
	{keyOverlap, kindInt},
	{keyTopK, kindInt},
	{keyCollection, kindString},
	{keySplitter, kindString},
	{keyCharChunkSize, kindInt},
	{keyCharOverlap, kindInt},
	{keyEmbedProvider, kindProvider},
	{keyEmbedModel, kindString},
	{keyEmbedBaseURL, kindString},
	{keyEmbedAPIKey, kindSecret},
	{keyEmbedRateLimit, kindFloat},
	{keyEmbedDims, kindInt},
	{keyLLMProvider, kindProvider},
	{keyLLMModel, kindString},
	{keyLLMBaseURL, kindString},
	{keyLLMAPIKey, kindSecret},
	{keyLLMTemperature, kindFloat},
	{keyLLMMaxTokens, kindInt},
	{keyVectorBackend, kindBackend},
	{keyVectorURL, kindString},
	{keyVectorAPIKey, kindSecret},
	{keyVectorDataDir, kindString},
}

// SettingsService resolves configuration from the config store and environment.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service. A nil lookupEnv reads
// the process environment.
func NewSettingsService(configStore driven.ConfigStore, lookupEnv func(string) (string, bool)) *SettingsService {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   lookupEnv,
	}
}

// Get assembles the effective configuration.
func (s *SettingsService) Get() (domain.Config, error) {
	cfg, _ := s.resolve()
	return cfg, nil
}

// resolve builds the configuration and reports which keys came from the environment.
func (s *SettingsService) resolve() (domain.Config, map[string]bool) {
	d := domain.DefaultConfig()

	embedProvider := s.getProvider(keyEmbedProvider, d.Embedding.Provider)
	llmProvider := s.getProvider(keyLLMProvider, d.LLM.Provider)

	cfg := domain.Config{
		Loader: domain.LoaderSettings{
			CacheDir: s.getString(keyCacheDir, d.Loader.CacheDir),
			Timeout:  time.Duration(s.getInt(keyFetchTimeout, int(d.Loader.Timeout/time.Second))) * time.Second,
		},
		Index: domain.IndexSettings{
			ChunkSize:     s.getInt(keyChunkSize, d.Index.ChunkSize),
			Overlap:       s.getInt(keyOverlap, d.Index.Overlap),
			TopK:          s.getInt(keyTopK, d.Index.TopK),
			Collection:    s.getString(keyCollection, d.Index.Collection),
			Splitter:      s.getString(keySplitter, d.Index.Splitter),
			CharChunkSize: s.getInt(keyCharChunkSize, d.Index.CharChunkSize),
			CharOverlap:   s.getInt(keyCharOverlap, d.Index.CharOverlap),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   embedProvider,
			Model:      s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[embedProvider]),
			BaseURL:    s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			RateLimit:  s.configStore.GetFloat(keyEmbedRateLimit),
			Dimensions: s.configStore.GetInt(keyEmbedDims),
		},
		LLM: domain.LLMSettings{
			Provider:    llmProvider,
			Model:       s.getString(keyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL),
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			Temperature: s.getFloat(keyLLMTemperature, d.LLM.Temperature),
			MaxTokens:   s.getInt(keyLLMMaxTokens, d.LLM.MaxTokens),
		},
		VectorStore: domain.VectorStoreSettings{
			Backend: s.getBackend(keyVectorBackend, d.VectorStore.Backend),
			URL:     s.configStore.GetString(keyVectorURL),
			APIKey:  s.configStore.GetString(keyVectorAPIKey),
			DataDir: s.getString(keyVectorDataDir, d.VectorStore.DataDir),
		},
	}

	fromEnv := make(map[string]bool)
	override := func(env, key string, target *string) {
		if v, ok := s.lookupEnv(env); ok && v != "" {
			*target = v
			fromEnv[key] = true
		}
	}

	switch cfg.Embedding.Provider {
	case domain.AIProviderOpenAI:
		override(EnvOpenAIKey, keyEmbedAPIKey, &cfg.Embedding.APIKey)
	case domain.AIProviderGemini:
		override(EnvGeminiKey, keyEmbedAPIKey, &cfg.Embedding.APIKey)
	}
	switch cfg.LLM.Provider {
	case domain.AIProviderOpenAI:
		override(EnvOpenAIKey, keyLLMAPIKey, &cfg.LLM.APIKey)
	case domain.AIProviderAnthropic:
		override(EnvAnthropicKey, keyLLMAPIKey, &cfg.LLM.APIKey)
	case domain.AIProviderGemini:
		override(EnvGeminiKey, keyLLMAPIKey, &cfg.LLM.APIKey)
	}
	switch cfg.VectorStore.Backend {
	case domain.BackendQdrant:
		override(EnvQdrantURL, keyVectorURL, &cfg.VectorStore.URL)
		override(EnvQdrantKey, keyVectorAPIKey, &cfg.VectorStore.APIKey)
	case domain.BackendChroma:
		override(EnvChromaURL, keyVectorURL, &cfg.VectorStore.URL)
	}

	return cfg, fromEnv
}

// Set parses value according to the key's type and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := kindOf(key)
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects an integer, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s expects a number, got %q", domain.ErrInvalidInput, key, value)
		}
		parsed = f
	case kindProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, value)
		}
		parsed = value
	case kindBackend:
		if !domain.VectorStoreBackend(value).IsValid() {
			return fmt.Errorf("%w: unknown vector store backend %q", domain.ErrInvalidInput, value)
		}
		parsed = value
	default:
		parsed = value
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// List returns every known key with its effective value.
func (s *SettingsService) List() ([]driving.Setting, error) {
	cfg, fromEnv := s.resolve()
	values := map[string]string{
		keyCacheDir:       cfg.Loader.CacheDir,
		keyFetchTimeout:   strconv.Itoa(int(cfg.Loader.Timeout / time.Second)),
		keyChunkSize:      strconv.Itoa(cfg.Index.ChunkSize),
		keyOverlap:        strconv.Itoa(cfg.Index.Overlap),
		keyTopK:           strconv.Itoa(cfg.Index.TopK),
		keyCollection:     cfg.Index.Collection,
		keySplitter:       cfg.Index.Splitter,
		keyCharChunkSize:  strconv.Itoa(cfg.Index.CharChunkSize),
		keyCharOverlap:    strconv.Itoa(cfg.Index.CharOverlap),
		keyEmbedProvider:  cfg.Embedding.Provider.String(),
		keyEmbedModel:     cfg.Embedding.Model,
		keyEmbedBaseURL:   cfg.Embedding.BaseURL,
		keyEmbedAPIKey:    cfg.Embedding.APIKey,
		keyEmbedRateLimit: formatFloat(cfg.Embedding.RateLimit),
		keyEmbedDims:      strconv.Itoa(cfg.Embedding.Dimensions),
		keyLLMProvider:    cfg.LLM.Provider.String(),
		keyLLMModel:       cfg.LLM.Model,
		keyLLMBaseURL:     cfg.LLM.BaseURL,
		keyLLMAPIKey:      cfg.LLM.APIKey,
		keyLLMTemperature: formatFloat(cfg.LLM.Temperature),
		keyLLMMaxTokens:   strconv.Itoa(cfg.LLM.MaxTokens),
		keyVectorBackend:  cfg.VectorStore.Backend.String(),
		keyVectorURL:      cfg.VectorStore.URL,
		keyVectorAPIKey:   cfg.VectorStore.APIKey,
		keyVectorDataDir:  cfg.VectorStore.DataDir,
	}

	out := make([]driving.Setting, 0, len(settingKeys))
	for _, k := range settingKeys {
		value := values[k.key]
		if k.kind == kindSecret {
			value = MaskSecret(value)
		}
		source := "default"
		switch {
		case fromEnv[k.key]:
			source = "env"
		case s.hasKey(k.key):
			source = "file"
		}
		out = append(out, driving.Setting{Key: k.key, Value: value, Source: source})
	}
	return out, nil
}

// Path returns the config file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// IsSecretKey reports whether key holds a credential.
func IsSecretKey(key string) bool {
	kind, ok := kindOf(key)
	return ok && kind == kindSecret
}

// MaskSecret keeps the last four characters of a secret.
func MaskSecret(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 4:
		return strings.Repeat("*", len(secret))
	default:
		return strings.Repeat("*", 8) + secret[len(secret)-4:]
	}
}

func kindOf(key string) (settingKind, bool) {
	for _, k := range settingKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return 0, false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) hasKey(key string) bool {
	_, ok := s.configStore.Get(key)
	return ok
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if !s.hasKey(key) {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if !s.hasKey(key) {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(key string, defaultVal domain.VectorStoreBackend) domain.VectorStoreBackend {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	backend := domain.VectorStoreBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
