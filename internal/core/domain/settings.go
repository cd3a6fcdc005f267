package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// SupportsEmbeddings returns true if the provider offers an embedding API.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderOllama || p == AIProviderOpenAI || p == AIProviderGemini
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// VectorStoreBackend identifies a vector store implementation.
type VectorStoreBackend string

// Available vector store backends.
const (
	// BackendMemory keeps records in process memory.
	BackendMemory VectorStoreBackend = "memory"

	// BackendSQLite persists records in a local SQLite database.
	BackendSQLite VectorStoreBackend = "sqlite"

	// BackendQdrant talks to a Qdrant server over REST.
	BackendQdrant VectorStoreBackend = "qdrant"

	// BackendChroma talks to a Chroma server.
	BackendChroma VectorStoreBackend = "chroma"
)

// IsValid returns true if the backend is recognised.
func (b VectorStoreBackend) IsValid() bool {
	switch b {
	case BackendMemory, BackendSQLite, BackendQdrant, BackendChroma:
		return true
	default:
		return false
	}
}

// IsRemote returns true if the backend is reached over the network.
func (b VectorStoreBackend) IsRemote() bool {
	return b == BackendQdrant || b == BackendChroma
}

// String returns the string representation.
func (b VectorStoreBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b VectorStoreBackend) Description() string {
	switch b {
	case BackendMemory:
		return "In-memory (not persisted)"
	case BackendSQLite:
		return "SQLite (local file)"
	case BackendQdrant:
		return "Qdrant (server)"
	case BackendChroma:
		return "Chroma (server)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string

	// RateLimit caps requests per second. Zero disables throttling.
	RateLimit float64

	// Dimensions overrides the vector size. Zero looks the model up in
	// EmbeddingDimensions.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || !e.Provider.SupportsEmbeddings() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string

	// Temperature is the sampling temperature.
	Temperature float64

	// MaxTokens caps the answer length.
	MaxTokens int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// LoaderSettings holds document loader configuration.
type LoaderSettings struct {
	// CacheDir is where fetched documents are cached.
	CacheDir string

	// Timeout bounds a single fetch.
	Timeout time.Duration
}

// IndexSettings holds chunking and retrieval configuration.
type IndexSettings struct {
	// ChunkSize is the number of words per chunk.
	ChunkSize int

	// Overlap is the number of words shared with the previous chunk.
	Overlap int

	// TopK is the number of chunks retrieved per query.
	TopK int

	// Collection is the vector store collection name.
	Collection string

	// Splitter names the text splitting strategy.
	Splitter string

	// CharChunkSize is the number of characters per chunk for the
	// recursive splitter.
	CharChunkSize int

	// CharOverlap is the number of characters shared between recursive chunks.
	CharOverlap int
}

// VectorStoreSettings holds vector store configuration.
type VectorStoreSettings struct {
	// Backend selects the implementation.
	Backend VectorStoreBackend

	// URL is the server address for remote backends.
	URL string

	// APIKey authenticates against remote backends.
	APIKey string

	// DataDir holds local database files.
	DataDir string
}

// Config is the complete application configuration.
// It is assembled once at startup, validated, then passed to factories.
type Config struct {
	Loader      LoaderSettings
	Index       IndexSettings
	Embedding   EmbeddingSettings
	LLM         LLMSettings
	VectorStore VectorStoreSettings
}

// Default values.
const (
	DefaultCacheDir       = "./loader_cache"
	DefaultFetchTimeout   = 30 * time.Second
	DefaultChunkSize      = 150
	DefaultOverlap        = 25
	DefaultTopK           = 5
	DefaultCollection     = "textsplits"
	DefaultSplitter       = "words"
	DefaultCharChunkSize  = 1000
	DefaultCharOverlap    = 100
	DefaultTemperature    = 0.0
	DefaultMaxTokens      = 256
	DefaultVectorStoreDir = "./qa_data"
)

// DefaultConfig returns a configuration with the stock pipeline values.
// AI providers default to OpenAI and still require an API key.
// Vectors persist in SQLite under ./qa_data so one-shot commands share an index.
func DefaultConfig() Config {
	return Config{
		Loader: LoaderSettings{
			CacheDir: DefaultCacheDir,
			Timeout:  DefaultFetchTimeout,
		},
		Index: IndexSettings{
			ChunkSize:     DefaultChunkSize,
			Overlap:       DefaultOverlap,
			TopK:          DefaultTopK,
			Collection:    DefaultCollection,
			Splitter:      DefaultSplitter,
			CharChunkSize: DefaultCharChunkSize,
			CharOverlap:   DefaultCharOverlap,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModels()[AIProviderOpenAI],
		},
		LLM: LLMSettings{
			Provider:    AIProviderOpenAI,
			Model:       DefaultLLMModels()[AIProviderOpenAI],
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
		},
		VectorStore: VectorStoreSettings{
			Backend: BackendSQLite,
			DataDir: DefaultVectorStoreDir,
		},
	}
}

// Validate checks the configuration and returns the first problem found.
// All errors wrap ErrInvalidInput or ErrNotConfigured.
func (c Config) Validate() error {
	if c.Index.ChunkSize <= 0 {
		return fmt.Errorf("%w: index.chunk_size must be positive, got %d", ErrInvalidInput, c.Index.ChunkSize)
	}
	if c.Index.Overlap < 0 {
		return fmt.Errorf("%w: index.overlap must not be negative, got %d", ErrInvalidInput, c.Index.Overlap)
	}
	if c.Index.Overlap >= c.Index.ChunkSize {
		return fmt.Errorf("%w: index.overlap (%d) must be smaller than index.chunk_size (%d)",
			ErrInvalidInput, c.Index.Overlap, c.Index.ChunkSize)
	}
	if c.Index.CharChunkSize <= 0 {
		return fmt.Errorf("%w: index.char_chunk_size must be positive, got %d", ErrInvalidInput, c.Index.CharChunkSize)
	}
	if c.Index.CharOverlap < 0 || c.Index.CharOverlap >= c.Index.CharChunkSize {
		return fmt.Errorf("%w: index.char_overlap (%d) must be in [0, %d)",
			ErrInvalidInput, c.Index.CharOverlap, c.Index.CharChunkSize)
	}
	if c.Index.TopK <= 0 {
		return fmt.Errorf("%w: index.top_k must be positive, got %d", ErrInvalidInput, c.Index.TopK)
	}
	if c.Index.Collection == "" {
		return fmt.Errorf("%w: index.collection is empty", ErrInvalidInput)
	}
	if c.Loader.CacheDir == "" {
		return fmt.Errorf("%w: loader.cache_dir is empty", ErrInvalidInput)
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("%w: embedding.dimensions must not be negative, got %d", ErrInvalidInput, c.Embedding.Dimensions)
	}
	if !c.VectorStore.Backend.IsValid() {
		return fmt.Errorf("%w: unknown vector store backend %q", ErrInvalidInput, c.VectorStore.Backend)
	}
	if c.VectorStore.Backend.IsRemote() && c.VectorStore.URL == "" {
		return fmt.Errorf("%w: vectorstore.url is required for %s", ErrNotConfigured, c.VectorStore.Backend)
	}
	if !c.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q", ErrNotConfigured, c.Embedding.Provider)
	}
	if !c.LLM.IsConfigured() {
		return fmt.Errorf("%w: llm provider %q", ErrNotConfigured, c.LLM.Provider)
	}
	return nil
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGemini,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// AllVectorStoreBackends returns every vector store backend.
func AllVectorStoreBackends() []VectorStoreBackend {
	return []VectorStoreBackend{
		BackendMemory,
		BackendSQLite,
		BackendQdrant,
		BackendChroma,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-3.5-turbo",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
		AIProviderGemini:    "gemini-2.5-flash",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"text-embedding-004":   768,
		"gemini-embedding-001": 3072,
	}
}
