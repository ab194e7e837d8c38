package domain

import "fmt"

const unknownDescription = "Unknown"

// Chunking defaults, in characters of normalised text.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100
)

// DefaultEmbeddingDimensions is the vector width of all-MiniLM-L6-v2,
// which the local embedder mirrors.
const DefaultEmbeddingDimensions = 384

// EmbeddingProvider identifies the service that turns text into vectors.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderLocal is the offline feature-hashing embedder.
	EmbeddingProviderLocal EmbeddingProvider = "local"

	// EmbeddingProviderHuggingFace is the Hugging Face inference API.
	EmbeddingProviderHuggingFace EmbeddingProvider = "huggingface"

	// EmbeddingProviderOpenAI is OpenAI cloud API.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"

	// EmbeddingProviderOllama is local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"
)

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderLocal, EmbeddingProviderHuggingFace, EmbeddingProviderOpenAI, EmbeddingProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == EmbeddingProviderHuggingFace || p == EmbeddingProviderOpenAI
}

// IsRemote returns true if this provider is reached over HTTP.
func (p EmbeddingProvider) IsRemote() bool {
	return p != EmbeddingProviderLocal
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case EmbeddingProviderLocal:
		return "Local (feature hashing, offline)"
	case EmbeddingProviderHuggingFace:
		return "Hugging Face (inference API)"
	case EmbeddingProviderOpenAI:
		return "OpenAI (cloud)"
	case EmbeddingProviderOllama:
		return "Ollama (local server)"
	default:
		return unknownDescription
	}
}

// StoreBackend identifies where the vector store is persisted.
type StoreBackend string

// Available store backends.
const (
	// StoreBackendJSON is a single JSON document rewritten on every mutation.
	StoreBackendJSON StoreBackend = "json"

	// StoreBackendSQLite keeps the snapshot in a SQLite database.
	StoreBackendSQLite StoreBackend = "sqlite"

	// StoreBackendMemory keeps the snapshot in process memory only.
	StoreBackendMemory StoreBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreBackendJSON, StoreBackendSQLite, StoreBackendMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// ChunkingSettings controls how documents are split.
type ChunkingSettings struct {
	// Size is the nominal chunk length in characters.
	Size int

	// Overlap is the number of characters shared by consecutive chunks.
	Overlap int
}

// Validate checks that chunking can make progress.
func (c ChunkingSettings) Validate() error {
	return ValidateChunking(c.Size, c.Overlap)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider EmbeddingProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (for Hugging Face and OpenAI).
	APIKey string

	// Dimensions is the expected vector width. Zero uses the model default.
	Dimensions int

	// RequestsPerSecond throttles remote providers. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// StoreSettings holds vector store configuration.
type StoreSettings struct {
	// Backend selects the storage adapter.
	Backend StoreBackend

	// Path is the store location. Empty uses the backend default under the data directory.
	Path string
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// TopK is the default result count.
	TopK int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Chunking  ChunkingSettings
	Embedding EmbeddingSettings
	Store     StoreSettings
	Search    SearchSettings
}

// DefaultAppSettings returns settings that work offline without any setup.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: ChunkingSettings{
			Size:    DefaultChunkSize,
			Overlap: DefaultChunkOverlap,
		},
		Embedding: EmbeddingSettings{
			Provider:   EmbeddingProviderLocal,
			Model:      DefaultEmbeddingModels()[EmbeddingProviderLocal],
			Dimensions: DefaultEmbeddingDimensions,
		},
		Store: StoreSettings{
			Backend: StoreBackendJSON,
		},
		Search: SearchSettings{
			TopK: DefaultTopK,
		},
	}
}

// AllEmbeddingProviders returns every supported provider.
func AllEmbeddingProviders() []EmbeddingProvider {
	return []EmbeddingProvider{
		EmbeddingProviderLocal,
		EmbeddingProviderHuggingFace,
		EmbeddingProviderOpenAI,
		EmbeddingProviderOllama,
	}
}

// AllStoreBackends returns every supported store backend.
func AllStoreBackends() []StoreBackend {
	return []StoreBackend{
		StoreBackendJSON,
		StoreBackendSQLite,
		StoreBackendMemory,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[EmbeddingProvider]string {
	return map[EmbeddingProvider]string{
		EmbeddingProviderLocal:       "hashing-bow",
		EmbeddingProviderHuggingFace: "sentence-transformers/all-MiniLM-L6-v2",
		EmbeddingProviderOpenAI:      "text-embedding-3-small",
		EmbeddingProviderOllama:      "all-minilm",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"hashing-bow":                            DefaultEmbeddingDimensions,
		"sentence-transformers/all-MiniLM-L6-v2": 384,
		"all-minilm":                             384,
		"nomic-embed-text":                       768,
		"mxbai-embed-large":                      1024,
		"text-embedding-3-small":                 1536,
		"text-embedding-3-large":                 3072,
		"text-embedding-ada-002":                 1536,
	}
}

// ValidateChunking rejects sizes that would stop the chunk walk from advancing.
func ValidateChunking(size, overlap int) error {
	if size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidInput, size)
	}
	if overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidInput, overlap)
	}
	if overlap >= size {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", ErrInvalidInput, overlap, size)
	}
	return nil
}
