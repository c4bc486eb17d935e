package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyVectorBackend    = "vector_store.backend"
	keyVectorHost       = "vector_store.host"
	keyVectorPort       = "vector_store.port"
	keyVectorCollection = "vector_store.collection"
	keyVectorDims       = "vector_store.dimensions"
	keyRetrievalTopK    = "retrieval.top_k"
	keyRetrievalMaxDocs = "retrieval.max_documents"
	keyRetrievalFloor   = "retrieval.similarity_floor"
	keyRetrievalHistory = "retrieval.history_turns"
	keyRetrievalTokens  = "retrieval.max_context_tokens"
	keyJobsWorkers      = "jobs.workers"
	keyJobsQueueSize    = "jobs.queue_size"
	keyJobsRetainFor    = "jobs.retain_for"
	keyWatchDebounce    = "watch.debounce"
	keyWatchExtensions  = "watch.extensions"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		VectorStore: domain.VectorStoreSettings{
			Backend:    s.getBackend(defaults.VectorStore.Backend),
			Host:       s.getString(keyVectorHost, defaults.VectorStore.Host),
			Port:       s.getInt(keyVectorPort, defaults.VectorStore.Port),
			Collection: s.getString(keyVectorCollection, defaults.VectorStore.Collection),
			Dimensions: s.getInt(keyVectorDims, defaults.VectorStore.Dimensions),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:             s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
			MaxDocuments:     s.getInt(keyRetrievalMaxDocs, defaults.Retrieval.MaxDocuments),
			SimilarityFloor:  s.configStore.GetFloat(keyRetrievalFloor), // 0 means no floor
			HistoryTurns:     s.getInt(keyRetrievalHistory, defaults.Retrieval.HistoryTurns),
			MaxContextTokens: s.configStore.GetInt(keyRetrievalTokens), // 0 means unbounded
		},
		Jobs: domain.JobSettings{
			Workers:   s.getInt(keyJobsWorkers, defaults.Jobs.Workers),
			QueueSize: s.getInt(keyJobsQueueSize, defaults.Jobs.QueueSize),
			RetainFor: s.getDuration(keyJobsRetainFor, defaults.Jobs.RetainFor),
		},
		Watch: domain.WatchSettings{
			Debounce:   s.getDuration(keyWatchDebounce, defaults.Watch.Debounce),
			Extensions: s.getStringSlice(keyWatchExtensions, defaults.Watch.Extensions),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save vector store settings
	if err := s.configStore.Set(keyVectorBackend, settings.VectorStore.Backend.String()); err != nil {
		return fmt.Errorf("save vector backend: %w", err)
	}
	if err := s.configStore.Set(keyVectorHost, settings.VectorStore.Host); err != nil {
		return fmt.Errorf("save vector host: %w", err)
	}
	if err := s.configStore.Set(keyVectorPort, settings.VectorStore.Port); err != nil {
		return fmt.Errorf("save vector port: %w", err)
	}
	if err := s.configStore.Set(keyVectorCollection, settings.VectorStore.Collection); err != nil {
		return fmt.Errorf("save vector collection: %w", err)
	}
	if err := s.configStore.Set(keyVectorDims, settings.VectorStore.Dimensions); err != nil {
		return fmt.Errorf("save vector dimensions: %w", err)
	}

	// Save retrieval settings
	if err := s.configStore.Set(keyRetrievalTopK, settings.Retrieval.TopK); err != nil {
		return fmt.Errorf("save retrieval top_k: %w", err)
	}
	if err := s.configStore.Set(keyRetrievalMaxDocs, settings.Retrieval.MaxDocuments); err != nil {
		return fmt.Errorf("save retrieval max_documents: %w", err)
	}
	if err := s.configStore.Set(keyRetrievalFloor, settings.Retrieval.SimilarityFloor); err != nil {
		return fmt.Errorf("save retrieval similarity_floor: %w", err)
	}
	if err := s.configStore.Set(keyRetrievalHistory, settings.Retrieval.HistoryTurns); err != nil {
		return fmt.Errorf("save retrieval history_turns: %w", err)
	}
	if err := s.configStore.Set(keyRetrievalTokens, settings.Retrieval.MaxContextTokens); err != nil {
		return fmt.Errorf("save retrieval max_context_tokens: %w", err)
	}

	// Save job settings
	if err := s.configStore.Set(keyJobsWorkers, settings.Jobs.Workers); err != nil {
		return fmt.Errorf("save jobs workers: %w", err)
	}
	if err := s.configStore.Set(keyJobsQueueSize, settings.Jobs.QueueSize); err != nil {
		return fmt.Errorf("save jobs queue_size: %w", err)
	}
	if err := s.configStore.Set(keyJobsRetainFor, settings.Jobs.RetainFor.String()); err != nil {
		return fmt.Errorf("save jobs retain_for: %w", err)
	}

	// Save watch settings
	if err := s.configStore.Set(keyWatchDebounce, settings.Watch.Debounce.String()); err != nil {
		return fmt.Errorf("save watch debounce: %w", err)
	}
	if err := s.configStore.Set(keyWatchExtensions, settings.Watch.Extensions); err != nil {
		return fmt.Errorf("save watch extensions: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	validProviders := domain.AllEmbeddingProviders()
	valid := false
	for _, p := range validProviders {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		defaults := domain.DefaultEmbeddingModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Embedding.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	// Set API key
	settings.Embedding.APIKey = apiKey

	// Keep the index dimensionality in sync with the model
	dims := domain.EmbeddingDimensions()
	if d, ok := dims[settings.Embedding.Model]; ok {
		settings.VectorStore.Dimensions = d
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	// Set API key
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetVectorBackend selects the vector index implementation.
func (s *SettingsService) SetVectorBackend(backend domain.VectorBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid vector backend: %s", backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.VectorStore.Backend = backend
	return s.Save(settings)
}

// SetKey writes one raw configuration key. Values that parse as int,
// float, or bool are stored typed; everything else as a string.
func (s *SettingsService) SetKey(key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: empty config key", domain.ErrInvalidInput)
	}

	var v any = value
	if i, err := strconv.Atoi(value); err == nil {
		v = i
	} else if f, err := strconv.ParseFloat(value, 64); err == nil {
		v = f
	} else if b, err := strconv.ParseBool(value); err == nil {
		v = b
	}

	if err := s.configStore.Set(key, v); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Validate checks if current settings form a usable configuration.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.VectorStore.Backend.IsValid() {
		return fmt.Errorf("invalid vector backend: %s", settings.VectorStore.Backend)
	}

	// Ingestion cannot run without embeddings
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider", domain.ErrNotConfigured)
	}

	if settings.VectorStore.Dimensions <= 0 {
		return fmt.Errorf("vector dimensions must be positive, got %d", settings.VectorStore.Dimensions)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// GetPipelineConfig returns the post-processor pipeline configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	defaults := domain.DefaultPipelineConfig()

	// Try to load processors list from config
	if processors := s.configStore.GetStringSlice("pipeline.processors"); len(processors) > 0 {
		defaults.Processors = processors
	}

	// Load per-processor configs
	// For each known processor, check if config exists
	for _, name := range defaults.Processors {
		prefix := "pipeline." + name + "."
		cfg := s.loadProcessorConfig(prefix)
		if len(cfg) > 0 {
			if defaults.ProcessorConfigs == nil {
				defaults.ProcessorConfigs = make(map[string]map[string]any)
			}
			// Merge with existing defaults
			existing := defaults.ProcessorConfigs[name]
			if existing == nil {
				existing = make(map[string]any)
			}
			for k, v := range cfg {
				existing[k] = v
			}
			defaults.ProcessorConfigs[name] = existing
		}
	}

	return defaults
}

// loadProcessorConfig loads config keys with a given prefix into a map.
func (s *SettingsService) loadProcessorConfig(prefix string) map[string]any {
	cfg := make(map[string]any)

	// Check common processor config keys
	knownKeys := []string{"chunk_size", "max_length", "model"}
	for _, key := range knownKeys {
		fullKey := prefix + key
		if val, exists := s.configStore.Get(fullKey); exists {
			cfg[key] = val
		}
	}

	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
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

func (s *SettingsService) getBackend(defaultVal domain.VectorBackend) domain.VectorBackend {
	val := s.configStore.GetString(keyVectorBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.VectorBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
