package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	service := NewSettingsService(newMockConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.False(t, settings.Embedding.IsConfigured(), "AI providers start unconfigured")
	assert.False(t, settings.LLM.IsConfigured())
	assert.Equal(t, domain.VectorBackendQdrant, settings.VectorStore.Backend)
	assert.Equal(t, "localhost", settings.VectorStore.Host)
	assert.Equal(t, 6334, settings.VectorStore.Port)
	assert.Equal(t, "askdoc", settings.VectorStore.Collection)
	assert.Equal(t, 768, settings.VectorStore.Dimensions)
	assert.Equal(t, 5, settings.Retrieval.TopK)
	assert.Equal(t, 1, settings.Retrieval.MaxDocuments)
	assert.Equal(t, 6, settings.Retrieval.HistoryTurns)
	assert.Equal(t, 2, settings.Jobs.Workers)
	assert.Equal(t, 32, settings.Jobs.QueueSize)
	assert.Equal(t, 24*time.Hour, settings.Jobs.RetainFor)
	assert.Equal(t, 500*time.Millisecond, settings.Watch.Debounce)
	assert.Contains(t, settings.Watch.Extensions, ".md")
}

func TestSettingsService_Get_StoredValues(t *testing.T) {
	store := newMockConfigStore()
	store.values["embedding.provider"] = "ollama"
	store.values["embedding.model"] = "mxbai-embed-large"
	store.values["embedding.base_url"] = "http://localhost:11434"
	store.values["vector_store.backend"] = "memory"
	store.values["retrieval.top_k"] = 8
	store.values["retrieval.similarity_floor"] = 0.4
	store.values["jobs.retain_for"] = "2h"
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "mxbai-embed-large", settings.Embedding.Model)
	assert.Equal(t, domain.VectorBackendMemory, settings.VectorStore.Backend)
	assert.Equal(t, 8, settings.Retrieval.TopK)
	assert.InDelta(t, 0.4, settings.Retrieval.SimilarityFloor, 0.0001)
	assert.Equal(t, 2*time.Hour, settings.Jobs.RetainFor)
}

func TestSettingsService_Get_InvalidValuesFallBack(t *testing.T) {
	store := newMockConfigStore()
	store.values["embedding.provider"] = "skynet"
	store.values["vector_store.backend"] = "postgres"
	store.values["jobs.retain_for"] = "not a duration"
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProvider(""), settings.Embedding.Provider)
	assert.Equal(t, domain.VectorBackendQdrant, settings.VectorStore.Backend)
	assert.Equal(t, 24*time.Hour, settings.Jobs.RetainFor)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := newMockConfigStore()
	service := NewSettingsService(store, nil)

	settings, err := service.Get()
	require.NoError(t, err)
	settings.Embedding.Provider = domain.AIProviderOllama
	settings.Embedding.Model = "nomic-embed-text"
	settings.Embedding.BaseURL = "http://localhost:11434"
	settings.VectorStore.Backend = domain.VectorBackendMemory
	settings.Retrieval.TopK = 7
	settings.Jobs.Workers = 4
	settings.Watch.Debounce = time.Second

	require.NoError(t, service.Save(settings))

	loaded, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, loaded.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", loaded.Embedding.Model)
	assert.Equal(t, domain.VectorBackendMemory, loaded.VectorStore.Backend)
	assert.Equal(t, 7, loaded.Retrieval.TopK)
	assert.Equal(t, 4, loaded.Jobs.Workers)
	assert.Equal(t, time.Second, loaded.Watch.Debounce)
}

func TestSettingsService_SetEmbeddingProvider_OllamaDefaults(t *testing.T) {
	store := newMockConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetEmbeddingProvider(domain.AIProviderOllama, "", "")

	require.NoError(t, err)
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
	assert.Equal(t, 768, settings.VectorStore.Dimensions)
}

func TestSettingsService_SetEmbeddingProvider_OpenAISyncsDimensions(t *testing.T) {
	store := newMockConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "sk-test")

	require.NoError(t, err)
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	assert.Equal(t, 1536, settings.VectorStore.Dimensions, "index dimensionality follows the model")
	assert.Empty(t, settings.Embedding.BaseURL, "cloud providers use their own endpoint")
}

func TestSettingsService_SetEmbeddingProvider_MissingAPIKey(t *testing.T) {
	service := NewSettingsService(newMockConfigStore(), nil)

	err := service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "")

	assert.Error(t, err)
}

func TestSettingsService_SetEmbeddingProvider_NoEmbeddingSupport(t *testing.T) {
	service := NewSettingsService(newMockConfigStore(), nil)

	err := service.SetEmbeddingProvider(domain.AIProviderAnthropic, "", "sk-ant-test")

	assert.Error(t, err, "Anthropic has no embedding API")
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	store := newMockConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetLLMProvider(domain.AIProviderAnthropic, "", "sk-ant-test")

	require.NoError(t, err)
	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", settings.LLM.Model)
	assert.True(t, settings.LLM.IsConfigured())
}

func TestSettingsService_SetLLMProvider_Invalid(t *testing.T) {
	service := NewSettingsService(newMockConfigStore(), nil)

	err := service.SetLLMProvider(domain.AIProvider("skynet"), "", "")

	assert.Error(t, err)
}

func TestSettingsService_SetVectorBackend(t *testing.T) {
	store := newMockConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.SetVectorBackend(domain.VectorBackendMemory))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.VectorBackendMemory, settings.VectorStore.Backend)

	assert.Error(t, service.SetVectorBackend(domain.VectorBackend("postgres")))
}

func TestSettingsService_Validate_Unconfigured(t *testing.T) {
	service := NewSettingsService(newMockConfigStore(), nil)

	err := service.Validate()

	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestSettingsService_Validate_Configured(t *testing.T) {
	store := newMockConfigStore()
	service := NewSettingsService(store, nil)
	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))

	assert.NoError(t, service.Validate())
}

func TestSettingsService_ValidateEmbeddingConfig(t *testing.T) {
	validator := &mockAIConfigValidator{embedErr: errors.New("unreachable")}
	service := NewSettingsService(newMockConfigStore(), validator)

	assert.Error(t, service.ValidateEmbeddingConfig())

	validator.embedErr = nil
	assert.NoError(t, service.ValidateEmbeddingConfig())
}

func TestSettingsService_ValidateLLMConfig_NoValidator(t *testing.T) {
	service := NewSettingsService(newMockConfigStore(), nil)

	assert.NoError(t, service.ValidateLLMConfig())
}

func TestSettingsService_GetPipelineConfig_Defaults(t *testing.T) {
	service := NewSettingsService(newMockConfigStore(), nil)

	cfg := service.GetPipelineConfig()

	assert.Equal(t, []string{"chunker", "enricher"}, cfg.Processors)
	chunkerCfg := cfg.GetProcessorConfig("chunker")
	require.NotNil(t, chunkerCfg)
	assert.Equal(t, 1000, chunkerCfg["chunk_size"])
}

func TestSettingsService_GetPipelineConfig_Overrides(t *testing.T) {
	store := newMockConfigStore()
	store.values["pipeline.processors"] = []string{"chunker"}
	store.values["pipeline.chunker.chunk_size"] = 500
	service := NewSettingsService(store, nil)

	cfg := service.GetPipelineConfig()

	assert.Equal(t, []string{"chunker"}, cfg.Processors)
	chunkerCfg := cfg.GetProcessorConfig("chunker")
	require.NotNil(t, chunkerCfg)
	assert.Equal(t, 500, chunkerCfg["chunk_size"])
}
