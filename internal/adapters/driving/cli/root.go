// Package cli implements the askdoc command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/tokenizer"
	"github.com/custodia-labs/askdoc-cli/internal/adapters/driven/vector"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/askdoc-cli/internal/core/services"
	"github.com/custodia-labs/askdoc-cli/internal/logger"
	"github.com/custodia-labs/askdoc-cli/internal/normalisers"
	"github.com/custodia-labs/askdoc-cli/internal/postprocessors"
)

// version is set at build time via ldflags.
var version = "dev"

// SetVersion overrides the build version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Services used by the commands. initServices populates them for
// production; tests swap in mocks directly.
var (
	ingestService   driving.IngestService
	answerService   driving.AnswerService
	catalogService  driving.CatalogService
	jobService      driving.JobService
	jobRunner       driving.JobRunner
	settingsService driving.SettingsService
)

// Resources closed on shutdown.
var (
	metaStore *sqlite.Store
	aiResult  *ai.InitResult
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "askdoc",
	Short: "Ask questions about your documents",
	Long: `Askdoc ingests local documents into namespaced collections and answers
questions about them.

Documents are chunked, embedded and indexed; a question is routed to the
most relevant documents, refined into a search phrase, and answered from
the retrieved passages.`,
	SilenceUsage: true,
	// Errors are printed once, by main.
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose pipeline logging")
}

// Execute wires the production services, starts the job runner, and runs
// the root command.
func Execute() error {
	if err := initServices(); err != nil {
		return err
	}
	defer shutdownServices()

	return rootCmd.Execute()
}

// initServices builds the production dependency graph: configuration,
// storage, AI adapters, and the core services on top of them.
func initServices() error {
	// A .env file is optional; plain environment variables work too.
	_ = godotenv.Load() //nolint:errcheck // Missing .env is the normal case

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("failed to initialise config store: %w", err)
	}

	settingsSvc := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settingsService = settingsSvc

	settings, err := settingsSvc.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	applyEnvKeys(settings)

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("failed to open metadata store: %w", err)
	}
	metaStore = store

	aiResult = initAIServices(settings)
	for _, w := range aiResult.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	buildServices(settingsSvc, settings, store, aiResult)
	return nil
}

// applyEnvKeys fills missing provider API keys from the environment so
// keys never have to live in the settings file.
func applyEnvKeys(settings *domain.AppSettings) {
	if settings.Embedding.APIKey == "" && settings.Embedding.Provider == domain.AIProviderOpenAI {
		settings.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if settings.LLM.APIKey == "" {
		switch settings.LLM.Provider {
		case domain.AIProviderOpenAI:
			settings.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case domain.AIProviderAnthropic:
			settings.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
}

// initAIServices creates the embedding, LLM and vector adapters plus the
// prompt store. Failures leave gaps rather than aborting: catalog and job
// inspection commands work without any AI connectivity.
func initAIServices(settings *domain.AppSettings) *ai.InitResult {
	result := &ai.InitResult{}

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("prompt store unavailable, using built-in prompts: %v", err))
	} else {
		result.PromptStore = promptStore
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, err.Error())
		result.Degraded = true
	case embedder == nil:
		result.Warnings = append(result.Warnings,
			"embedding provider not configured. Run 'askdoc settings wizard' to set one up")
		result.Degraded = true
	default:
		result.EmbeddingService = embedder
	}

	llm, err := ai.CreateAndValidateLLMService(&settings.LLM)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, err.Error())
		result.Degraded = true
	case llm == nil:
		result.Warnings = append(result.Warnings,
			"LLM provider not configured. Run 'askdoc settings wizard' to set one up")
		result.Degraded = true
	default:
		result.LLMService = llm
	}

	index, err := ai.CreateAndValidateVectorIndex(&settings.VectorStore)
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%v (using in-memory index; vectors will not survive this process)", err))
		result.VectorIndex = vector.NewMemoryIndex()
	} else {
		result.VectorIndex = index
	}

	return result
}

// buildServices assembles the core services from the initialised adapters.
func buildServices(settingsSvc *services.SettingsService, settings *domain.AppSettings, store *sqlite.Store, res *ai.InitResult) {
	meta := store.MetadataStore()

	var tok driven.Tokenizer
	if tk, err := tokenizer.New(""); err != nil {
		logger.Warn("Tokenizer unavailable, context token bounding disabled: %v", err)
	} else {
		tok = tk
	}

	summaries := services.NewSummaryRefresher(meta, res.LLMService)
	summaries.SetPromptStore(res.PromptStore)

	registry := normalisers.NewDefaultRegistry()

	ppRegistry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(ppRegistry)
	pipeline, err := postprocessors.BuildPipeline(ppRegistry, settingsSvc.GetPipelineConfig())
	if err != nil {
		logger.Warn("Pipeline config invalid, using defaults: %v", err)
		pipeline, _ = postprocessors.BuildPipeline(ppRegistry, domain.DefaultPipelineConfig()) //nolint:errcheck // Defaults always build
	}

	ingest := services.NewIngestService(registry, pipeline, res.EmbeddingService, res.VectorIndex, meta, res.LLMService, summaries)
	ingest.SetPromptStore(res.PromptStore)
	ingestService = ingest

	router := services.NewRouter(res.LLMService)
	router.SetPromptStore(res.PromptStore)

	optimizer := services.NewQueryOptimizer(res.LLMService)
	optimizer.SetPromptStore(res.PromptStore)

	assembler := services.NewContextAssembler(res.EmbeddingService, res.VectorIndex, tok)

	answer := services.NewAnswerService(meta, router, optimizer, assembler, res.LLMService, settings.Retrieval)
	answer.SetPromptStore(res.PromptStore)
	answerService = answer

	catalogService = services.NewCatalogService(meta, res.VectorIndex, summaries)

	jobs := services.NewJobService(store.JobStore(), ingest, settings.Jobs)
	jobService = jobs
	jobRunner = jobs
}

// shutdownServices stops the job runner and releases adapter resources.
func shutdownServices() {
	if jobRunner != nil {
		if err := jobRunner.Stop(); err != nil {
			logger.Warn("Job runner stop: %v", err)
		}
	}
	if aiResult != nil {
		aiResult.Close()
	}
	if metaStore != nil {
		if err := metaStore.Close(); err != nil {
			logger.Warn("Metadata store close: %v", err)
		}
	}
}

// startJobRunner launches the ingest workers for commands that submit
// jobs. Safe to call when the runner was never wired (tests).
func startJobRunner(cmd *cobra.Command) {
	if jobRunner == nil {
		return
	}
	if err := jobRunner.Start(cmd.Context()); err != nil {
		logger.Debug("Job runner start: %v", err)
	}
}
