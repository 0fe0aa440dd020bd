// Package cli provides the jobmatch command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driving"
	"github.com/custodia-labs/jobmatch/internal/logger"
)

// version is set at build time.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
	ephemeral bool
)

// Config wires the CLI to the application core.
type Config struct {
	// Settings opens the settings service. An empty configDir selects the
	// default location. Ephemeral settings live in memory only.
	Settings func(configDir string, ephemeral bool) (driving.SettingsService, error)

	// Services builds the core services for resolved settings.
	Services func(ctx context.Context, settings *domain.AppSettings) (*Services, error)

	// OpenSource opens a JSON Lines record source.
	OpenSource func(path string) (driven.RecordSource, error)
}

// Services are the core services a command runs against.
type Services struct {
	Index  driving.IndexService
	Search driving.SearchService

	// Close releases the embedding service, vector store and tracer.
	Close func() error
}

// cliConfig holds the current CLI configuration.
var cliConfig *Config

// settingsService is opened before every command runs.
var settingsService driving.SettingsService

var rootCmd = &cobra.Command{
	Use:   "jobmatch",
	Short: "Semantic job matching over a local vector index",
	Long: `jobmatch indexes job postings from a JSON Lines feed into a vector store
and finds the postings most similar to free text or a resume.

Postings are identified by company, title and description, so re-indexing
the same feed is idempotent. Embeddings come from Ollama, OpenAI or the
built-in offline hashing model.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "print pipeline details to stderr")
	flags.StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.jobmatch)")
	flags.BoolVar(&ephemeral, "ephemeral", false, "keep settings in memory and never write config.toml")
}

// SetConfig sets the configuration used by all commands.
func SetConfig(config *Config) {
	cliConfig = config
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())

	if cliConfig == nil || cliConfig.Settings == nil {
		return nil
	}

	svc, err := cliConfig.Settings(configDir, ephemeral)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	settingsService = svc
	return nil
}

// resolveSettings returns stored settings with environment overrides.
func resolveSettings() (*domain.AppSettings, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	settings, err := settingsService.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settings: %w", err)
	}
	return settings, nil
}

// openServices builds the core services for settings.
func openServices(ctx context.Context, settings *domain.AppSettings) (*Services, error) {
	if cliConfig == nil || cliConfig.Services == nil {
		return nil, errors.New("services not configured")
	}
	services, err := cliConfig.Services(ctx, settings)
	if err != nil {
		return nil, err
	}
	if services.Close == nil {
		services.Close = func() error { return nil }
	}
	return services, nil
}

// closeServices closes services and logs a failure.
func closeServices(services *Services) {
	if err := services.Close(); err != nil {
		logger.Warn("close: %v", err)
	}
}

// storeOverrides are per-invocation overrides of the stored settings.
type storeOverrides struct {
	storePath  string
	collection string
	backend    string
	provider   string
	model      string
	device     string
	localOnly  bool
}

// register adds the override flags to fs.
func (o *storeOverrides) register(fs *pflag.FlagSet) {
	fs.StringVar(&o.storePath, "store-path", "", "vector store directory")
	fs.StringVar(&o.collection, "collection", "", "collection name")
	fs.StringVar(&o.backend, "backend", "", "vector store backend (sqlite, memory, qdrant)")
	fs.StringVar(&o.provider, "provider", "", "embedding provider (ollama, openai, hashing)")
	fs.StringVar(&o.model, "model", "", "embedding model name")
	fs.StringVar(&o.device, "device", "", "device for local models (cpu, gpu)")
	fs.BoolVar(&o.localOnly, "local-only", true, "never download a missing model")
}

// apply copies the flags that were set onto settings.
func (o *storeOverrides) apply(fs *pflag.FlagSet, settings *domain.AppSettings) error {
	if fs.Changed("store-path") {
		settings.VectorStore.Path = o.storePath
	}
	if fs.Changed("collection") {
		settings.VectorStore.Collection = o.collection
	}
	if fs.Changed("backend") {
		backend := domain.VectorBackend(o.backend)
		if !backend.IsValid() {
			return fmt.Errorf("%w: invalid vector backend: %s", domain.ErrInvalidInput, o.backend)
		}
		settings.VectorStore.Backend = backend
	}
	if fs.Changed("provider") {
		provider := domain.AIProvider(o.provider)
		if !provider.IsValid() {
			return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, o.provider)
		}
		if provider != settings.Embedding.Provider && !fs.Changed("model") {
			settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
		}
		settings.Embedding.Provider = provider
	}
	if fs.Changed("model") {
		settings.Embedding.Model = o.model
	}
	if fs.Changed("device") {
		settings.Embedding.Device = o.device
	}
	if fs.Changed("local-only") {
		settings.Embedding.LocalOnly = o.localOnly
	}
	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}
