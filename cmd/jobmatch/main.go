// Command jobmatch indexes job postings and matches them against free text.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/jobmatch/internal/adapters/driven/ai"
	"github.com/custodia-labs/jobmatch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/jobmatch/internal/adapters/driven/source/jsonl"
	"github.com/custodia-labs/jobmatch/internal/adapters/driven/storage"
	"github.com/custodia-labs/jobmatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/jobmatch/internal/adapters/driving/cli"
	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driving"
	"github.com/custodia-labs/jobmatch/internal/core/services"
	"github.com/custodia-labs/jobmatch/internal/logger"
	"github.com/custodia-labs/jobmatch/internal/observability"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetConfig(&cli.Config{
		Settings:   openSettings,
		Services:   openServices,
		OpenSource: openSource,
	})

	// Cobra reports the error itself.
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func openSettings(configDir string, ephemeral bool) (driving.SettingsService, error) {
	var store driven.ConfigStore
	if ephemeral {
		store = memory.NewConfigStore()
	} else {
		if configDir == "" {
			dir, err := file.DefaultConfigDir()
			if err != nil {
				return nil, err
			}
			configDir = dir
		}
		fileStore, err := file.NewConfigStore(configDir)
		if err != nil {
			return nil, err
		}
		store = fileStore
	}
	return services.NewSettingsService(store, ai.NewConfigValidator()), nil
}

func openServices(ctx context.Context, settings *domain.AppSettings) (*cli.Services, error) {
	tracingCfg := observability.DefaultTracingConfig()
	tracingCfg.ServiceVersion = version
	tracingCfg.OTLPEndpoint = settings.Tracing.Endpoint
	tracer, err := observability.InitTracing(ctx, tracingCfg)
	if err != nil {
		return nil, err
	}
	if tracer.Enabled() {
		logger.Debug("Exporting traces to %s", tracingCfg.OTLPEndpoint)
	}

	embedder := ai.NewLazyEmbeddingService(&settings.Embedding)
	store := storage.NewLazyVectorStore(&settings.VectorStore)

	return &cli.Services{
		Index:  services.NewIndexBuilder(embedder, store),
		Search: services.NewQueryEngine(embedder, store, settings.Search.CacheSize),
		Close: func() error {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return errors.Join(
				embedder.Close(),
				store.Close(),
				tracer.Shutdown(shutdownCtx),
			)
		},
	}, nil
}

func openSource(path string) (driven.RecordSource, error) {
	return jsonl.Open(path)
}
