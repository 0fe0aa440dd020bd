package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jobmatch/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/jobmatch/internal/adapters/driven/source/jsonl"
	"github.com/custodia-labs/jobmatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driving"
	"github.com/custodia-labs/jobmatch/internal/core/services"
)

const jobsFeed = `{"公司名称": "Acme", "职位名称": "Go Engineer", "所需技能": "Go, gRPC", "岗位描述": "Build backend services", "job_category": "engineering"}
{"公司名称": "Acme", "职位名称": "Go Engineer", "所需技能": "Go, gRPC", "岗位描述": "Build backend services", "job_category": "engineering"}
{"公司名称": "Beta", "职位名称": "Data Analyst", "所需技能": "SQL", "岗位描述": "Report on sales", "工作地点": "上海", "job_category": "data"}
{"公司名称": "Empty Co"}
`

// testEnv wires the CLI to real services over an in-memory store.
type testEnv struct {
	settings  *services.SettingsService
	config    *memory.ConfigStore
	store     *memory.VectorStore
	last      domain.AppSettings
	opened    int
	closed    int
	configDir string
	ephemeral bool
}

// setupTestServices installs a test configuration and restores the previous one on cleanup.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		config: memory.NewConfigStore(map[string]any{
			"embedding.provider": "hashing",
			"embedding.model":    hashing.DefaultModel,
		}),
		store: memory.NewVectorStore(domain.DefaultCollection),
	}
	env.settings = services.NewSettingsService(env.config, nil)
	env.settings.SetEnvLookup(func(string) (string, bool) { return "", false })

	oldConfig := cliConfig
	oldSettings := settingsService
	SetConfig(&Config{
		Settings: func(dir string, eph bool) (driving.SettingsService, error) {
			env.configDir = dir
			env.ephemeral = eph
			return env.settings, nil
		},
		Services: func(_ context.Context, settings *domain.AppSettings) (*Services, error) {
			env.last = *settings
			env.opened++
			embedder := hashing.NewEmbeddingService(hashing.Config{})
			return &Services{
				Index:  services.NewIndexBuilder(embedder, env.store),
				Search: services.NewQueryEngine(embedder, env.store, 0),
				Close: func() error {
					env.closed++
					return nil
				},
			}, nil
		},
		OpenSource: func(path string) (driven.RecordSource, error) {
			return jsonl.Open(path)
		},
	})
	t.Cleanup(func() {
		cliConfig = oldConfig
		settingsService = oldSettings
	})

	return env
}

// writeFeed writes content to a JSON Lines file in a temp dir.
func writeFeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// resetFlags restores every flag to its default so runs do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// executeCommand runs the root command with args and returns its combined output.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	if stdin == nil {
		stdin = strings.NewReader("")
	}
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}
