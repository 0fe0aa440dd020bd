package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
)

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index", indexCmd.Use)
	assert.Equal(t, "Build the job index from a JSON Lines file", indexCmd.Short)
}

func TestIndexCmd_Flags(t *testing.T) {
	flags := indexCmd.Flags()

	tests := map[string]string{
		"source":     "",
		"batch-size": "32",
		"max-items":  "0",
		"reset":      "false",
		"store-path": "",
		"collection": "",
		"model":      "",
		"device":     "",
		"local-only": "true",
		"provider":   "",
		"backend":    "",
	}
	for name, def := range tests {
		flag := flags.Lookup(name)
		require.NotNil(t, flag, "flag %s should exist", name)
		assert.Equal(t, def, flag.DefValue, name)
	}
}

func TestIndexCmd_RejectsArgs(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, nil, "index", "jobs.jsonl")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestIndexCmd_IndexesFeed(t *testing.T) {
	env := setupTestServices(t)
	path := writeFeed(t, jobsFeed)

	out, err := executeCommand(t, nil, "index", "--source", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 2 jobs")
	assert.Contains(t, out, "Skipped 2 records (1 duplicate, 1 empty, 0 malformed)")
	assert.Contains(t, out, "Collection offline_jobs holds 2 jobs")
	assert.Equal(t, 1, env.closed)

	count, err := env.store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIndexCmd_Idempotent(t *testing.T) {
	env := setupTestServices(t)
	path := writeFeed(t, jobsFeed)

	_, err := executeCommand(t, nil, "index", "--source", path)
	require.NoError(t, err)
	out, err := executeCommand(t, nil, "index", "--source", path, "--batch-size", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Collection offline_jobs holds 2 jobs")
	count, err := env.store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIndexCmd_MaxItemsAndReset(t *testing.T) {
	env := setupTestServices(t)
	path := writeFeed(t, jobsFeed)

	_, err := executeCommand(t, nil, "index", "--source", path)
	require.NoError(t, err)

	out, err := executeCommand(t, nil, "index", "--source", path, "--reset", "--max-items", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 1 jobs")
	count, err := env.store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestIndexCmd_SourceFromSettings(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.config.Set("index.source", writeFeed(t, jobsFeed)))

	out, err := executeCommand(t, nil, "index")

	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 2 jobs")
}

func TestIndexCmd_NoSource(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, nil, "index")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no source file")
}

func TestIndexCmd_MissingFile(t *testing.T) {
	env := setupTestServices(t)

	_, err := executeCommand(t, nil, "index", "--source", "/does/not/exist.jsonl")

	require.Error(t, err)
	assert.Equal(t, 1, env.closed)
}

func TestIndexCmd_AppliesOverrides(t *testing.T) {
	env := setupTestServices(t)
	path := writeFeed(t, jobsFeed)

	_, err := executeCommand(t, nil, "index", "--source", path,
		"--collection", "jobs_cn", "--store-path", "/data", "--backend", "memory",
		"--model", "custom-hash", "--device", "gpu", "--local-only=false")

	require.NoError(t, err)
	assert.Equal(t, "jobs_cn", env.last.VectorStore.Collection)
	assert.Equal(t, "/data", env.last.VectorStore.Path)
	assert.Equal(t, domain.VectorBackendMemory, env.last.VectorStore.Backend)
	assert.Equal(t, "custom-hash", env.last.Embedding.Model)
	assert.Equal(t, "gpu", env.last.Embedding.Device)
	assert.False(t, env.last.Embedding.LocalOnly)
}

func TestIndexCmd_InvalidBatchSize(t *testing.T) {
	env := setupTestServices(t)

	_, err := executeCommand(t, nil, "index", "--source", writeFeed(t, jobsFeed), "--batch-size", "0")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, env.opened)
}

func TestIndexCmd_InvalidBackend(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, nil, "index", "--source", "x.jsonl", "--backend", "chroma")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
