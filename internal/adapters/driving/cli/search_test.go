package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
)

func indexFeed(t *testing.T) *testEnv {
	t.Helper()
	env := setupTestServices(t)
	_, err := executeCommand(t, nil, "index", "--source", writeFeed(t, jobsFeed))
	require.NoError(t, err)
	return env
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
	assert.Contains(t, searchCmd.Long, "standard input")
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, nil, "search")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_Flags(t *testing.T) {
	flag := searchCmd.Flags().Lookup("top-k")
	require.NotNil(t, flag, "top-k flag should exist")
	assert.Equal(t, "k", flag.Shorthand)
	assert.Equal(t, "20", flag.DefValue)

	flag = searchCmd.Flags().Lookup("category")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)

	assert.NotNil(t, searchCmd.Flags().Lookup("json"))
	assert.NotNil(t, searchCmd.Flags().Lookup("collection"))
}

func TestSearchCmd_EmptyIndex(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, nil, "search", "golang")

	require.NoError(t, err)
	assert.Contains(t, out, "No matching jobs found.")
}

func TestSearchCmd_ReturnsResults(t *testing.T) {
	env := indexFeed(t)

	out, err := executeCommand(t, nil, "search", "Go engineer backend services")

	require.NoError(t, err)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "Go Engineer")
	assert.Contains(t, out, "Go, gRPC")
	assert.Contains(t, out, "engineering")
	assert.Less(t, strings.Index(out, "Acme"), strings.Index(out, "Beta"), "best match first")
	assert.Equal(t, domain.DefaultTopK, env.last.Search.TopK)
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	indexFeed(t)

	out, err := executeCommand(t, nil, "search", "--json", "--top-k", "1", "SQL sales report")

	require.NoError(t, err)
	var results []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Data Analyst", results[0][domain.FieldTitle])
	assert.Equal(t, "上海", results[0][domain.FieldLocation])
	assert.Len(t, results[0], len(domain.MetadataFields()))
}

func TestSearchCmd_ReadsStdin(t *testing.T) {
	indexFeed(t)

	resume := strings.NewReader("Experienced in SQL and sales reporting")
	out, err := executeCommand(t, resume, "search", "--json", "-k", "1", "-")

	require.NoError(t, err)
	assert.Contains(t, out, "Data Analyst")
}

func TestSearchCmd_CategoryFallback(t *testing.T) {
	indexFeed(t)

	out, err := executeCommand(t, nil, "search", "--json", "--category", "finance", "Go")

	require.NoError(t, err)
	var results []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Len(t, results, 2)
}

func TestSearchCmd_CategoryFilter(t *testing.T) {
	indexFeed(t)

	out, err := executeCommand(t, nil, "search", "--json", "-c", "data", "Go engineer")

	require.NoError(t, err)
	var results []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "data", results[0][domain.FieldCategory])
}

func TestSearchCmd_InvalidTopK(t *testing.T) {
	setupTestServices(t)

	_, err := executeCommand(t, nil, "search", "--top-k", "0", "golang")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchCmd_TopKFromSettings(t *testing.T) {
	env := setupTestServices(t)
	require.NoError(t, env.settings.Set("search.top_k", "3"))

	_, err := executeCommand(t, nil, "search", "golang")

	require.NoError(t, err)
	assert.Equal(t, 3, env.last.Search.TopK)
}

func TestOutputSearchJSON_EmptyResults(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	err := outputSearchJSON(rootCmd, nil)

	assert.NoError(t, err)
	assert.Equal(t, "[]\n", buf.String())
}

func TestOutputSearchTable_UntitledPosting(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	defer rootCmd.SetOut(nil)

	err := outputSearchTable(rootCmd, []domain.Metadata{{domain.FieldSalary: "20k-30k"}})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[1]")
	assert.Contains(t, buf.String(), "(untitled)")
	assert.Contains(t, buf.String(), "20k-30k")
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "a | c", joinNonEmpty(" | ", "a", "", "c"))
	assert.Equal(t, "", joinNonEmpty(" | ", "", ""))
}
