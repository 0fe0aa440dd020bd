package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/jobmatch/internal/adapters/driving/tui/components/progress"
	"github.com/custodia-labs/jobmatch/internal/core/domain"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driven"
	"github.com/custodia-labs/jobmatch/internal/core/ports/driving"
	"github.com/custodia-labs/jobmatch/internal/logger"
)

var (
	indexSource    string
	indexBatchSize int
	indexMaxItems  int
	indexReset     bool
	indexOverrides storeOverrides
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the job index from a JSON Lines file",
	Long: `Reads job postings from a JSON Lines file, drops duplicates and postings
without a title, skills or description, embeds the rest in batches and
upserts them into the vector store.

Re-running on the same file leaves the index unchanged. Use --reset to
drop the collection first.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	flags := indexCmd.Flags()
	flags.StringVarP(&indexSource, "source", "s", "", "JSON Lines file of job postings (default index.source)")
	flags.IntVar(&indexBatchSize, "batch-size", domain.DefaultBatchSize, "documents per embed and upsert call")
	flags.IntVar(&indexMaxItems, "max-items", 0, "stop after this many accepted postings (0 = no limit)")
	flags.BoolVar(&indexReset, "reset", false, "drop and recreate the collection before indexing")
	indexOverrides.register(flags)
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings()
	if err != nil {
		return err
	}
	if err := indexOverrides.apply(cmd.Flags(), settings); err != nil {
		return err
	}

	source := settings.Index.Source
	if cmd.Flags().Changed("source") {
		source = indexSource
	}
	if source == "" {
		return errors.New("no source file: pass --source or run 'jobmatch settings set index.source <file>'")
	}

	batchSize := settings.Index.BatchSize
	if cmd.Flags().Changed("batch-size") {
		batchSize = indexBatchSize
	}
	if batchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", domain.ErrInvalidInput)
	}

	if cliConfig == nil || cliConfig.OpenSource == nil {
		return errors.New("record source not configured")
	}

	ctx := cmd.Context()
	services, err := openServices(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer closeServices(services)

	src, err := cliConfig.OpenSource(source)
	if err != nil {
		return err
	}
	defer src.Close() //nolint:errcheck // read-only source

	opts := domain.BuildOptions{
		BatchSize: batchSize,
		MaxItems:  indexMaxItems,
		Reset:     indexReset,
	}

	stats, err := buildWithProgress(ctx, cmd, services.Index, src, opts, source)
	if err != nil {
		var batchErr *domain.BatchError
		if errors.As(err, &batchErr) && batchErr.Op != domain.OpReset {
			return fmt.Errorf("index failed, %d jobs committed before the failing batch: %w", batchErr.Offset, err)
		}
		return fmt.Errorf("index failed: %w", err)
	}

	cmd.Printf("Indexed %d jobs\n", stats.Indexed)
	if skipped := stats.Duplicates + stats.Empty + stats.Malformed; skipped > 0 {
		cmd.Printf("Skipped %d records (%d duplicate, %d empty, %d malformed)\n",
			skipped, stats.Duplicates, stats.Empty, stats.Malformed)
	}
	if count, err := services.Search.Count(ctx); err == nil {
		cmd.Printf("Collection %s holds %d jobs\n", settings.VectorStore.Collection, count)
	}

	return nil
}

// buildWithProgress runs the build, showing a progress bar on terminals.
func buildWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	index driving.IndexService,
	src driven.RecordSource,
	opts domain.BuildOptions,
	label string,
) (*domain.BuildStats, error) {
	out := cmd.OutOrStdout()
	if !isTerminal(out) {
		return index.Build(ctx, src, opts)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(progress.New(label, nil), tea.WithOutput(out), tea.WithContext(ctx))
	opts.Progress = func(p domain.Progress) {
		program.Send(progress.UpdateMsg(p))
	}

	type result struct {
		stats *domain.BuildStats
		err   error
	}
	done := make(chan result, 1)
	go func() {
		stats, err := index.Build(ctx, src, opts)
		done <- result{stats: stats, err: err}
		program.Send(progress.DoneMsg{})
	}()

	final, runErr := program.Run()
	if m, ok := final.(progress.Model); ok && m.Interrupted() {
		logger.Info("Cancelling index build")
		cancel()
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		logger.Debug("Progress display stopped: %v", runErr)
	}

	res := <-done
	return res.stats, res.err
}
