package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/jobmatch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/jobmatch/internal/core/domain"
)

// stdinArg reads the query from standard input.
const stdinArg = "-"

var (
	searchTopK      int
	searchCategory  string
	searchJSON      bool
	searchOverrides storeOverrides
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find the job postings most similar to a query",
	Long: `Embeds the query and returns the most similar job postings, best first.

Pass "-" to read the query from standard input, for example a resume:

  jobmatch search - < resume.txt

With --category, only postings of that job_category are considered. If none
of them match, the search is repeated over all postings.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	flags := searchCmd.Flags()
	flags.IntVarP(&searchTopK, "top-k", "k", domain.DefaultTopK, "maximum number of results")
	flags.StringVarP(&searchCategory, "category", "c", "", "prefer postings with this job_category")
	flags.BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchOverrides.register(flags)
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	if query == stdinArg {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read query from stdin: %w", err)
		}
		query = string(data)
	}

	settings, err := resolveSettings()
	if err != nil {
		return err
	}
	if err := searchOverrides.apply(cmd.Flags(), settings); err != nil {
		return err
	}

	topK := settings.Search.TopK
	if cmd.Flags().Changed("top-k") {
		if searchTopK <= 0 {
			return fmt.Errorf("%w: top-k must be positive", domain.ErrInvalidInput)
		}
		topK = searchTopK
	}

	ctx := cmd.Context()
	services, err := openServices(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer closeServices(services)

	if services.Search == nil {
		return errors.New("search service not configured")
	}

	opts := domain.QueryOptions{
		TopK:     topK,
		Category: strings.TrimSpace(searchCategory),
	}
	results, err := services.Search.Search(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.Metadata) error {
	if results == nil {
		results = []domain.Metadata{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.Metadata) error {
	if len(results) == 0 {
		cmd.Println("No matching jobs found.")
		return nil
	}

	s := styles.DefaultStyles()

	cmd.Println("Results:")
	cmd.Println()
	for i, meta := range results {
		// Format: [N] Title - Company
		title := meta[domain.FieldTitle]
		if title == "" {
			title = "(untitled)"
		}
		cmd.Printf("  %s %s", s.Rank(i+1), s.JobTitle.Render(title))
		if company := meta[domain.FieldCompany]; company != "" {
			cmd.Printf(" - %s", s.Company.Render(company))
		}
		cmd.Println()

		if line := joinNonEmpty(" | ",
			meta[domain.FieldLocation],
			meta[domain.FieldSalary],
			meta[domain.FieldExperience],
			meta[domain.FieldEducation],
		); line != "" {
			cmd.Printf("      %s\n", s.Detail.Render(line))
		}
		if skills := meta[domain.FieldSkills]; skills != "" {
			cmd.Printf("      %s %s\n", s.Label.Render("Skills:"), skills)
		}
		if category := meta[domain.FieldCategory]; category != "" {
			cmd.Printf("      %s %s\n", s.Label.Render("Category:"), category)
		}
		cmd.Println()
	}

	return nil
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
