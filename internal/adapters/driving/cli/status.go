package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
)

var statusOverrides storeOverrides

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the index location, model and size",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusOverrides.register(statusCmd.Flags())
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	settings, err := resolveSettings()
	if err != nil {
		return err
	}
	if err := statusOverrides.apply(cmd.Flags(), settings); err != nil {
		return err
	}

	cmd.Printf("Backend:    %s\n", settings.VectorStore.Backend.Description())
	cmd.Printf("Location:   %s\n", storeLocation(&settings.VectorStore))
	cmd.Printf("Collection: %s\n", settings.VectorStore.Collection)
	cmd.Printf("Embedding:  %s / %s (%d dimensions)\n",
		settings.Embedding.Provider, settings.Embedding.Model, settings.Embedding.EffectiveDimensions())

	ctx := cmd.Context()
	services, err := openServices(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer closeServices(services)

	count, err := services.Search.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}
	cmd.Printf("Documents:  %d\n", count)

	return nil
}

func storeLocation(vs *domain.VectorStoreSettings) string {
	switch vs.Backend {
	case domain.VectorBackendQdrant:
		return net.JoinHostPort(vs.QdrantHost, strconv.Itoa(vs.QdrantPort))
	case domain.VectorBackendMemory:
		return "(in memory)"
	default:
		if vs.Path == "" {
			return "(default data directory)"
		}
		return vs.Path
	}
}
