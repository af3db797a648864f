// Command corpus prepares the document corpus offline: it embeds documents and
// syncs their vectors into the vector store.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"consumer-assistant/internal/app"
	"consumer-assistant/internal/config"
	"consumer-assistant/internal/corpus"
	"consumer-assistant/internal/indexer"
	"consumer-assistant/internal/vectorstore"
)

var (
	// Global flags
	inputPath  string
	outputJSON bool
	workers    int
	batchSize  int

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Prepare the consumer-assistant corpus",
	Long: `Offline corpus tooling for the consumer assistant.

Use this tool to:
- Embed documents that have no embedding yet
- Index embedded documents into Qdrant
- Inspect corpus statistics`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		slog.SetDefault(app.NewLogger(cfg))
		if inputPath == "" {
			inputPath = cfg.CorpusDir
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inputPath, "input", "i", "", "corpus directory or file (default: CORPUS_DIR)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 4, "concurrent batches")
	rootCmd.PersistentFlags().IntVarP(&batchSize, "batch", "b", indexer.DefaultBatchSize, "documents per batch")

	rootCmd.AddCommand(newEmbedCmd(), newIndexCmd(), newStatsCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newEmbedCmd() *cobra.Command {
	var outputPath string
	var force bool

	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Embed documents that have no embedding",
		Long: `Loads the corpus, embeds every document without an embedding using the
configured LLM provider, and writes the whole corpus as a single JSON file that
CORPUS_DIR can point to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			snap, err := corpus.Load(inputPath)
			if err != nil {
				return err
			}
			if cfg.LLMProvider == config.ProviderNone {
				return fmt.Errorf("embedding needs an LLM provider, LLM_PROVIDER is none")
			}
			providers, err := app.NewProviders(ctx, cfg, cfg.EmbeddingDim)
			if err != nil {
				return err
			}
			defer func() {
				_ = providers.Close()
			}()

			pipeline, err := indexer.NewPipeline(providers.Embedder, nil, cfg.QdrantCollection,
				indexer.WithPoolSize(workers), indexer.WithBatchSize(batchSize), indexer.WithForce(force))
			if err != nil {
				return err
			}
			defer pipeline.Release()

			docs, stats, embedErr := pipeline.Embed(ctx, snap.Documents())
			if docs == nil {
				return embedErr
			}
			if err := corpus.WriteFile(outputPath, docs); err != nil {
				return err
			}
			if err := report(cmd, stats, fmt.Sprintf("wrote %s", outputPath)); err != nil {
				return err
			}
			return embedErr
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "./data/corpus.json", "output corpus file")
	cmd.Flags().BoolVar(&force, "force", false, "re-embed documents that already have an embedding")
	return cmd
}

func newIndexCmd() *cobra.Command {
	var qdrantURL string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Upsert embedded documents into Qdrant",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			snap, err := corpus.Load(inputPath)
			if err != nil {
				return err
			}
			if qdrantURL == "" {
				qdrantURL = cfg.QdrantURL
			}
			store, err := vectorstore.NewQdrantStore(qdrantURL)
			if err != nil {
				return err
			}
			defer store.Close()

			pipeline, err := indexer.NewPipeline(nil, store, cfg.QdrantCollection,
				indexer.WithPoolSize(workers), indexer.WithBatchSize(batchSize))
			if err != nil {
				return err
			}
			defer pipeline.Release()

			stats, indexErr := pipeline.Index(ctx, snap)
			if err := report(cmd, stats, fmt.Sprintf("indexed into %s", cfg.QdrantCollection)); err != nil {
				return err
			}
			if indexErr != nil {
				return indexErr
			}

			info, err := store.CollectionInfo(ctx, cfg.QdrantCollection)
			if err != nil {
				return err
			}
			if !outputJSON {
				fmt.Fprintf(cmd.OutOrStdout(), "collection %s: %d points, vector size %d, status %s\n",
					cfg.QdrantCollection, info.PointsCount, info.VectorSize, info.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&qdrantURL, "qdrant-url", "", "Qdrant HTTP URL (default: QDRANT_URL)")
	return cmd
}

// corpusStats is the output of the stats command.
type corpusStats struct {
	Documents int            `json:"documents"`
	BySource  map[string]int `json:"by_source"`
	Embedded  int            `json:"embedded"`
	Dimension int            `json:"dimension"`
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show corpus statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := corpus.Load(inputPath)
			if err != nil {
				return err
			}
			st := corpusStats{
				Documents: snap.Len(),
				BySource:  make(map[string]int),
				Embedded:  len(snap.Embedded()),
				Dimension: snap.Dimension(),
			}
			for _, source := range corpus.Sources {
				st.BySource[string(source)] = snap.Count(source)
			}

			out := cmd.OutOrStdout()
			if outputJSON {
				return json.NewEncoder(out).Encode(st)
			}
			fmt.Fprintf(out, "documents: %d\n", st.Documents)
			for _, source := range corpus.Sources {
				fmt.Fprintf(out, "  %-9s %d\n", source, st.BySource[string(source)])
			}
			fmt.Fprintf(out, "embedded:  %d (dimension %d)\n", st.Embedded, st.Dimension)
			return nil
		},
	}
}

func report(cmd *cobra.Command, stats indexer.Stats, summary string) error {
	out := cmd.OutOrStdout()
	if outputJSON {
		return json.NewEncoder(out).Encode(stats)
	}
	fmt.Fprintf(out, "%s: %d documents, %d embedded, %d upserted, %d skipped, %d failed (dimension %d)\n",
		summary, stats.Documents, stats.Embedded, stats.Upserted, stats.Skipped, stats.Failed, stats.Dimension)
	return nil
}
