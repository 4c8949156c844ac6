// Package main provides the offline ingestion CLI: split raw course
// material into chunks, then build the vector index.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/slidetutor/slidetutor/internal/chunkstore"
	"github.com/slidetutor/slidetutor/internal/config"
	"github.com/slidetutor/slidetutor/internal/embedding"
	"github.com/slidetutor/slidetutor/internal/indexer"
	"github.com/slidetutor/slidetutor/internal/loader"
	"github.com/slidetutor/slidetutor/internal/splitter"
	"github.com/slidetutor/slidetutor/internal/vectorstore"
)

var clearStore bool

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Course material ingestion tool",
	Long:  "CLI for turning a folder of slides and PDFs into a searchable chunk index",
}

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Load, group and chunk raw documents into the chunk store",
	Long: `Reads every supported file under <data-dir>/raw, folds consecutive
pages into grouped documents, splits them into overlapping chunks and
persists the chunks as numbered JSON records under <data-dir>/chunks.

The chunk store must be empty; pass --clear to wipe a previous run first.

Environment variables:
  DATA_DIR       Corpus root (default: data)
  GROUP_SIZE     Pages per grouped document (default: 1)
  CHUNK_SIZE     Window size in bytes (default: 600)
  CHUNK_OVERLAP  Overlap between windows in bytes (default: 120)`,
	RunE: runSplit,
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed persisted chunks and rebuild the vector index",
	Long: `Loads all chunk records, embeds their contents and writes one point
per chunk into a fresh Qdrant collection, then atomically repoints the
serving alias and drops the previous index generation.

Environment variables:
  DATA_DIR           Corpus root (default: data)
  QDRANT_HOST        Qdrant hostname (default: localhost)
  QDRANT_PORT        Qdrant gRPC port (default: 6334)
  QDRANT_COLLECTION  Serving alias (default: lecture_chunks)
  EMBEDDING_MODEL    Embedding model (default: text-embedding-3-small)
  OPENAI_API_KEY     OpenAI API key (required)`,
	RunE: runIndex,
}

func init() {
	splitCmd.Flags().BoolVar(&clearStore, "clear", false, "wipe a previous chunk generation before persisting")
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(indexCmd)
}

func main() {
	// .env is for local development; absent in production.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.Default()
	store := chunkstore.New(cfg.DataDir)

	if clearStore {
		fmt.Println("Clearing previous chunk generation...")
		if err := store.Clear(); err != nil {
			return err
		}
	}

	rawDir := filepath.Join(cfg.DataDir, "raw")
	units, err := loader.New(logger).Load(rawDir)
	if err != nil {
		return fmt.Errorf("load sources: %w", err)
	}
	fmt.Printf("Loaded %d page units from %s\n", len(units), rawDir)

	groups := splitter.Group(units, cfg.GroupSize)
	chunks, err := splitter.Split(groups, cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}
	fmt.Printf("Grouped into %d documents; split into %d chunks\n", len(groups), len(chunks))

	if err := store.Persist(chunks); err != nil {
		return fmt.Errorf("persist chunks: %w", err)
	}
	fmt.Printf("Persisted %d chunk records to %s\n", len(chunks), store.Dir())
	return nil
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	fmt.Printf("Connecting to Qdrant at %s:%d...\n", cfg.QdrantHost, cfg.QdrantPort)
	store, err := vectorstore.New(cfg.QdrantHost, cfg.QdrantPort, cfg.CollectionAlias)
	if err != nil {
		return fmt.Errorf("connect to Qdrant: %w", err)
	}
	defer store.Close()
	fmt.Println("Qdrant healthy")

	client, err := embedding.NewClient()
	if err != nil {
		return fmt.Errorf("create embedding client: %w", err)
	}
	embedder := embedding.NewEmbedder(client, cfg.EmbeddingModel, 0)

	builder := indexer.NewBuilder(chunkstore.New(cfg.DataDir), embedder, store, slog.Default())

	fmt.Println()
	fmt.Println("Building index...")
	result, err := builder.Build(ctx)
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Index build complete!")
	fmt.Printf("  Chunks:     %d\n", result.Chunks)
	fmt.Printf("  Collection: %s (alias %s)\n", result.Collection, cfg.CollectionAlias)
	fmt.Printf("  Duration:   %s\n", result.Duration.Round(time.Second))
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Second))
	return nil
}
