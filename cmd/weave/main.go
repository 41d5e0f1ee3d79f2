// Command weave is the knowledge base CLI. It wires the driven adapters
// (config, storage, vector index, AI providers) into the core services
// and hands the driving ports to the command tree.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/weaveai/weave-cli/internal/adapters/driven/ai"
	"github.com/weaveai/weave-cli/internal/adapters/driven/config/file"
	"github.com/weaveai/weave-cli/internal/adapters/driven/storage/sqlite"
	vectormem "github.com/weaveai/weave-cli/internal/adapters/driven/vector/memory"
	"github.com/weaveai/weave-cli/internal/adapters/driving/cli"
	"github.com/weaveai/weave-cli/internal/core/ports/driven"
	"github.com/weaveai/weave-cli/internal/core/services"
	"github.com/weaveai/weave-cli/internal/logger"
	"github.com/weaveai/weave-cli/internal/normalisers"
	"github.com/weaveai/weave-cli/internal/normalisers/docx"
	"github.com/weaveai/weave-cli/internal/normalisers/markdown"
	"github.com/weaveai/weave-cli/internal/normalisers/pdf"
	"github.com/weaveai/weave-cli/internal/normalisers/plaintext"
	"github.com/weaveai/weave-cli/internal/postprocessors"
	"github.com/weaveai/weave-cli/internal/postprocessors/chunker"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// WEAVE_HOME overrides the default ~/.weave layout.
	home := os.Getenv("WEAVE_HOME")

	cfg, err := file.NewConfigStore(home)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	promptDir := ""
	dataDir := ""
	if home != "" {
		promptDir = filepath.Join(home, "prompts")
		dataDir = filepath.Join(home, "data")
	}

	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening knowledge base: %w", err)
	}
	defer store.Close()

	index := vectormem.NewIndex()
	indexer := services.NewIndexService(store.DocumentStore(), index)

	// The vector index lives in memory only; the document store is the
	// source of truth and the index is rebuilt from it on every start.
	if err := indexer.Rebuild(context.Background()); err != nil {
		return fmt.Errorf("rebuilding vector index: %w", err)
	}

	svcs := cli.Services{
		Document: services.NewDocumentService(store.DocumentStore(), indexer),
		Feedback: services.NewFeedbackService(store.FeedbackStore()),
		Config:   cfg,
	}

	// AI-backed services degrade gracefully: without an embedding
	// provider the ingest/query/enrich commands report what is missing
	// instead of the whole binary failing.
	embedder, err := ai.NewEmbeddingService(cfg)
	if err != nil {
		logger.Warn("Embedding provider unavailable: %v", err)
	}
	llm, err := ai.NewLLMService(cfg)
	if err != nil {
		logger.Warn("LLM provider unavailable: %v", err)
	}

	if embedder != nil {
		defer embedder.Close()

		ingest := services.NewIngestService(
			buildRegistry(), buildPipeline(cfg), embedder, store.DocumentStore(), indexer)
		svcs.Ingest = ingest

		if llm != nil {
			defer llm.Close()

			svcs.Query = services.NewQueryService(
				store.DocumentStore(), index, embedder, llm, prompts, cfg)
			svcs.Enrichment = services.NewEnrichmentService(
				store.EnrichmentStore(), index, embedder, llm, prompts, cfg, ingest, indexer)
		}
	}

	cli.SetServices(svcs)
	return cli.Execute(version)
}

func buildRegistry() *normalisers.Registry {
	registry := normalisers.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(markdown.New())
	registry.Register(docx.New())
	registry.Register(pdf.New())
	return registry
}

func buildPipeline(cfg driven.ConfigStore) *postprocessors.Pipeline {
	var opts []chunker.Option
	if size := cfg.GetInt(driven.ConfigChunkSize); size > 0 {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap := cfg.GetInt(driven.ConfigChunkOverlap); overlap > 0 {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	return postprocessors.NewPipeline(chunker.New(opts...))
}
