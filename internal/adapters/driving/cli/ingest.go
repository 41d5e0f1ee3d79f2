package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weaveai/weave-cli/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Index documents into the knowledge base",
	Long: `Reads each file, extracts its text, chunks and embeds it, and adds it
to the knowledge base. Supported formats: plain text, markdown, docx, pdf.

Re-ingesting a file whose content has not changed is a no-op.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

// mimeByExtension maps file extensions to the MIME types the
// normaliser registry understands.
var mimeByExtension = map[string]string{
	".txt":  "text/plain",
	".text": "text/plain",
	".log":  "text/plain",
	".csv":  "text/csv",
	".json": "application/json",
	".md":   "text/markdown",
	".mdx":  "text/markdown",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pdf":  "application/pdf",
}

// detectMIMEType resolves a file's MIME type from its extension.
// Unknown extensions fall back to plain text so stray extensionless
// notes still ingest.
func detectMIMEType(path string) string {
	if mime, ok := mimeByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return "text/plain"
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()
	failed := 0

	for _, path := range args {
		if err := ingestFile(ctx, cmd, path); err != nil {
			failed++
			cmd.PrintErrf("Failed to ingest %s: %v\n", path, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func ingestFile(ctx context.Context, cmd *cobra.Command, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	raw := &domain.RawDocument{
		Filename: filepath.Base(path),
		MIMEType: detectMIMEType(path),
		Content:  content,
	}

	doc, err := ingestService.Ingest(ctx, raw)
	if err != nil {
		return err
	}

	cmd.Printf("Indexed %s (document %s)\n", raw.Filename, doc.ID)
	return nil
}
