// Package cli wires the cobra command tree. Commands talk to the core
// exclusively through the driving ports; wiring happens in cmd/weave.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/weaveai/weave-cli/internal/core/ports/driven"
	"github.com/weaveai/weave-cli/internal/core/ports/driving"
	"github.com/weaveai/weave-cli/internal/logger"
)

// version is set by Execute from the build-time version string.
var version = "dev"

var verbose bool

// Services the commands depend on. Left nil when the entrypoint could
// not configure a dependency (e.g. no embedding provider); each command
// checks for nil and reports a configuration error instead of panicking.
var (
	ingestService     driving.IngestService
	queryService      driving.QueryService
	enrichmentService driving.EnrichmentService
	documentService   driving.DocumentService
	feedbackService   driving.FeedbackService
	configStore       driven.ConfigStore
)

// Services groups the driving ports the command tree needs.
type Services struct {
	Ingest     driving.IngestService
	Query      driving.QueryService
	Enrichment driving.EnrichmentService
	Document   driving.DocumentService
	Feedback   driving.FeedbackService
	Config     driven.ConfigStore
}

// SetServices installs the wired services for the command tree.
func SetServices(s Services) {
	ingestService = s.Ingest
	queryService = s.Query
	enrichmentService = s.Enrichment
	documentService = s.Document
	feedbackService = s.Feedback
	configStore = s.Config
}

var rootCmd = &cobra.Command{
	Use:   "weave",
	Short: "Self-enriching knowledge base in your terminal",
	Long: `Weave indexes your documents into a local knowledge base and answers
questions against it. Answers are grounded in retrieved evidence and carry a
confidence score; when the knowledge base cannot fully answer a question,
weave reports what is missing and can generate and index new content to close
the gap.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging to stderr")
}

// Execute runs the root command with the given build version.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}
