// Package cli implements the jurisai command line. Commands run the
// generation pipeline directly without a database.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"jurisai-backend/config"
	"jurisai-backend/extract"
	"jurisai-backend/generation"
	"jurisai-backend/prompt"
	"jurisai-backend/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	providerFlag string
	modelFlag    string
	verbose      bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "jurisai",
	Short: "Legal research and drafting from the command line",
	Long:  "Runs research, judgment analysis and drafting against the configured generation provider. Configuration is read the same way as the server.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&providerFlag, "provider", "p", "", "Generation provider: gemini, openai or anthropic (default: $GENERATION_PROVIDER)")
	RootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model name (default: $GENERATION_MODEL)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log generation calls to stderr")
}

// pipeline holds the services a command needs
type pipeline struct {
	logger    *zap.Logger
	generator *service.Generator
	assembler *service.ContextAssembler
	close     func()
}

func openPipeline(cmd *cobra.Command) (*pipeline, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if providerFlag != "" {
		cfg.Generation.Provider = providerFlag
	}
	if modelFlag != "" {
		cfg.Generation.Model = modelFlag
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	providerCfg, err := cfg.ProviderConfig()
	if err != nil {
		return nil, err
	}
	provider, err := generation.NewProvider(cmd.Context(), providerCfg)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		logger:    logger,
		generator: service.NewGenerator(generation.NewClient(provider, generation.WithLogger(logger)), nil, logger),
		assembler: service.NewContextAssembler(
			service.AssemblerWithDocumentCharCap(cfg.Prompt.DocumentCharCap),
			service.AssemblerWithLogger(logger),
		),
		close: func() { logger.Sync() },
	}
	if closer, ok := provider.(interface{ Close() error }); ok {
		p.close = func() {
			closer.Close()
			logger.Sync()
		}
	}
	return p, nil
}

// readDocuments extracts the text of local files
func readDocuments(paths []string) ([]prompt.SourceDocument, error) {
	extractor := extract.NewExtractor()
	docs := make([]prompt.SourceDocument, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		name := filepath.Base(path)
		text, err := extractor.Extract(name, "", content)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		docs = append(docs, prompt.SourceDocument{Name: name, Text: text})
	}
	return docs, nil
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
