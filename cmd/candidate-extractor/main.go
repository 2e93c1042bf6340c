package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/candidate-extractor/internal/config"
	"github.com/a3tai/candidate-extractor/internal/enrich"
	"github.com/a3tai/candidate-extractor/internal/export"
	"github.com/a3tai/candidate-extractor/internal/extract"
	"github.com/a3tai/candidate-extractor/internal/logging"
	"github.com/a3tai/candidate-extractor/internal/mcp"
	"github.com/a3tai/candidate-extractor/internal/ocr"
	"github.com/a3tai/candidate-extractor/internal/pdf"
	"github.com/a3tai/candidate-extractor/internal/pipeline"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging builds the application logger. Logs always go to stderr so
// stdout stays free for results and for the MCP protocol.
func setupLogging(cfg *config.Config, out io.Writer) (*logrus.Logger, error) {
	level := cfg.LogLevel
	if cfg.IsStdioMode() && !cfg.IsDebug() {
		// Keep the MCP client's stderr quiet unless something went wrong
		level = "error"
	}
	return logging.New(level, out)
}

// buildSource picks the page text source. The returned cleanup releases the
// OCR engine, if one was created.
func buildSource(cfg *config.Config, logger logrus.FieldLogger) (pipeline.PageSource, func(), error) {
	noop := func() {}
	reader := pdf.NewTextLayerReader()

	if cfg.Source == config.SourceText {
		return pipeline.NewTextLayerSource(reader), noop, nil
	}

	client, err := ocr.New(strings.Split(cfg.Language, "+")...)
	if err != nil {
		if cfg.Source == config.SourceAuto && errors.Is(err, ocr.ErrOCRNotEnabled) {
			logger.Warn("OCR is not available in this build, scanned PDFs will be rejected")
			return pipeline.NewAutoSource(reader, nil, logger), noop, nil
		}
		return nil, noop, fmt.Errorf("failed to start OCR engine: %w", err)
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.WithError(err).Warn("failed to close OCR engine")
		}
	}

	ocrSource := pipeline.NewOCRSource(pdf.NewFitzRasterizer(float64(cfg.DPI)), client, logger)
	if cfg.Source == config.SourceOCR {
		return ocrSource, cleanup, nil
	}
	return pipeline.NewAutoSource(reader, ocrSource, logger), cleanup, nil
}

// buildInsights returns the OpenAI generator, or one that always falls back
// when no key is configured
func buildInsights(cfg *config.Config, logger logrus.FieldLogger) (enrich.InsightGenerator, error) {
	if !cfg.HasAPIKey() {
		logger.Warnf("%s is not set, every insight will be %q", config.APIKeyEnv, enrich.FallbackInsight)
		return enrich.UnavailableInsightGenerator{Err: enrich.ErrNoAPIKey}, nil
	}
	return enrich.NewOpenAIInsightGenerator(enrich.OpenAIConfig{
		APIKey:    cfg.APIKey,
		Model:     cfg.Model,
		BaseURL:   cfg.BaseURL,
		MaxTokens: cfg.MaxTokens,
	})
}

// buildEmails returns the e-mail generator with the configured sender
func buildEmails(cfg *config.Config) (enrich.EmailGenerator, error) {
	sender := enrich.DefaultSender
	if cfg.SenderName != "" {
		sender.Name = cfg.SenderName
	}
	if cfg.SenderRole != "" {
		sender.Role = cfg.SenderRole
	}
	if cfg.SenderCompany != "" {
		sender.Company = cfg.SenderCompany
	}

	if cfg.EmailTemplate != "" {
		return enrich.NewTemplateEmailGeneratorFromFile(cfg.EmailTemplate, sender)
	}
	return enrich.NewTemplateEmailGenerator(sender), nil
}

// buildPipeline wires every stage from the configuration
func buildPipeline(cfg *config.Config, source pipeline.PageSource, logger logrus.FieldLogger) (*pipeline.Pipeline, error) {
	normalizer, err := extract.NewNormalizer(cfg.Keywords)
	if err != nil {
		return nil, fmt.Errorf("invalid connector keywords: %w", err)
	}

	insights, err := buildInsights(cfg, logger)
	if err != nil {
		return nil, err
	}

	emails, err := buildEmails(cfg)
	if err != nil {
		return nil, err
	}

	orchestrator, err := enrich.NewOrchestrator(insights, emails,
		enrich.WithInsightTimeout(cfg.InsightTimeout),
		enrich.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return pipeline.New(pdf.NewValidator(cfg.MaxFileSize), source, normalizer, orchestrator,
		pipeline.WithLogger(logger))
}

// runCLI processes the configured input file and writes the export
func runCLI(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, out io.Writer) error {
	result, err := p.ProcessFile(ctx, cfg.InputPath)
	if err != nil {
		return err
	}

	if cfg.Preview {
		fmt.Fprintf(out, "Extracted text preview:\n%s\n\n", result.Preview(pipeline.DefaultPreviewLength))
	}

	if result.NoCandidates() {
		fmt.Fprintln(out, "No candidates found")
		return nil
	}

	fmt.Fprintf(out, "Extraction complete! Found %d candidates.\n", len(result.Records))

	defaultFormat, err := export.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	format := export.FormatForPath(cfg.OutputPath, defaultFormat)
	if err := export.WriteFile(cfg.OutputPath, format, enrich.Header, result.Rows()); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.OutputPath, err)
	}

	fmt.Fprintf(out, "Saved %d rows to %s\n", len(result.Records), cfg.OutputPath)
	return nil
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion(os.Stdout)
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	if version != "dev" {
		cfg.Version = version
	}

	logger, err := setupLogging(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(2)
	}
	logger.Debugf("Starting with configuration: %s", cfg.String())

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("candidate extraction failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source, cleanup, err := buildSource(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	p, err := buildPipeline(cfg, source, logger)
	if err != nil {
		return err
	}

	if cfg.IsCLIMode() {
		return runCLI(ctx, cfg, p, os.Stdout)
	}

	server, err := mcp.NewServer(cfg, p, pdf.NewValidator(cfg.MaxFileSize), logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	return server.Run(ctx)
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Candidate Extractor\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
