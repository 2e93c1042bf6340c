package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/candidate-extractor/internal/config"
	"github.com/a3tai/candidate-extractor/internal/enrich"
	"github.com/a3tai/candidate-extractor/internal/export"
	"github.com/a3tai/candidate-extractor/internal/extract"
	"github.com/a3tai/candidate-extractor/internal/logging"
	"github.com/a3tai/candidate-extractor/internal/pdf"
	"github.com/a3tai/candidate-extractor/internal/pipeline"
)

// Extractor runs the candidate pipeline
type Extractor interface {
	ProcessFile(ctx context.Context, path string) (*pipeline.Result, error)
	Parse(document string) []extract.CandidateRecord
}

// FileValidator checks that a file decodes as a PDF
type FileValidator interface {
	ValidateFile(path string) *pdf.ValidateFileResult
}

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	extractor Extractor
	validator FileValidator
	paths     *pathGuard
	logger    logrus.FieldLogger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, extractor Extractor, validator FileValidator, logger logrus.FieldLogger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}
	if validator == nil {
		return nil, fmt.Errorf("validator cannot be nil")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	paths, err := newPathGuard(cfg.PDFDirectory)
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		extractor: extractor,
		validator: validator,
		paths:     paths,
		logger:    logger,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"extract_candidates",
		mcp.WithDescription("Extract candidate profiles from a PDF listing and enrich each with an insight and an outreach e-mail"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, relative to the configured directory or absolute inside it"),
		),
		mcp.WithString("output",
			mcp.Description("Optional export file (.xlsx or .csv) inside the configured directory"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractCandidates)

	parseTool := mcp.NewTool(
		"parse_candidates_text",
		mcp.WithDescription("Parse candidate records from already extracted text without enrichment"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Document text in the profile listing layout"),
		),
	)
	s.mcpServer.AddTool(parseTool, s.handleParseCandidatesText)

	validateTool := mcp.NewTool(
		"validate_pdf",
		mcp.WithDescription("Validate if a file is a readable PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handleValidatePDF)
}

func (s *Server) handleExtractCandidates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved, err := s.paths.Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var outputPath string
	if output := request.GetString("output", ""); output != "" {
		if outputPath, err = s.paths.Resolve(output); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	result, err := s.extractor.ProcessFile(ctx, resolved)
	if err != nil {
		s.logger.WithError(err).WithField("path", resolved).Warn("extraction failed")
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.NoCandidates() {
		return mcp.NewToolResultText(fmt.Sprintf("No candidates found in %s (%d pages)", resolved, result.Pages)), nil
	}

	text := formatExtractResult(resolved, result)

	if outputPath != "" {
		defaultFormat, _ := export.ParseFormat(s.config.Format)
		format := export.FormatForPath(outputPath, defaultFormat)
		if err := export.WriteFile(outputPath, format, enrich.Header, result.Rows()); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to write export: %v", err)), nil
		}
		text += fmt.Sprintf("\nSaved %d rows to %s\n", len(result.Records), outputPath)
	}

	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleParseCandidatesText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	records := s.extractor.Parse(text)
	if len(records) == 0 {
		return mcp.NewToolResultText("No candidates found"), nil
	}

	return mcp.NewToolResultText(formatCandidateRecords(records)), nil
}

func (s *Server) handleValidatePDF(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved, err := s.paths.Resolve(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.validator.ValidateFile(resolved)

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages, %d bytes)", result.Path, result.Pages, result.Size)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

// formatExtractResult formats an enriched extraction for display
func formatExtractResult(path string, result *pipeline.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Extraction complete! Found %d candidates.\n", len(result.Records))
	fmt.Fprintf(&b, "Source: %s (%d pages)\n", path, result.Pages)

	fallbacks := 0
	for i, rec := range result.Records {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, rec.Name)
		fmt.Fprintf(&b, "   Title: %s\n", rec.Title)
		fmt.Fprintf(&b, "   Location: %s\n", rec.Location)
		fmt.Fprintf(&b, "   Industry: %s\n", rec.Industry)
		fmt.Fprintf(&b, "   Company: %s\n", rec.Company)
		fmt.Fprintf(&b, "   Insight: %s\n", rec.Insight.Text)
		if rec.Insight.Fallback {
			fallbacks++
		}
	}

	if fallbacks > 0 {
		fmt.Fprintf(&b, "\n⚠️  %d of %d insights could not be generated\n", fallbacks, len(result.Records))
	}

	return b.String()
}

// formatCandidateRecords formats parsed records for display
func formatCandidateRecords(records []extract.CandidateRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Found %d candidates:\n", len(records))
	for i, rec := range records {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, rec.Name)
		fmt.Fprintf(&b, "   Title: %s\n", rec.Title)
		fmt.Fprintf(&b, "   Location: %s\n", rec.Location)
		fmt.Fprintf(&b, "   Industry: %s\n", rec.Industry)
		fmt.Fprintf(&b, "   Company: %s\n", rec.Company)
	}

	return b.String()
}

// Run starts the MCP server on standard I/O
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve speaks the MCP stdio protocol over in and out until ctx is done or
// in is exhausted
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.WithFields(logrus.Fields{
		"directory": s.paths.root,
		"server":    s.config.ServerName,
	}).Debug("starting MCP server in stdio mode")

	stdio := server.NewStdioServer(s.mcpServer)
	err := stdio.Listen(ctx, in, out)
	if err != nil && ctx.Err() == nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
