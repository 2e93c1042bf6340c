package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/candidate-extractor/internal/enrich"
	"github.com/a3tai/candidate-extractor/internal/extract"
	"github.com/a3tai/candidate-extractor/internal/ocr"
	"github.com/a3tai/candidate-extractor/internal/pdf"
)

const (
	// Mode constants
	ModeCLI   = "cli"
	ModeStdio = "stdio"

	// Page source constants
	SourceAuto = "auto"
	SourceOCR  = "ocr"
	SourceText = "text"

	// Default values
	DefaultLogLevel       = "info"
	DefaultMaxFileSize    = 100 * 1024 * 1024 // 100MB
	DefaultOutput         = "candidates_with_emails.xlsx"
	DefaultFormat         = "xlsx"
	DefaultDPI            = pdf.DefaultDPI
	DefaultLanguage       = ocr.DefaultLanguage
	DefaultModel          = enrich.DefaultModel
	DefaultMaxTokens      = enrich.DefaultMaxTokens
	DefaultInsightTimeout = 30 * time.Second

	// APIKeyEnv is read once at startup; the key is never taken from a flag
	APIKeyEnv = "OPENAI_API_KEY"
)

// DefaultKeywords are the connector words that introduce an employer
var DefaultKeywords = extract.DefaultConnectors

// Config holds all configuration for the candidate extractor
type Config struct {
	Mode string // "cli" or "stdio"

	// CLI input/output
	InputPath  string
	OutputPath string
	Format     string // "csv" or "xlsx"
	Preview    bool

	// Directory the MCP tools may read from
	PDFDirectory string

	// Extraction
	Source      string // "auto", "ocr" or "text"
	DPI         int
	Language    string
	Keywords    []string
	MaxFileSize int64

	// Enrichment
	APIKey         string
	Model          string
	BaseURL        string
	MaxTokens      int
	InsightTimeout time.Duration
	EmailTemplate  string
	SenderName     string
	SenderRole     string
	SenderCompany  string

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:           ModeCLI,
		OutputPath:     DefaultOutput,
		Format:         DefaultFormat,
		PDFDirectory:   currentDir,
		Source:         SourceAuto,
		DPI:            DefaultDPI,
		Language:       DefaultLanguage,
		Keywords:       append([]string(nil), DefaultKeywords...),
		MaxFileSize:    DefaultMaxFileSize,
		Model:          DefaultModel,
		MaxTokens:      DefaultMaxTokens,
		InsightTimeout: DefaultInsightTimeout,
		Version:        "1.0.0",
		ServerName:     "candidate-extractor",
		LogLevel:       DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// A positional argument is the input file
	if cfg.InputPath == "" && pflag.NArg() > 0 {
		cfg.InputPath = pflag.Arg(0)
	}

	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("CANDIDATES")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("input", cfg.InputPath)
	viper.SetDefault("output", cfg.OutputPath)
	viper.SetDefault("format", cfg.Format)
	viper.SetDefault("preview", cfg.Preview)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("source", cfg.Source)
	viper.SetDefault("dpi", cfg.DPI)
	viper.SetDefault("lang", cfg.Language)
	viper.SetDefault("keywords", cfg.Keywords)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("model", cfg.Model)
	viper.SetDefault("openai-base-url", cfg.BaseURL)
	viper.SetDefault("maxtokens", cfg.MaxTokens)
	viper.SetDefault("insight-timeout", cfg.InsightTimeout)
	viper.SetDefault("email-template", cfg.EmailTemplate)
	viper.SetDefault("sender-name", cfg.SenderName)
	viper.SetDefault("sender-role", cfg.SenderRole)
	viper.SetDefault("sender-company", cfg.SenderCompany)
	viper.SetDefault("loglevel", cfg.LogLevel)

	// The credential keeps its conventional name, with a prefixed override
	_ = viper.BindEnv("openai-api-key", "CANDIDATES_OPENAI_API_KEY", APIKeyEnv)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'cli' to process one file, 'stdio' for an MCP server on standard I/O")
	pflag.StringP("input", "i", cfg.InputPath, "PDF file to process (cli mode)")
	pflag.StringP("output", "o", cfg.OutputPath, "Export file to write (cli mode)")
	pflag.String("format", cfg.Format, "Export format when the output extension is not .csv/.xlsx (csv, xlsx)")
	pflag.Bool("preview", cfg.Preview, "Print the start of the extracted text")
	pflag.String("dir", cfg.PDFDirectory, "Directory the MCP tools may read PDF files from")
	pflag.String("source", cfg.Source, "Page text source: 'auto', 'ocr' or 'text'")
	pflag.Int("dpi", cfg.DPI, "Render resolution for OCR")
	pflag.String("lang", cfg.Language, "Tesseract language(s), '+' separated")
	pflag.StringSlice("keywords", cfg.Keywords, "Connector keywords that introduce the employer")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.String("model", cfg.Model, "OpenAI model used for candidate insights")
	pflag.String("openai-base-url", cfg.BaseURL, "Override the OpenAI API base URL")
	pflag.Int("maxtokens", cfg.MaxTokens, "Maximum tokens per insight")
	pflag.Duration("insight-timeout", cfg.InsightTimeout, "Timeout for a single insight request (0 disables)")
	pflag.String("email-template", cfg.EmailTemplate, "HTML template file for the outreach e-mail")
	pflag.String("sender-name", cfg.SenderName, "Sender name used in the e-mail")
	pflag.String("sender-role", cfg.SenderRole, "Sender role used in the e-mail")
	pflag.String("sender-company", cfg.SenderCompany, "Sender company used in the e-mail")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "input", "output", "format", "preview", "dir", "source", "dpi", "lang",
		"keywords", "maxfilesize", "model", "openai-base-url", "maxtokens", "insight-timeout",
		"email-template", "sender-name", "sender-role", "sender-company", "loglevel",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nCandidate Extractor - turn scanned profile listings into an enriched spreadsheet\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s listing.pdf                           # write %s\n", os.Args[0], DefaultOutput)
		fmt.Fprintf(os.Stderr, "  %s -i listing.pdf -o out.csv             # CSV export\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --source=ocr --lang=ita listing.pdf   # force OCR\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=/path/to/pdfs      # MCP server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  OPENAI_API_KEY          OpenAI credential (insights fall back without it)\n")
		fmt.Fprintf(os.Stderr, "  CANDIDATES_MODE         Run mode\n")
		fmt.Fprintf(os.Stderr, "  CANDIDATES_SOURCE       Page text source\n")
		fmt.Fprintf(os.Stderr, "  CANDIDATES_DIR          MCP PDF directory\n")
		fmt.Fprintf(os.Stderr, "  CANDIDATES_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  CANDIDATES_MAXFILESIZE  Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.InputPath = viper.GetString("input")
	cfg.OutputPath = viper.GetString("output")
	cfg.Format = viper.GetString("format")
	cfg.Preview = viper.GetBool("preview")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.Source = viper.GetString("source")
	cfg.DPI = viper.GetInt("dpi")
	cfg.Language = viper.GetString("lang")
	cfg.Keywords = viper.GetStringSlice("keywords")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.APIKey = viper.GetString("openai-api-key")
	cfg.Model = viper.GetString("model")
	cfg.BaseURL = viper.GetString("openai-base-url")
	cfg.MaxTokens = viper.GetInt("maxtokens")
	cfg.InsightTimeout = viper.GetDuration("insight-timeout")
	cfg.EmailTemplate = viper.GetString("email-template")
	cfg.SenderName = viper.GetString("sender-name")
	cfg.SenderRole = viper.GetString("sender-role")
	cfg.SenderCompany = viper.GetString("sender-company")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeCLI && c.Mode != ModeStdio {
		return errors.New("mode must be either 'cli' or 'stdio'")
	}

	if c.Mode == ModeCLI {
		if c.InputPath == "" {
			return errors.New("an input PDF is required in cli mode")
		}
		if c.OutputPath == "" {
			return errors.New("output path cannot be empty")
		}
	}

	if c.Format != "csv" && c.Format != "xlsx" {
		return fmt.Errorf("invalid format: %s (must be csv or xlsx)", c.Format)
	}

	if c.Mode == ModeStdio && c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	switch c.Source {
	case SourceAuto, SourceOCR, SourceText:
	default:
		return fmt.Errorf("invalid source: %s (must be one of: auto, ocr, text)", c.Source)
	}

	if c.DPI < 72 || c.DPI > 1200 {
		return errors.New("dpi must be between 72 and 1200")
	}

	if len(c.Keywords) == 0 {
		return errors.New("at least one connector keyword is required")
	}
	for _, k := range c.Keywords {
		if strings.TrimSpace(k) == "" {
			return errors.New("connector keywords cannot be blank")
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.MaxTokens <= 0 {
		return errors.New("max tokens must be positive")
	}

	if c.InsightTimeout < 0 {
		return errors.New("insight timeout cannot be negative")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// HasAPIKey reports whether insight generation can reach the API
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

// String returns a string representation of the configuration. The API key
// is never printed.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Input: %s, Output: %s, Format: %s, PDFDirectory: %s, Source: %s, "+
		"DPI: %d, Language: %s, Keywords: %v, Model: %s, APIKey: %t, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.InputPath, c.OutputPath, c.Format, c.PDFDirectory, c.Source,
		c.DPI, c.Language, c.Keywords, c.Model, c.HasAPIKey(), c.LogLevel, c.MaxFileSize)
}

// IsStdioMode returns true if running as an MCP server on standard I/O
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// IsCLIMode returns true if processing a single file from the command line
func (c *Config) IsCLIMode() bool {
	return c.Mode == ModeCLI
}
