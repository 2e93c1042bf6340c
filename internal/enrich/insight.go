package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/a3tai/candidate-extractor/internal/extract"
)

const (
	// FallbackInsight replaces the insight of a record whose generation failed
	FallbackInsight = "AI Insight Unavailable"

	DefaultModel     = "gpt-4"
	DefaultMaxTokens = 50

	insightSystemPrompt = "You are an AI assistant providing candidate insights."
)

// ErrNoAPIKey is returned by generators that were configured without credentials
var ErrNoAPIKey = errors.New("OpenAI API key is not set")

// InsightGenerator produces a short text about a candidate
type InsightGenerator interface {
	Generate(ctx context.Context, record extract.CandidateRecord) (string, error)
}

// OpenAIConfig configures the OpenAI-backed insight generator
type OpenAIConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

// LLMInsightGenerator asks a chat model for a candidate insight
type LLMInsightGenerator struct {
	llm       llms.Model
	maxTokens int
}

// NewLLMInsightGenerator wraps any langchaingo model
func NewLLMInsightGenerator(llm llms.Model, maxTokens int) *LLMInsightGenerator {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &LLMInsightGenerator{llm: llm, maxTokens: maxTokens}
}

// NewOpenAIInsightGenerator creates a generator backed by the OpenAI chat API
func NewOpenAIInsightGenerator(cfg OpenAIConfig) (*LLMInsightGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	opts := []openai.Option{
		openai.WithModel(model),
		openai.WithToken(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return NewLLMInsightGenerator(llm, cfg.MaxTokens), nil
}

// Generate returns the model's trimmed answer for record
func (g *LLMInsightGenerator) Generate(ctx context.Context, record extract.CandidateRecord) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, insightSystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, InsightPrompt(record)),
	}

	resp, err := g.llm.GenerateContent(ctx, messages, llms.WithMaxTokens(g.maxTokens))
	if err != nil {
		return "", fmt.Errorf("error getting response from LLM: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("LLM returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

// InsightPrompt renders the user prompt for a candidate
func InsightPrompt(record extract.CandidateRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Candidate Name: %s\n", record.Name)
	fmt.Fprintf(&b, "Job Title: %s\n", record.Title)
	fmt.Fprintf(&b, "Company: %s\n", record.Company)
	fmt.Fprintf(&b, "Location: %s\n", record.Location)
	fmt.Fprintf(&b, "Industry: %s\n\n", record.Industry)
	b.WriteString("Provide a brief AI-generated insight about this candidate based on the given data.")
	return b.String()
}

// UnavailableInsightGenerator always fails. It stands in when no API key
// is configured, so every record gets the fallback insight.
type UnavailableInsightGenerator struct {
	Err error
}

// Generate returns g.Err, or ErrNoAPIKey when unset
func (g UnavailableInsightGenerator) Generate(context.Context, extract.CandidateRecord) (string, error) {
	if g.Err != nil {
		return "", g.Err
	}
	return "", ErrNoAPIKey
}
