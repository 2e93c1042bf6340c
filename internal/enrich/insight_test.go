package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/a3tai/candidate-extractor/internal/extract"
)

type fakeModel struct {
	reply    string
	err      error
	noChoice bool

	messages []llms.MessageContent
	options  llms.CallOptions
}

func (m *fakeModel) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	for _, opt := range options {
		opt(&m.options)
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.noChoice {
		return &llms.ContentResponse{}, nil
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.reply}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

var jane = extract.CandidateRecord{
	Name:     "Jane Doe",
	Title:    "Senior Engineer",
	Location: "Milan",
	Industry: "Automotive",
	Company:  "Acme Corp",
}

func TestLLMInsightGenerator_Generate(t *testing.T) {
	model := &fakeModel{reply: "  Strong automotive background.\n"}
	gen := NewLLMInsightGenerator(model, 0)

	text, err := gen.Generate(context.Background(), jane)
	require.NoError(t, err)
	assert.Equal(t, "Strong automotive background.", text)

	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)

	prompt, ok := model.messages[1].Parts[0].(llms.TextContent)
	require.True(t, ok)
	assert.Equal(t, InsightPrompt(jane), prompt.Text)
	assert.Equal(t, DefaultMaxTokens, model.options.MaxTokens)
}

func TestLLMInsightGenerator_Errors(t *testing.T) {
	boom := errors.New("rate limited")

	_, err := NewLLMInsightGenerator(&fakeModel{err: boom}, 10).Generate(context.Background(), jane)
	assert.ErrorIs(t, err, boom)

	_, err = NewLLMInsightGenerator(&fakeModel{noChoice: true}, 10).Generate(context.Background(), jane)
	assert.Error(t, err)
}

func TestInsightPrompt(t *testing.T) {
	prompt := InsightPrompt(jane)
	assert.Contains(t, prompt, "Candidate Name: Jane Doe\n")
	assert.Contains(t, prompt, "Job Title: Senior Engineer\n")
	assert.Contains(t, prompt, "Company: Acme Corp\n")
	assert.Contains(t, prompt, "Location: Milan\n")
	assert.Contains(t, prompt, "Industry: Automotive\n")
	assert.Contains(t, prompt, "Provide a brief AI-generated insight")
}

func TestNewOpenAIInsightGenerator(t *testing.T) {
	_, err := NewOpenAIInsightGenerator(OpenAIConfig{})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	gen, err := NewOpenAIInsightGenerator(OpenAIConfig{APIKey: "sk-test", BaseURL: "http://127.0.0.1:1/v1"})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxTokens, gen.maxTokens)
}

func TestUnavailableInsightGenerator(t *testing.T) {
	_, err := UnavailableInsightGenerator{}.Generate(context.Background(), jane)
	assert.ErrorIs(t, err, ErrNoAPIKey)

	boom := errors.New("boom")
	_, err = UnavailableInsightGenerator{Err: boom}.Generate(context.Background(), jane)
	assert.ErrorIs(t, err, boom)
}
