// Package pipeline runs a PDF listing through page extraction, record
// parsing, company normalization and enrichment.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/candidate-extractor/internal/enrich"
	"github.com/a3tai/candidate-extractor/internal/extract"
	"github.com/a3tai/candidate-extractor/internal/logging"
)

// DefaultPreviewLength is how much of the document Preview shows by default
const DefaultPreviewLength = 2000

// DocumentReader loads and checks input documents
type DocumentReader interface {
	ReadFile(path string) ([]byte, error)
	ValidateBytes(data []byte) (int, error)
}

// Enricher attaches generated fields to candidate records
type Enricher interface {
	Enrich(ctx context.Context, records []extract.CandidateRecord) ([]enrich.EnrichedRecord, error)
}

// Result is the outcome of one pipeline run
type Result struct {
	Document string                  `json:"document"`
	Pages    int                     `json:"pages"`
	Records  []enrich.EnrichedRecord `json:"records"`
}

// NoCandidates reports whether the document held no candidate records.
// This is an ordinary outcome, not an error.
func (r *Result) NoCandidates() bool {
	return len(r.Records) == 0
}

// Rows returns the records as table rows matching enrich.Header
func (r *Result) Rows() [][]string {
	return enrich.Rows(r.Records)
}

// Preview returns at most limit characters of the assembled document
func (r *Result) Preview(limit int) string {
	if limit <= 0 || utf8.RuneCountInString(r.Document) <= limit {
		return r.Document
	}
	runes := []rune(r.Document)
	return string(runes[:limit])
}

// Pipeline is one configured extraction flow. Runs are sequential and share
// no state.
type Pipeline struct {
	documents  DocumentReader
	source     PageSource
	matcher    extract.Matcher
	normalizer *extract.Normalizer
	enricher   Enricher
	logger     logrus.FieldLogger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithMatcher replaces the default regex matcher
func WithMatcher(m extract.Matcher) Option {
	return func(p *Pipeline) { p.matcher = m }
}

// WithLogger sets the logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New creates a pipeline
func New(documents DocumentReader, source PageSource, normalizer *extract.Normalizer, enricher Enricher, opts ...Option) (*Pipeline, error) {
	if documents == nil {
		return nil, errors.New("document reader cannot be nil")
	}
	if source == nil {
		return nil, errors.New("page source cannot be nil")
	}
	if normalizer == nil {
		return nil, errors.New("normalizer cannot be nil")
	}
	if enricher == nil {
		return nil, errors.New("enricher cannot be nil")
	}

	p := &Pipeline{
		documents:  documents,
		source:     source,
		matcher:    extract.NewRegexMatcher(),
		normalizer: normalizer,
		enricher:   enricher,
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ProcessFile runs the pipeline on the PDF at path
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Result, error) {
	data, err := p.documents.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, data)
}

// Process runs the pipeline on PDF bytes. An undecodable document fails the
// whole run before any record is parsed.
func (p *Pipeline) Process(ctx context.Context, data []byte) (*Result, error) {
	pages, err := p.documents.ValidateBytes(data)
	if err != nil {
		return nil, err
	}

	texts, err := p.source.PageTexts(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract page text: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"pages":      pages,
		"page_texts": len(texts),
	}).Debug("Extracted page text")

	result, err := p.ProcessDocument(ctx, extract.Assemble(texts))
	if err != nil {
		return nil, err
	}
	result.Pages = len(texts)
	return result, nil
}

// ProcessDocument parses, normalizes and enriches an assembled document
func (p *Pipeline) ProcessDocument(ctx context.Context, document string) (*Result, error) {
	records := p.Parse(document)
	result := &Result{Document: document}

	if len(records) == 0 {
		p.logger.Info("No candidates found")
		return result, nil
	}

	enriched, err := p.enricher.Enrich(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich records: %w", err)
	}
	result.Records = enriched

	p.logger.WithField("candidates", len(enriched)).Info("Extraction complete")
	return result, nil
}

// Parse matches and normalizes the records in document without enriching them
func (p *Pipeline) Parse(document string) []extract.CandidateRecord {
	raws := p.matcher.Match(document)
	p.logger.WithField("matches", len(raws)).Debug("Matched candidate motifs")
	return p.normalizer.NormalizeAll(raws)
}
