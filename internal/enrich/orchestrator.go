// Package enrich attaches a generated insight and an outreach e-mail body to
// each candidate record.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/candidate-extractor/internal/extract"
	"github.com/a3tai/candidate-extractor/internal/logging"
)

// DefaultInsightTimeout bounds a single insight call
const DefaultInsightTimeout = 30 * time.Second

// Insight is the outcome of one insight generation. Fallback is set when the
// generator failed and Text holds FallbackInsight.
type Insight struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
	Err      error  `json:"-"`
}

// EnrichedRecord is a candidate with its generated fields
type EnrichedRecord struct {
	extract.CandidateRecord
	Recipient string  `json:"recipient"`
	Insight   Insight `json:"insight"`
	Email     string  `json:"email"`
}

// Orchestrator enriches records one after another
type Orchestrator struct {
	insights InsightGenerator
	emails   EmailGenerator
	timeout  time.Duration
	logger   logrus.FieldLogger
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithInsightTimeout bounds each insight call; zero disables the bound
func WithInsightTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithLogger sets the logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// NewOrchestrator creates an orchestrator from its two generators
func NewOrchestrator(insights InsightGenerator, emails EmailGenerator, opts ...Option) (*Orchestrator, error) {
	if insights == nil {
		return nil, errors.New("insight generator cannot be nil")
	}
	if emails == nil {
		return nil, errors.New("email generator cannot be nil")
	}

	o := &Orchestrator{
		insights: insights,
		emails:   emails,
		timeout:  DefaultInsightTimeout,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Enrich returns one enriched record per input record, in order. Insight
// failures become FallbackInsight and never stop the batch; an e-mail
// rendering failure is returned as an error.
func (o *Orchestrator) Enrich(ctx context.Context, records []extract.CandidateRecord) ([]EnrichedRecord, error) {
	enriched := make([]EnrichedRecord, 0, len(records))
	fallbacks := 0

	for i, record := range records {
		insight := o.Insight(ctx, record)
		if insight.Fallback {
			fallbacks++
		}

		// Recipient addresses are not part of the listing.
		recipient := ""
		email, err := o.emails.Generate(record.Name, recipient)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i+1, record.Name, err)
		}

		enriched = append(enriched, EnrichedRecord{
			CandidateRecord: record,
			Recipient:       recipient,
			Insight:         insight,
			Email:           email,
		})
	}

	o.logger.WithFields(logrus.Fields{
		"records":   len(enriched),
		"fallbacks": fallbacks,
	}).Info("Enrichment complete")

	return enriched, nil
}

// Insight generates the insight for one record, substituting FallbackInsight
// on any failure.
func (o *Orchestrator) Insight(ctx context.Context, record extract.CandidateRecord) Insight {
	callCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	text, err := o.insights.Generate(callCtx, record)
	if err != nil {
		o.logger.WithError(err).WithField("name", record.Name).Warn("Insight generation failed, using fallback")
		return Insight{Text: FallbackInsight, Fallback: true, Err: err}
	}
	return Insight{Text: text}
}
