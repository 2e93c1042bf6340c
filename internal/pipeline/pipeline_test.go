package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/candidate-extractor/internal/enrich"
	"github.com/a3tai/candidate-extractor/internal/extract"
	"github.com/a3tai/candidate-extractor/internal/logging"
	"github.com/a3tai/candidate-extractor/internal/pdf"
	"github.com/a3tai/candidate-extractor/internal/pdf/pdftest"
)

const (
	janeDoe = "Jane Doe - 500°\nSenior Engineer\n\nMilan - Automotive\n\nSenior Engineer presso Acme Corp 2021\n\n"
	unclear = "Jane Doe - 500°\nSenior Engineer\n\nMilan - Automotive\n\nSenior Engineer somewhere unclear\n\n"
)

// fakeRasterizer yields one blank image per page text; fakeRecognizer maps
// the page number encoded in the image back to that text.
type fakeRasterizer struct {
	pages int
	err   error
}

func (f fakeRasterizer) Rasterize([]byte) ([]pdf.PageImage, error) {
	if f.err != nil {
		return nil, f.err
	}
	images := make([]pdf.PageImage, 0, f.pages)
	for i := 1; i <= f.pages; i++ {
		images = append(images, pdf.PageImage{Number: i, PNG: []byte{byte(i)}})
	}
	return images, nil
}

type fakeRecognizer struct {
	texts map[byte]string
	fail  map[byte]error
	seen  []byte
}

func (f *fakeRecognizer) Recognize(_ context.Context, image []byte) (string, error) {
	f.seen = append(f.seen, image[0])
	if err := f.fail[image[0]]; err != nil {
		return "", err
	}
	return f.texts[image[0]], nil
}

type staticInsights struct {
	err error
}

func (s staticInsights) Generate(_ context.Context, r extract.CandidateRecord) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return r.Name + " works at " + r.Company, nil
}

func newPipeline(t *testing.T, source PageSource, insights enrich.InsightGenerator) *Pipeline {
	t.Helper()

	normalizer, err := extract.NewNormalizer(extract.DefaultConnectors)
	require.NoError(t, err)

	orchestrator, err := enrich.NewOrchestrator(insights, enrich.NewTemplateEmailGenerator(enrich.DefaultSender))
	require.NoError(t, err)

	p, err := New(pdf.NewValidator(1024*1024), source, normalizer, orchestrator, WithLogger(logging.Discard()))
	require.NoError(t, err)
	return p
}

func ocrSource(recognizer *fakeRecognizer, pages int) *OCRSource {
	return NewOCRSource(fakeRasterizer{pages: pages}, recognizer, logging.Discard())
}

func TestPipeline_Process_SingleCandidate(t *testing.T) {
	rec := &fakeRecognizer{texts: map[byte]string{1: janeDoe}}
	p := newPipeline(t, ocrSource(rec, 1), staticInsights{})

	result, err := p.Process(context.Background(), pdftest.Minimal([]string{"scan"}))
	require.NoError(t, err)
	require.False(t, result.NoCandidates())
	require.Len(t, result.Records, 1)

	got := result.Records[0]
	assert.Equal(t, extract.CandidateRecord{
		Name:     "Jane Doe",
		Title:    "Senior Engineer",
		Location: "Milan",
		Industry: "Automotive",
		Company:  "Acme Corp",
	}, got.CandidateRecord)
	assert.Equal(t, "Jane Doe works at Acme Corp", got.Insight.Text)
	assert.Contains(t, got.Email, "Buongiorno Jane Doe")

	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, "--- Page 1 ---\n"+janeDoe+"\n", result.Document)
}

func TestPipeline_Process_NoConnector(t *testing.T) {
	rec := &fakeRecognizer{texts: map[byte]string{1: unclear}}
	p := newPipeline(t, ocrSource(rec, 1), staticInsights{})

	result, err := p.Process(context.Background(), pdftest.Minimal([]string{"scan"}))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, extract.NotAvailable, result.Records[0].Company)
}

func TestPipeline_Process_NoCandidates(t *testing.T) {
	rec := &fakeRecognizer{texts: map[byte]string{1: "Profile export\n\nNothing useful here.\n"}}
	p := newPipeline(t, ocrSource(rec, 1), staticInsights{})

	result, err := p.Process(context.Background(), pdftest.Minimal([]string{"scan"}))
	require.NoError(t, err)
	assert.True(t, result.NoCandidates())
	assert.Empty(t, result.Rows())
	assert.Contains(t, result.Document, "--- Page 1 ---")
}

func TestPipeline_Process_MultiPageOrder(t *testing.T) {
	anna := strings.ReplaceAll(janeDoe, "Jane Doe", "Anna Verdi")
	rec := &fakeRecognizer{texts: map[byte]string{1: janeDoe, 2: "", 3: anna}}
	p := newPipeline(t, ocrSource(rec, 3), staticInsights{})

	result, err := p.Process(context.Background(), pdftest.Minimal([]string{"a"}, []string{"b"}, []string{"c"}))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, rec.seen)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "Jane Doe", result.Records[0].Name)
	assert.Equal(t, "Anna Verdi", result.Records[1].Name)
	assert.Equal(t, 3, result.Pages)
}

func TestPipeline_Process_RecognitionFailureKeepsPage(t *testing.T) {
	rec := &fakeRecognizer{
		texts: map[byte]string{2: janeDoe},
		fail:  map[byte]error{1: errors.New("tesseract crashed")},
	}
	p := newPipeline(t, ocrSource(rec, 2), staticInsights{})

	result, err := p.Process(context.Background(), pdftest.Minimal([]string{"a"}, []string{"b"}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Document, "--- Page 1 ---\n\n--- Page 2 ---\n"))
	require.Len(t, result.Records, 1)
}

func TestPipeline_Process_InsightFailureFallsBack(t *testing.T) {
	rec := &fakeRecognizer{texts: map[byte]string{1: janeDoe + janeDoe}}
	p := newPipeline(t, ocrSource(rec, 1), staticInsights{err: errors.New("quota exceeded")})

	result, err := p.Process(context.Background(), pdftest.Minimal([]string{"scan"}))
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	for _, r := range result.Records {
		assert.Equal(t, enrich.FallbackInsight, r.Insight.Text)
		assert.True(t, r.Insight.Fallback)
	}
}

func TestPipeline_Process_InvalidDocument(t *testing.T) {
	rec := &fakeRecognizer{}
	p := newPipeline(t, ocrSource(rec, 1), staticInsights{})

	result, err := p.Process(context.Background(), []byte("not a pdf at all"))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, pdf.ErrInvalidDocument)
	assert.Empty(t, rec.seen)
}

func TestPipeline_Process_RasterizeFailure(t *testing.T) {
	boom := &pdf.DocumentError{Type: pdf.ErrorTypeUndecodable, Message: "render failed"}
	source := NewOCRSource(fakeRasterizer{err: boom}, &fakeRecognizer{}, logging.Discard())
	p := newPipeline(t, source, staticInsights{})

	result, err := p.Process(context.Background(), pdftest.Minimal([]string{"scan"}))
	assert.Nil(t, result)
	assert.ErrorIs(t, err, pdf.ErrInvalidDocument)
}

func TestPipeline_ProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "listing.pdf")
	require.NoError(t, os.WriteFile(path, pdftest.Minimal([]string{"scan"}), 0o644))

	rec := &fakeRecognizer{texts: map[byte]string{1: janeDoe}}
	p := newPipeline(t, ocrSource(rec, 1), staticInsights{})

	result, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, result.Records, 1)

	_, err = p.ProcessFile(context.Background(), filepath.Join(dir, "missing.pdf"))
	assert.ErrorIs(t, err, pdf.ErrInvalidDocument)
}

func TestPipeline_Parse_Idempotent(t *testing.T) {
	p := newPipeline(t, ocrSource(&fakeRecognizer{}, 0), staticInsights{})

	doc := extract.Assemble([]string{janeDoe, unclear})
	first := p.Parse(doc)
	assert.Equal(t, first, p.Parse(doc))
	require.Len(t, first, 2)
	assert.Equal(t, "Acme Corp", first[0].Company)
	assert.Equal(t, extract.NotAvailable, first[1].Company)
}

type upperMatcher struct{}

func (upperMatcher) Match(document string) []extract.RawRecord {
	return []extract.RawRecord{{Name: strings.ToUpper(document), CompanyLine: "at Somewhere"}}
}

func TestPipeline_WithMatcher(t *testing.T) {
	normalizer, err := extract.NewNormalizer(extract.DefaultConnectors)
	require.NoError(t, err)
	orchestrator, err := enrich.NewOrchestrator(staticInsights{}, enrich.NewTemplateEmailGenerator(enrich.DefaultSender))
	require.NoError(t, err)

	p, err := New(pdf.NewValidator(1024), ocrSource(&fakeRecognizer{}, 0), normalizer, orchestrator, WithMatcher(upperMatcher{}))
	require.NoError(t, err)

	records := p.Parse("abc")
	require.Len(t, records, 1)
	assert.Equal(t, "ABC", records[0].Name)
	assert.Equal(t, "Somewhere", records[0].Company)
}

func TestNew_RequiresCollaborators(t *testing.T) {
	normalizer, err := extract.NewNormalizer(extract.DefaultConnectors)
	require.NoError(t, err)
	orchestrator, err := enrich.NewOrchestrator(staticInsights{}, enrich.NewTemplateEmailGenerator(enrich.DefaultSender))
	require.NoError(t, err)
	source := ocrSource(&fakeRecognizer{}, 0)
	validator := pdf.NewValidator(1024)

	_, err = New(nil, source, normalizer, orchestrator)
	assert.Error(t, err)
	_, err = New(validator, nil, normalizer, orchestrator)
	assert.Error(t, err)
	_, err = New(validator, source, nil, orchestrator)
	assert.Error(t, err)
	_, err = New(validator, source, normalizer, nil)
	assert.Error(t, err)
}

func TestResult_Preview(t *testing.T) {
	r := &Result{Document: "àbcdef"}
	assert.Equal(t, "àbc", r.Preview(3))
	assert.Equal(t, "àbcdef", r.Preview(100))
	assert.Equal(t, "àbcdef", r.Preview(0))
}
