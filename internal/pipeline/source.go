package pipeline

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/candidate-extractor/internal/pdf"
)

// Recognizer turns a rendered page into text
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// PageSource produces the text of every page of a PDF, in page order
type PageSource interface {
	PageTexts(ctx context.Context, data []byte) ([]string, error)
}

// OCRSource renders each page and runs text recognition on it
type OCRSource struct {
	rasterizer pdf.Rasterizer
	recognizer Recognizer
	logger     logrus.FieldLogger
}

// NewOCRSource creates a page source from a rasterizer and a recognizer
func NewOCRSource(rasterizer pdf.Rasterizer, recognizer Recognizer, logger logrus.FieldLogger) *OCRSource {
	return &OCRSource{
		rasterizer: rasterizer,
		recognizer: recognizer,
		logger:     logger,
	}
}

// PageTexts rasterizes data and recognizes each page. A rasterization failure
// aborts; a recognition failure leaves that page empty.
func (s *OCRSource) PageTexts(ctx context.Context, data []byte) ([]string, error) {
	pages, err := s.rasterizer.Rasterize(data)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(pages))
	for i, page := range pages {
		text, err := s.recognizer.Recognize(ctx, page.PNG)
		if err != nil {
			s.logger.WithError(err).WithField("page", page.Number).Warn("Text recognition failed, page left empty")
			text = ""
		}
		texts[i] = text
		pages[i].PNG = nil
	}

	s.logger.WithField("pages", len(texts)).Debug("Recognized pages")
	return texts, nil
}

// TextLayerSource reads the PDF's embedded text instead of running OCR
type TextLayerSource struct {
	reader *pdf.TextLayerReader
}

// NewTextLayerSource creates a text layer page source
func NewTextLayerSource(reader *pdf.TextLayerReader) *TextLayerSource {
	return &TextLayerSource{reader: reader}
}

// PageTexts returns the text layer of each page
func (s *TextLayerSource) PageTexts(_ context.Context, data []byte) ([]string, error) {
	return s.reader.PageTexts(data)
}

// ErrOCRUnavailable is returned for a scanned PDF when no OCR source is
// configured, so an unreadable scan is not mistaken for an empty listing.
var ErrOCRUnavailable = errors.New("PDF has no text layer and OCR is unavailable")

// AutoSource uses the text layer when the PDF has one and OCR otherwise
type AutoSource struct {
	reader *pdf.TextLayerReader
	ocr    PageSource
	logger logrus.FieldLogger
}

// NewAutoSource creates a source that picks between the text layer and ocr.
// ocr may be nil when recognition is unavailable.
func NewAutoSource(reader *pdf.TextLayerReader, ocr PageSource, logger logrus.FieldLogger) *AutoSource {
	return &AutoSource{reader: reader, ocr: ocr, logger: logger}
}

// PageTexts inspects data and delegates to the matching source
func (s *AutoSource) PageTexts(ctx context.Context, data []byte) ([]string, error) {
	info, err := s.reader.Analyze(data)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"pages":        info.Pages,
		"content_type": info.ContentType,
		"images":       info.ImageCount,
	})

	if info.ContentType.HasTextLayer() {
		log.Debug("Using PDF text layer")
		return info.Texts, nil
	}

	if s.ocr == nil {
		if info.ContentType == pdf.ContentTypeScannedImages {
			return nil, ErrOCRUnavailable
		}
		log.Warn("PDF has no meaningful text layer and OCR is unavailable")
		return info.Texts, nil
	}

	log.Debug("Using OCR")
	return s.ocr.PageTexts(ctx, data)
}
