package pdf

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// minMeaningfulTextLength is the text-layer size below which a PDF is
// treated as scanned.
const minMeaningfulTextLength = 50

// TextLayerReader reads the embedded text layer of a PDF page by page
type TextLayerReader struct{}

// NewTextLayerReader creates a new text layer reader
func NewTextLayerReader() *TextLayerReader {
	return &TextLayerReader{}
}

func (r *TextLayerReader) open(data []byte) (*pdf.Reader, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, newDocumentError(ErrorTypeUndecodable, "", "failed to open PDF", err)
	}
	return pdfReader, nil
}

// PageTexts returns one string per page. Pages whose text cannot be
// extracted yield an empty string.
func (r *TextLayerReader) PageTexts(data []byte) ([]string, error) {
	pdfReader, err := r.open(data)
	if err != nil {
		return nil, err
	}
	return r.pageTexts(pdfReader), nil
}

func (r *TextLayerReader) pageTexts(pdfReader *pdf.Reader) []string {
	texts := make([]string, 0, pdfReader.NumPage())
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		texts = append(texts, r.pageText(pdfReader, pageNum))
	}
	return texts
}

func (r *TextLayerReader) pageText(pdfReader *pdf.Reader, pageNum int) (text string) {
	defer func() {
		// ledongthuc/pdf panics on some malformed content streams
		if recover() != nil {
			text = ""
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}

// Analyze classifies the PDF by its text layer and embedded images. The
// page texts it read are kept in the result.
func (r *TextLayerReader) Analyze(data []byte) (*ContentInfo, error) {
	pdfReader, err := r.open(data)
	if err != nil {
		return nil, err
	}

	texts := r.pageTexts(pdfReader)
	textLength := len(strings.TrimSpace(strings.Join(texts, "")))
	imageCount := r.countImages(pdfReader)

	return &ContentInfo{
		Pages:       pdfReader.NumPage(),
		ContentType: classifyContent(textLength, imageCount > 0),
		ImageCount:  imageCount,
		TextLength:  textLength,
		Texts:       texts,
	}, nil
}

func classifyContent(textLength int, hasImages bool) ContentType {
	if textLength < minMeaningfulTextLength {
		if hasImages {
			return ContentTypeScannedImages
		}
		return ContentTypeNoContent
	}
	if hasImages {
		return ContentTypeMixed
	}
	return ContentTypeText
}

func (r *TextLayerReader) countImages(pdfReader *pdf.Reader) int {
	imageCount := 0
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		imageCount += r.countImagesOnPage(pdfReader, pageNum)
	}
	return imageCount
}

func (r *TextLayerReader) countImagesOnPage(pdfReader *pdf.Reader, pageNum int) (count int) {
	defer func() {
		if recover() != nil {
			count = 0
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return 0
	}

	xObjects := page.V.Key("Resources").Key("XObject")
	if xObjects.IsNull() || xObjects.Kind() != pdf.Dict {
		return 0
	}

	for _, key := range xObjects.Keys() {
		subtype := xObjects.Key(key).Key("Subtype")
		if !subtype.IsNull() && subtype.Name() == "Image" {
			count++
		}
	}
	return count
}
