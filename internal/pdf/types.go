package pdf

// ContentType describes what a PDF carries
type ContentType string

const (
	ContentTypeText          ContentType = "text"
	ContentTypeScannedImages ContentType = "scanned_images"
	ContentTypeMixed         ContentType = "mixed"
	ContentTypeNoContent     ContentType = "no_content"
)

// HasTextLayer reports whether the content type carries extractable text
func (c ContentType) HasTextLayer() bool {
	return c == ContentTypeText || c == ContentTypeMixed
}

// PageImage is a rendered page
type PageImage struct {
	Number int    `json:"number"` // 1-indexed
	PNG    []byte `json:"-"`
}

// ValidateFileResult represents the result of a PDF validation operation
type ValidateFileResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Pages   int    `json:"pages,omitempty"`
	Size    int64  `json:"size,omitempty"`
	Message string `json:"message,omitempty"`
}

// ContentInfo summarizes the text layer and images of a PDF
type ContentInfo struct {
	Pages       int         `json:"pages"`
	ContentType ContentType `json:"content_type"`
	ImageCount  int         `json:"image_count"`
	TextLength  int         `json:"text_length"`

	// Texts is the text layer read during analysis, one entry per page
	Texts []string `json:"-"`
}
