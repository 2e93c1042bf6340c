package ocr

// DefaultLanguage is the Tesseract language used when none is configured
const DefaultLanguage = "eng"

// PageSegMode mirrors Tesseract's page segmentation modes
type PageSegMode int

const (
	PSMAuto         PageSegMode = 3  // Fully automatic (default)
	PSMSingleColumn PageSegMode = 4  // Single column of variable sizes
	PSMSingleBlock  PageSegMode = 6  // Single uniform block of text
	PSMSparseText   PageSegMode = 11 // Find as much text as possible
)
