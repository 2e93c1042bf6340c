package pdf

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// DefaultDPI is the render resolution used for OCR
const DefaultDPI = 300

// Rasterizer renders every page of a PDF to an image, in page order
type Rasterizer interface {
	Rasterize(data []byte) ([]PageImage, error)
}

// FitzRasterizer renders pages with MuPDF
type FitzRasterizer struct {
	dpi float64
}

// NewFitzRasterizer creates a rasterizer rendering at dpi (DefaultDPI if <= 0)
func NewFitzRasterizer(dpi float64) *FitzRasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &FitzRasterizer{dpi: dpi}
}

// DPI returns the render resolution
func (r *FitzRasterizer) DPI() float64 {
	return r.dpi
}

// Rasterize renders all pages as PNG. A document MuPDF cannot open is a
// *DocumentError; so is a page that fails to render.
func (r *FitzRasterizer) Rasterize(data []byte) ([]PageImage, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, newDocumentError(ErrorTypeUndecodable, "", "failed to open PDF for rendering", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	pages := make([]PageImage, 0, numPages)

	for i := 0; i < numPages; i++ {
		png, err := doc.ImagePNG(i, r.dpi)
		if err != nil {
			return nil, newDocumentError(ErrorTypeUndecodable, "",
				fmt.Sprintf("failed to render page %d", i+1), err)
		}
		pages = append(pages, PageImage{Number: i + 1, PNG: png})
	}

	return pages, nil
}
