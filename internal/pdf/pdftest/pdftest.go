// Package pdftest builds small, well-formed PDF documents for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// Minimal returns a PDF with one page per entry in pageLines. Each page
// shows its lines top to bottom in Helvetica.
func Minimal(pageLines ...[]string) []byte {
	if len(pageLines) == 0 {
		pageLines = [][]string{{}}
	}
	return build(pageLines, false)
}

// Scanned returns a PDF of the given number of pages that carry only a
// full-page image and no text layer, like the output of a scanner.
func Scanned(pages int) []byte {
	if pages < 1 {
		pages = 1
	}
	return build(make([][]string, pages), true)
}

func build(pageLines [][]string, withImage bool) []byte {
	// 1: catalog, 2: pages, 3: font, 4: image, then a page and a content
	// stream per page
	const firstPage = 5

	var objects []string
	kids := make([]string, 0, len(pageLines))
	for i := range pageLines {
		kids = append(kids, fmt.Sprintf("%d 0 R", firstPage+2*i))
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pageLines)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		"<< /Type /XObject /Subtype /Image /Width 1 /Height 1 /ColorSpace /DeviceGray "+
			"/BitsPerComponent 8 /Length 1 >>\nstream\n\xff\nendstream",
	)

	resources := "<< /Font << /F1 3 0 R >> >>"
	if withImage {
		resources = "<< /Font << /F1 3 0 R >> /XObject << /Im1 4 0 R >> >>"
	}

	for i, lines := range pageLines {
		content := contentStream(lines)
		if withImage {
			content = "q 612 0 0 792 0 0 cm /Im1 Do Q"
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources %s /Contents %d 0 R >>", resources, firstPage+1+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	return buf.Bytes()
}

func contentStream(lines []string) string {
	var b strings.Builder
	b.WriteString("BT\n/F1 12 Tf\n14 TL\n72 720 Td\n")
	for _, line := range lines {
		fmt.Fprintf(&b, "(%s) Tj\nT*\n", escape(line))
	}
	b.WriteString("ET")
	return b.String()
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
