package extract

import (
	"fmt"
	"strings"
)

// PageMarker returns the marker line that precedes the text of page n (1-indexed)
func PageMarker(n int) string {
	return fmt.Sprintf("--- Page %d ---", n)
}

// Assemble concatenates per-page text into one document. Every page is kept,
// in order, including empty ones.
func Assemble(pages []string) string {
	var builder strings.Builder
	for i, text := range pages {
		builder.WriteString(PageMarker(i + 1))
		builder.WriteByte('\n')
		builder.WriteString(text)
		builder.WriteByte('\n')
	}
	return builder.String()
}
