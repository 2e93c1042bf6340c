package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultConnectors are the "at/for" keywords that introduce an employer
// in a company line.
var DefaultConnectors = []string{"presso", "for", "at"}

// Normalizer recovers a company name from the free-form company line
type Normalizer struct {
	connectors []string
	pattern    *regexp.Regexp
}

// keywordLead must precede a connector keyword: line start or any rune that
// is not a letter, digit or underscore. RE2's \b only knows ASCII word
// characters and never matches before keywords such as "à" or "@".
const keywordLead = `(?:^|[^\p{L}\p{N}_])`

// NewNormalizer builds a normalizer for the given connector keywords.
// The employer is the text after a keyword, up to a 4-digit year or end of line.
func NewNormalizer(connectors []string) (*Normalizer, error) {
	if len(connectors) == 0 {
		return nil, errors.New("at least one connector keyword is required")
	}

	quoted := make([]string, 0, len(connectors))
	for _, c := range connectors {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, errors.New("connector keyword cannot be empty")
		}
		quoted = append(quoted, regexp.QuoteMeta(c))
	}

	pattern, err := regexp.Compile(keywordLead + `(?:` + strings.Join(quoted, "|") + `)\s(.*?)(?:\s\d{4}|$)`)
	if err != nil {
		return nil, fmt.Errorf("invalid connector keywords: %w", err)
	}

	return &Normalizer{
		connectors: append([]string(nil), connectors...),
		pattern:    pattern,
	}, nil
}

// Connectors returns the keywords this normalizer looks for
func (n *Normalizer) Connectors() []string {
	return append([]string(nil), n.connectors...)
}

// Company returns the employer named in line, or NotAvailable
func (n *Normalizer) Company(line string) string {
	m := n.pattern.FindStringSubmatch(line)
	if m == nil {
		return NotAvailable
	}
	return strings.TrimSpace(m[1])
}

// Normalize converts a raw record into a candidate record, dropping the
// company line it was derived from.
func (n *Normalizer) Normalize(raw RawRecord) CandidateRecord {
	return CandidateRecord{
		Name:     raw.Name,
		Title:    raw.Title,
		Location: raw.Location,
		Industry: raw.Industry,
		Company:  n.Company(raw.CompanyLine),
	}
}

// NormalizeAll normalizes records, preserving order
func (n *Normalizer) NormalizeAll(raws []RawRecord) []CandidateRecord {
	records := make([]CandidateRecord, 0, len(raws))
	for _, raw := range raws {
		records = append(records, n.Normalize(raw))
	}
	return records
}
