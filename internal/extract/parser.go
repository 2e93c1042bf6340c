package extract

import (
	"regexp"
)

// Matcher finds candidate records in an assembled document. Spans that do not
// form a complete record are skipped, never reported.
type Matcher interface {
	Match(document string) []RawRecord
}

// candidatePattern is the profile-listing layout:
//
//	Jane Doe - 500°
//	<title>
//
//	<location> - <industry>
//
//	<company line>
var candidatePattern = regexp.MustCompile(
	`(?P<name>[A-Z][a-z]+(?: [A-Z][a-z]+)*)\s-\s\d+°\n` +
		`(?P<title>.*?)\n\n` +
		`(?P<location>.*?)(?:\s-\s(?P<industry>.*?))\n\n` +
		`(?P<company_line>.*?)\n?\n`,
)

// RegexMatcher matches the listing layout with a single regular expression
type RegexMatcher struct {
	pattern *regexp.Regexp
	name    int
	title   int
	loc     int
	ind     int
	company int
}

// NewRegexMatcher creates a matcher for the default listing layout
func NewRegexMatcher() *RegexMatcher {
	p := candidatePattern
	return &RegexMatcher{
		pattern: p,
		name:    p.SubexpIndex("name"),
		title:   p.SubexpIndex("title"),
		loc:     p.SubexpIndex("location"),
		ind:     p.SubexpIndex("industry"),
		company: p.SubexpIndex("company_line"),
	}
}

// Match scans the document once, left to right, and returns one record per
// non-overlapping match in document order.
func (m *RegexMatcher) Match(document string) []RawRecord {
	matches := m.pattern.FindAllStringSubmatch(document, -1)
	records := make([]RawRecord, 0, len(matches))
	for _, sm := range matches {
		records = append(records, RawRecord{
			Name:        sm[m.name],
			Title:       sm[m.title],
			Location:    sm[m.loc],
			Industry:    sm[m.ind],
			CompanyLine: sm[m.company],
		})
	}
	return records
}

// Parse runs the default matcher over document
func Parse(document string) []RawRecord {
	return NewRegexMatcher().Match(document)
}
