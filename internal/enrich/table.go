package enrich

// Header names the seven table columns, in Row order
var Header = []string{"name", "title", "location", "industry", "company", "insight", "email"}

// Row flattens the record into table cells matching Header
func (r EnrichedRecord) Row() []string {
	return []string{
		r.Name,
		r.Title,
		r.Location,
		r.Industry,
		r.Company,
		r.Insight.Text,
		r.Email,
	}
}

// Rows flattens records into table rows, without the header
func Rows(records []EnrichedRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Row())
	}
	return rows
}
