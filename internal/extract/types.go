// Package extract turns recognized page text into candidate records.
//
// The pipeline is: Assemble the per-page text into a single document, Parse
// the document for the candidate layout motif, then Normalize each raw record
// so that it carries a company name instead of the free-form employer line.
package extract

// NotAvailable is the company value used when no employer could be recovered.
const NotAvailable = "Not Available"

// RawRecord is one motif match, before company normalization
type RawRecord struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Industry    string `json:"industry"`
	CompanyLine string `json:"company_line"`
}

// CandidateRecord is a normalized candidate. Company always holds either the
// recovered employer or NotAvailable.
type CandidateRecord struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Location string `json:"location"`
	Industry string `json:"industry"`
	Company  string `json:"company"`
}
