package domain

// NotSpecified is the sentinel for string fields the source text does not
// provide. Currency fields use the empty string instead.
const NotSpecified = "Not specified"

// MaxRecords caps the records and source links in a QueryResult.
const MaxRecords = 10

// CompensationRecord is one structured compensation data point.
// Amounts are absolute numeric values rendered as text, each paired with an
// ISO-4217 currency code or the empty string.
type CompensationRecord struct {
	ID                        string `json:"id"`
	Company                   string `json:"company"`
	Title                     string `json:"title"`
	TotalCompensation         string `json:"total_compensation"`
	TotalCompensationCurrency string `json:"total_compensation_currency"`
	BaseSalary                string `json:"base_salary"`
	BaseSalaryCurrency        string `json:"base_salary_currency"`
	Equity                    string `json:"equity"`
	EquityCurrency            string `json:"equity_currency"`
	Bonus                     string `json:"bonus"`
	BonusCurrency             string `json:"bonus_currency"`
	Experience                string `json:"experience"`
	Location                  string `json:"location"`
	URL                       string `json:"url"`
	CreatedAt                 string `json:"created_at"`
}

// QueryResult is the validated answer to a compensation question.
type QueryResult struct {
	// Summary is the prose answer.
	Summary string `json:"response"`

	// Records holds at most MaxRecords compensation records in model order.
	Records []CompensationRecord `json:"compensation_data"`

	// SourceLinks holds the unique non-empty record URLs, at most MaxRecords.
	SourceLinks []string `json:"source_links"`
}

// NewFallbackResult returns the safe default for a reply that carries no
// usable structure: the reply becomes the summary, with no records or links.
func NewFallbackResult(reply string) QueryResult {
	return QueryResult{
		Summary:     reply,
		Records:     []CompensationRecord{},
		SourceLinks: []string{},
	}
}

// OutcomeKind tags how an extraction resolved.
type OutcomeKind string

const (
	// OutcomeParsed means a structured reply was located and validated.
	OutcomeParsed OutcomeKind = "parsed"

	// OutcomeUnparsable means the reply was kept as raw text.
	OutcomeUnparsable OutcomeKind = "unparsable"
)

// ExtractionOutcome is the tagged result of an extraction.
type ExtractionOutcome struct {
	// Kind reports whether the reply parsed.
	Kind OutcomeKind

	// Result is always a well-formed QueryResult.
	Result QueryResult

	// Dropped counts records removed for missing id or company.
	Dropped int

	// ClearedCurrencies counts currency fields reset to empty.
	ClearedCurrencies int
}

// Parsed reports whether the outcome came from a structured reply.
func (o ExtractionOutcome) Parsed() bool {
	return o.Kind == OutcomeParsed
}

// SourceLinksFor collects the unique non-empty URLs of records in order,
// capped at MaxRecords.
func SourceLinksFor(records []CompensationRecord) []string {
	links := make([]string, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i := range records {
		u := records[i].URL
		if u == "" || u == NotSpecified {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		links = append(links, u)
		if len(links) == MaxRecords {
			break
		}
	}
	return links
}
