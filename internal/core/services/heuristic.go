package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/paygrade/internal/core/domain"
)

// UnknownCompany is the company recorded when no known name appears in a title.
const UnknownCompany = "Unknown"

var (
	// heuristicKeywords gate which posts are mined.
	heuristicKeywords = []string{"salary", "compensation", "offer", "tc", "total comp"}

	// knownCompanies are matched against lower-cased titles, in order.
	knownCompanies = []struct{ match, name string }{
		{"google", "Google"},
		{"meta", "Meta"},
		{"facebook", "Meta"},
		{"amazon", "Amazon"},
		{"microsoft", "Microsoft"},
		{"apple", "Apple"},
		{"netflix", "Netflix"},
		{"uber", "Uber"},
		{"airbnb", "Airbnb"},
		{"salesforce", "Salesforce"},
	}

	amountPattern = regexp.MustCompile(`\$?(\d{1,3}(?:,\d{3})*(?:\.\d{2})?)k?`)

	levelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`l(\d+)`),
		regexp.MustCompile(`level\s*(\d+)`),
		regexp.MustCompile(`e(\d+)`),
		regexp.MustCompile(`sde\s*(\d+)`),
		regexp.MustCompile(`ic(\d+)`),
	}
)

// HeuristicExtractor mines compensation figures from the retrieved posts'
// raw text and ignores the structure of the model reply.
//
// Results are low confidence. When a post has a single figure, base, bonus
// and equity are fixed fractions of it.
type HeuristicExtractor struct{}

// NewHeuristicExtractor creates a heuristic extractor.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// Name returns the strategy name.
func (e *HeuristicExtractor) Name() domain.ExtractionStrategy {
	return domain.ExtractionHeuristic
}

// Extract returns reply as the summary and one record per qualifying post.
func (e *HeuristicExtractor) Extract(reply string, retrieved []domain.RetrievedChunk) domain.ExtractionOutcome {
	records := make([]domain.CompensationRecord, 0, domain.MaxRecords)
	seen := make(map[string]struct{})

	for i := range retrieved {
		post := retrieved[i].Post
		if post == nil {
			continue
		}
		if _, ok := seen[post.TopicID]; ok {
			continue
		}
		seen[post.TopicID] = struct{}{}

		rec, ok := mineRecord(post)
		if !ok {
			continue
		}
		records = append(records, rec)
		if len(records) == domain.MaxRecords {
			break
		}
	}

	return domain.ExtractionOutcome{
		Kind: domain.OutcomeParsed,
		Result: domain.QueryResult{
			Summary:     reply,
			Records:     records,
			SourceLinks: domain.SourceLinksFor(records),
		},
	}
}

func mineRecord(post *domain.RawPost) (domain.CompensationRecord, bool) {
	text := strings.ToLower(post.Title + " " + post.Content)
	if !containsAny(text, heuristicKeywords) {
		return domain.CompensationRecord{}, false
	}

	company := companyFromTitle(post.Title)
	amounts := extractAmounts(post.Content)

	var total, base int
	for i, n := range amounts {
		if i == 0 || n > total {
			total = n
		}
		if i == 0 || n < base {
			base = n
		}
	}
	if len(amounts) < 2 {
		base = total * 6 / 10
	}
	bonus := total / 10
	equity := total - base - bonus

	if total <= 0 && company == UnknownCompany {
		return domain.CompensationRecord{}, false
	}

	return domain.CompensationRecord{
		ID:                post.TopicID,
		Company:           company,
		Title:             orNotSpecified(detectLevel(text, company)),
		TotalCompensation: strconv.Itoa(total),
		BaseSalary:        strconv.Itoa(base),
		Equity:            strconv.Itoa(equity),
		Bonus:             strconv.Itoa(bonus),
		Experience:        domain.NotSpecified,
		Location:          domain.NotSpecified,
		URL:               orNotSpecified(post.URL),
		CreatedAt:         orNotSpecified(post.CreatedAt),
	}, true
}

func companyFromTitle(title string) string {
	lower := strings.ToLower(title)
	for _, c := range knownCompanies {
		if strings.Contains(lower, c.match) {
			return c.name
		}
	}
	return UnknownCompany
}

// extractAmounts returns the figures with at least four digits.
func extractAmounts(content string) []int {
	var out []int
	for _, m := range amountPattern.FindAllStringSubmatch(content, -1) {
		digits := strings.ReplaceAll(m[1], ",", "")
		if len(digits) < 4 {
			continue
		}
		v, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			continue
		}
		out = append(out, int(v))
	}
	return out
}

// detectLevel returns the level named in text, styled for the company.
func detectLevel(text, company string) string {
	for _, re := range levelPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		switch {
		case strings.Contains(text, "sde"):
			return "SDE " + m[1]
		case company == "Meta":
			return "E" + m[1]
		default:
			return "L" + m[1]
		}
	}
	return ""
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
