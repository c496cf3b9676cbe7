package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
	"github.com/custodia-labs/paygrade/internal/logger"
)

// Ensure the extractors implement the interface.
var (
	_ driving.Extractor = (*ModelGroundedExtractor)(nil)
	_ driving.Extractor = (*HeuristicExtractor)(nil)
)

// NewExtractor returns the extractor for strategy. Unknown strategies fall
// back to model-grounded extraction.
func NewExtractor(strategy domain.ExtractionStrategy) driving.Extractor {
	if strategy == domain.ExtractionHeuristic {
		return NewHeuristicExtractor()
	}
	return NewModelGroundedExtractor()
}

// ModelGroundedExtractor trusts the structured object the model was asked to
// produce, after strict shape validation.
type ModelGroundedExtractor struct{}

// NewModelGroundedExtractor creates a model-grounded extractor.
func NewModelGroundedExtractor() *ModelGroundedExtractor {
	return &ModelGroundedExtractor{}
}

// Name returns the strategy name.
func (e *ModelGroundedExtractor) Name() domain.ExtractionStrategy {
	return domain.ExtractionModelGrounded
}

// Extract locates the JSON object in reply and validates it. A reply without
// a valid object yields the raw reply as summary with no records.
func (e *ModelGroundedExtractor) Extract(reply string, _ []domain.RetrievedChunk) domain.ExtractionOutcome {
	for _, span := range candidateSpans(reply) {
		payload, err := decodeReply(span)
		if err != nil {
			logger.Debug("Reply candidate rejected: %v", err)
			continue
		}
		return payload.outcome()
	}

	logger.Debug("Reply has no valid compensation object")
	return domain.ExtractionOutcome{
		Kind:   domain.OutcomeUnparsable,
		Result: domain.NewFallbackResult(reply),
	}
}

// candidateSpans returns the spans that may hold the reply object, in the
// order they should be tried: every top-level balanced {...} span, then the
// greedy first-{ to last-} span.
func candidateSpans(s string) []string {
	var spans []string
	start, depth := -1, 0
	inString, escaped := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				spans = append(spans, s[start:i+1])
			}
		}
	}

	first := strings.IndexByte(s, '{')
	last := strings.LastIndexByte(s, '}')
	if first >= 0 && last > first {
		greedy := s[first : last+1]
		if len(spans) == 0 || spans[0] != greedy {
			spans = append(spans, greedy)
		}
	}
	return spans
}

// Top-level keys of the reply object.
const (
	keySummary = "summary"
	keyCards   = "compensation_cards"
)

// replyPayload is the object the model is instructed to return.
type replyPayload struct {
	Summary string
	Cards   []json.RawMessage
}

var errTrailingData = errors.New("trailing data after object")

// decodeReply strictly decodes span into the reply object. Keys must match
// exactly, including case.
func decodeReply(span string) (*replyPayload, error) {
	dec := json.NewDecoder(strings.NewReader(span))

	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	for key := range fields {
		if key != keySummary && key != keyCards {
			return nil, fmt.Errorf("unknown key %q", key)
		}
	}

	rawSummary, ok := fields[keySummary]
	if !ok || isNull(rawSummary) {
		return nil, errors.New("missing summary")
	}
	rawCards, ok := fields[keyCards]
	if !ok || isNull(rawCards) {
		return nil, errors.New("missing compensation_cards")
	}

	var p replyPayload
	if err := json.Unmarshal(rawSummary, &p.Summary); err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	if err := json.Unmarshal(rawCards, &p.Cards); err != nil {
		return nil, fmt.Errorf("compensation_cards: %w", err)
	}
	return &p, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (p *replyPayload) outcome() domain.ExtractionOutcome {
	out := domain.ExtractionOutcome{Kind: domain.OutcomeParsed}
	records := make([]domain.CompensationRecord, 0, min(len(p.Cards), domain.MaxRecords))

	for i, raw := range p.Cards {
		rec, cleared, err := decodeCard(raw)
		if err != nil {
			logger.Debug("Dropping card %d: %v", i, err)
			out.Dropped++
			continue
		}
		out.ClearedCurrencies += cleared
		records = append(records, rec)
	}
	if len(records) > domain.MaxRecords {
		records = records[:domain.MaxRecords]
	}

	out.Result = domain.QueryResult{
		Summary:     p.Summary,
		Records:     records,
		SourceLinks: domain.SourceLinksFor(records),
	}
	return out
}

// decodeCard validates one card. It returns the number of currency codes
// that had to be cleared.
func decodeCard(raw json.RawMessage) (domain.CompensationRecord, int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.CompensationRecord{}, 0, errors.New("card is not an object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return domain.CompensationRecord{}, 0, err
	}

	id := scalarText(fields["id"])
	company := scalarText(fields["company"])
	if id == "" {
		return domain.CompensationRecord{}, 0, errors.New("missing id")
	}
	if company == "" {
		return domain.CompensationRecord{}, 0, errors.New("missing company")
	}

	cleared := 0
	currency := func(key string) string {
		v := scalarText(fields[key])
		code := domain.NormalizeCurrency(v)
		if v != "" && code == "" {
			cleared++
		}
		return code
	}

	rec := domain.CompensationRecord{
		ID:                        id,
		Company:                   company,
		Title:                     orNotSpecified(scalarText(fields["title"])),
		TotalCompensation:         orNotSpecified(scalarText(fields["total_compensation"])),
		TotalCompensationCurrency: currency("total_compensation_currency"),
		BaseSalary:                orNotSpecified(scalarText(fields["base_salary"])),
		BaseSalaryCurrency:        currency("base_salary_currency"),
		Equity:                    orNotSpecified(scalarText(fields["equity"])),
		EquityCurrency:            currency("equity_currency"),
		Bonus:                     orNotSpecified(scalarText(fields["bonus"])),
		BonusCurrency:             currency("bonus_currency"),
		Experience:                orNotSpecified(scalarText(fields["experience"])),
		Location:                  orNotSpecified(scalarText(fields["location"])),
		URL:                       orNotSpecified(scalarText(fields["url"])),
		CreatedAt:                 orNotSpecified(scalarText(fields["created_at"])),
	}
	return rec, cleared, nil
}

// scalarText renders a JSON string, number or boolean as trimmed text.
// Absent values, null, objects and arrays render as "".
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return ""
		}
		return strconv.FormatBool(b)
	case 'n', '{', '[':
		return ""
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		return n.String()
	}
}

func orNotSpecified(s string) string {
	if s == "" {
		return domain.NotSpecified
	}
	return s
}

// parsedSummary renders a short description of an outcome for logs.
func parsedSummary(o domain.ExtractionOutcome) string {
	return fmt.Sprintf("%s: %d records, %d dropped, %d currencies cleared",
		o.Kind, len(o.Result.Records), o.Dropped, o.ClearedCurrencies)
}
