package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFallbackResult(t *testing.T) {
	r := NewFallbackResult("plain prose")

	assert.Equal(t, "plain prose", r.Summary)
	assert.NotNil(t, r.Records)
	assert.Empty(t, r.Records)
	assert.NotNil(t, r.SourceLinks)
	assert.Empty(t, r.SourceLinks)
}

func TestSourceLinksFor_UniqueAndOrdered(t *testing.T) {
	records := []CompensationRecord{
		{URL: "https://a"},
		{URL: ""},
		{URL: "https://b"},
		{URL: "https://a"},
		{URL: NotSpecified},
	}

	assert.Equal(t, []string{"https://a", "https://b"}, SourceLinksFor(records))
}

func TestSourceLinksFor_Capped(t *testing.T) {
	records := make([]CompensationRecord, 25)
	for i := range records {
		records[i].URL = fmt.Sprintf("https://post/%d", i)
	}

	links := SourceLinksFor(records)
	assert.Len(t, links, MaxRecords)
	assert.Equal(t, "https://post/0", links[0])
}

func TestExtractionOutcome_Parsed(t *testing.T) {
	assert.True(t, ExtractionOutcome{Kind: OutcomeParsed}.Parsed())
	assert.False(t, ExtractionOutcome{Kind: OutcomeUnparsable}.Parsed())
}

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"USD", "USD"},
		{" inr ", "INR"},
		{"eur", "EUR"},
		{"LPA INR", ""},
		{"US$", ""},
		{"ABC", ""},
		{"", ""},
		{"DOLLARS", ""},
		{"ved", "VED"},
		{"ZWG", "ZWG"},
		{"XCG", "XCG"},
		{"CLF", "CLF"},
		{"XAU", ""},
		{"XTS", ""},
		{"HRK", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeCurrency(tt.in))
		})
	}
}
