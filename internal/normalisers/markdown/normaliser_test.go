package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormaliser_Name(t *testing.T) {
	assert.Equal(t, "markdown", New().Name())
}

func TestNormaliser_Clean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "heading and emphasis",
			input:    "## Offer\n**Base:** 200k",
			expected: "Offer\nBase: 200k",
		},
		{
			name:     "links keep text",
			input:    "See [levels](https://levels.fyi) for more",
			expected: "See levels for more",
		},
		{
			name:     "images removed",
			input:    "Offer ![screenshot](https://img/x.png) attached",
			expected: "Offer  attached",
		},
		{
			name:     "code fences unwrapped",
			input:    "```\nBase: 180,000\nStock: 50,000\n```",
			expected: "Base: 180,000\nStock: 50,000",
		},
		{
			name:     "inline code unwrapped",
			input:    "TC `350k`",
			expected: "TC 350k",
		},
		{
			name:     "list markers and quotes",
			input:    "- Base: 100k\n* Bonus: 10%\n> from recruiter",
			expected: "Base: 100k\nBonus: 10%\nfrom recruiter",
		},
		{
			name:     "snake case survives",
			input:    "years_of_experience: 4",
			expected: "years_of_experience: 4",
		},
	}

	n := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Clean(tt.input))
		})
	}
}
