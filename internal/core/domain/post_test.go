package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpus_AddDeduplicates(t *testing.T) {
	var c Corpus

	assert.True(t, c.Add(RawPost{TopicID: "1", Title: "first"}))
	assert.False(t, c.Add(RawPost{TopicID: "1", Title: "second"}))
	assert.True(t, c.Add(RawPost{TopicID: "2"}))

	require.Equal(t, 2, c.Len())
	p, ok := c.ByTopicID("1")
	require.True(t, ok)
	assert.Equal(t, "first", p.Title, "first occurrence wins")
}

func TestCorpus_RejectsEmptyID(t *testing.T) {
	var c Corpus
	assert.False(t, c.Add(RawPost{Title: "no id"}))
	assert.Equal(t, 0, c.Len())
}

func TestNewCorpus_PreservesOrder(t *testing.T) {
	c := NewCorpus([]RawPost{{TopicID: "b"}, {TopicID: "a"}, {TopicID: "b"}})

	posts := c.Posts()
	require.Len(t, posts, 2)
	assert.Equal(t, "b", posts[0].TopicID)
	assert.Equal(t, "a", posts[1].TopicID)
	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("c"))
}

func TestCorpus_PostsReturnsCopy(t *testing.T) {
	c := NewCorpus([]RawPost{{TopicID: "1", Title: "orig"}})
	posts := c.Posts()
	posts[0].Title = "changed"

	p, _ := c.ByTopicID("1")
	assert.Equal(t, "orig", p.Title)
}

func TestCorpus_NilLen(t *testing.T) {
	var c *Corpus
	assert.Equal(t, 0, c.Len())
	assert.Nil(t, c.Posts())
}

func TestIsCompensationTitle(t *testing.T) {
	tests := []struct {
		title    string
		expected bool
	}{
		{"Google L5 offer", true},
		{"Amazon SDE2 Compensation", true},
		{"What is the SALARY at Meta", true},
		{"Total Comp breakdown", true},
		{"Pay bump after promo", true},
		{"Weekly coding contest", false},
		{"Leetcode weekly #312", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCompensationTitle(tt.title))
		})
	}
}
