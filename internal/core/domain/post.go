package domain

import "strings"

// AnonymousAuthor is used when a post carries no author.
const AnonymousAuthor = "Anonymous"

// RawPost is a harvested discussion post.
// It is immutable once harvested; a re-harvest supersedes it.
type RawPost struct {
	// TopicID is the unique identity key of the post.
	TopicID string `json:"topic_id"`

	// Title is the post title.
	Title string `json:"title"`

	// Summary is the short summary from the listing.
	Summary string `json:"summary"`

	// Content is the full post body.
	Content string `json:"content"`

	// Author is the author's username, or AnonymousAuthor.
	Author string `json:"author"`

	// CreatedAt is the remote creation timestamp, verbatim.
	CreatedAt string `json:"created_at"`

	// UpdatedAt is the remote update timestamp, verbatim.
	UpdatedAt string `json:"updated_at"`

	// HitCount is the remote view counter.
	HitCount int `json:"hit_count"`

	// Tags are the tag names attached to the post.
	Tags []string `json:"tags"`

	// URL links to the post on the forum.
	URL string `json:"url"`

	// ScrapedAt is the unix time (seconds) the post was collected.
	ScrapedAt float64 `json:"scraped_at"`
}

// Corpus is an ordered collection of posts, unique by TopicID.
// The zero value is ready to use.
type Corpus struct {
	posts []RawPost
	index map[string]int
}

// NewCorpus builds a corpus from posts, keeping the first occurrence of
// each topic ID.
func NewCorpus(posts []RawPost) *Corpus {
	c := &Corpus{}
	for i := range posts {
		c.Add(posts[i])
	}
	return c
}

// Add appends a post unless its topic ID is already present.
// Returns false for duplicates and posts without an ID.
func (c *Corpus) Add(p RawPost) bool {
	if p.TopicID == "" {
		return false
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if _, ok := c.index[p.TopicID]; ok {
		return false
	}
	c.index[p.TopicID] = len(c.posts)
	c.posts = append(c.posts, p)
	return true
}

// Contains reports whether a topic ID is present.
func (c *Corpus) Contains(topicID string) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[topicID]
	return ok
}

// ByTopicID returns the post with the given topic ID.
func (c *Corpus) ByTopicID(topicID string) (RawPost, bool) {
	if c == nil {
		return RawPost{}, false
	}
	i, ok := c.index[topicID]
	if !ok {
		return RawPost{}, false
	}
	return c.posts[i], true
}

// Len returns the number of posts.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.posts)
}

// Posts returns a copy of the posts in insertion order.
func (c *Corpus) Posts() []RawPost {
	if c == nil {
		return nil
	}
	out := make([]RawPost, len(c.posts))
	copy(out, c.posts)
	return out
}

// CompensationKeywords is the title vocabulary that marks a post as
// compensation related.
var CompensationKeywords = []string{"compensation", "salary", "offer", "pay", "total comp"}

// IsCompensationTitle reports whether a title contains any compensation
// keyword, case-insensitively.
func IsCompensationTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range CompensationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
