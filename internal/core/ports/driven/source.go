package driven

import "context"

// DiscussionSource reads a remote discussion forum.
// Implementations map transport failures onto domain.ErrSourceUnavailable
// (page level) and domain.ErrItemFetchFailed (detail level).
type DiscussionSource interface {
	// ListTopics returns one page of topic summaries.
	ListTopics(ctx context.Context, req TopicQuery) (*TopicPage, error)

	// GetTopic returns the full detail of a single topic.
	GetTopic(ctx context.Context, topicID string) (*TopicDetail, error)

	// Close releases the network session.
	Close() error
}

// OrderHot orders topics by relevance.
const OrderHot = "HOT"

// TopicQuery selects a page of topic summaries.
type TopicQuery struct {
	// Keywords filters topics server side.
	Keywords []string

	// TagSlugs filters topics by tag.
	TagSlugs []string

	// Skip is the zero-based offset of the first topic.
	Skip int

	// First is the page size.
	First int

	// OrderBy is the sort order, e.g. OrderHot.
	OrderBy string
}

// TopicPage is one page of topic summaries.
type TopicPage struct {
	// TotalNum is the total number of matching topics reported by the API.
	TotalNum int

	// HasNextPage reports whether more pages exist.
	HasNextPage bool

	// Topics are the summaries on this page.
	Topics []TopicSummary
}

// TopicSummary is a listing entry.
type TopicSummary struct {
	TopicID   string
	Title     string
	Summary   string
	Author    string
	CreatedAt string
	UpdatedAt string
	HitCount  int
	Tags      []string
	URL       string
}

// TopicDetail is a full post.
type TopicDetail struct {
	TopicSummary

	// Content is the full post body.
	Content string
}
