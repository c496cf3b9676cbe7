package leetcode

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

// PostURLPrefix is the public URL prefix of a discussion post.
const PostURLPrefix = "https://leetcode.com/discuss/post/"

// Ensure Source implements the interface.
var _ driven.DiscussionSource = (*Source)(nil)

// Source reads LeetCode discussion topics.
type Source struct {
	client *Client
}

// New creates a source with its own network session.
func New(cfg Config) *Source {
	return &Source{client: NewClient(cfg)}
}

// NewWithClient creates a source over an existing client.
func NewWithClient(client *Client) *Source {
	return &Source{client: client}
}

// PostURL returns the public URL of a topic.
func PostURL(topicID string) string {
	return PostURLPrefix + topicID
}

// ListTopics returns one page of topic summaries.
func (s *Source) ListTopics(ctx context.Context, q driven.TopicQuery) (*driven.TopicPage, error) {
	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = driven.OrderHot
	}
	vars := map[string]any{
		"orderBy":  orderBy,
		"keywords": nonNil(q.Keywords),
		"tagSlugs": nonNil(q.TagSlugs),
		"skip":     q.Skip,
		"first":    q.First,
	}

	var data listTopicsData
	if err := s.client.do(ctx, opListTopics, listTopicsQuery, vars, &data); err != nil {
		return nil, pageError(q.Skip, err)
	}
	if data.Articles == nil {
		return nil, pageError(q.Skip, ErrEmptyResponse)
	}

	page := &driven.TopicPage{
		TotalNum:    data.Articles.TotalNum,
		HasNextPage: data.Articles.PageInfo.HasNextPage,
		Topics:      make([]driven.TopicSummary, 0, len(data.Articles.Edges)),
	}
	for i := range data.Articles.Edges {
		page.Topics = append(page.Topics, toSummary(&data.Articles.Edges[i].Node))
	}
	return page, nil
}

// GetTopic returns the full detail of a topic.
func (s *Source) GetTopic(ctx context.Context, topicID string) (*driven.TopicDetail, error) {
	vars := map[string]any{"topicId": topicID}

	var data getTopicData
	if err := s.client.do(ctx, opGetTopic, getTopicQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("get topic %s: %w: %w", topicID, domain.ErrItemFetchFailed, err)
	}
	if data.Article == nil {
		return nil, fmt.Errorf("get topic %s: %w: %w", topicID, domain.ErrItemFetchFailed,
			errors.Join(ErrTopicNotFound, domain.ErrNotFound))
	}

	detail := &driven.TopicDetail{
		TopicSummary: toSummary(data.Article),
		Content:      data.Article.Content,
	}
	if detail.TopicID == "" {
		detail.TopicID = topicID
		detail.URL = PostURL(topicID)
	}
	return detail, nil
}

// Close releases the network session.
func (s *Source) Close() error {
	return s.client.Close()
}

func pageError(skip int, err error) error {
	if IsRateLimited(err) {
		return fmt.Errorf("list topics skip=%d: %w: %w: %w", skip, domain.ErrSourceUnavailable, domain.ErrRateLimited, err)
	}
	return fmt.Errorf("list topics skip=%d: %w: %w", skip, domain.ErrSourceUnavailable, err)
}

func toSummary(a *article) driven.TopicSummary {
	s := driven.TopicSummary{
		TopicID:   string(a.TopicID),
		Title:     a.Title,
		Summary:   a.Summary,
		CreatedAt: a.Created,
		UpdatedAt: a.Updated,
		HitCount:  a.HitCount,
		Tags:      make([]string, 0, len(a.Tags)),
	}
	if a.Author != nil {
		s.Author = a.Author.UserName
	}
	for _, t := range a.Tags {
		s.Tags = append(s.Tags, t.Name)
	}
	if s.TopicID != "" {
		s.URL = PostURL(s.TopicID)
	}
	return s
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
