package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

// newTestSource starts a GraphQL stub and returns a source pointed at it.
func newTestSource(t *testing.T, handler http.HandlerFunc) *Source {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	src := New(Config{
		Endpoint:          srv.URL,
		RequestsPerSecond: 1000,
		RetryDelay:        time.Millisecond,
	})
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func decodeRequest(t *testing.T, r *http.Request) graphQLRequest {
	t.Helper()
	var req graphQLRequest
	require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

const listBody = `{
  "data": {
    "ugcArticleDiscussionArticles": {
      "totalNum": 2,
      "pageInfo": {"hasNextPage": true},
      "edges": [
        {"node": {"topicId": 101, "title": "Google L5 offer", "summary": "s1",
                  "author": {"userName": "alice"}, "createdAt": "2025-01-01T00:00:00Z",
                  "hitCount": 7, "tags": [{"name": "Compensation"}, {"name": "Google"}]}},
        {"node": {"topicId": "102", "title": "Leetcode weekly #312", "author": null}}
      ]
    }
  }
}`

func TestSource_ListTopics(t *testing.T) {
	var captured graphQLRequest
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		captured = decodeRequest(t, r)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(listBody))
	})

	page, err := src.ListTopics(context.Background(), driven.TopicQuery{
		Keywords: []string{"compensation"},
		Skip:     50,
		First:    50,
	})
	require.NoError(t, err)

	assert.Equal(t, "discussPostItems", captured.OperationName)
	assert.Equal(t, "HOT", captured.Variables["orderBy"])
	assert.EqualValues(t, 50, captured.Variables["skip"])
	assert.EqualValues(t, 50, captured.Variables["first"])
	assert.Equal(t, []any{"compensation"}, captured.Variables["keywords"])
	assert.Equal(t, []any{}, captured.Variables["tagSlugs"])

	assert.Equal(t, 2, page.TotalNum)
	assert.True(t, page.HasNextPage)
	require.Len(t, page.Topics, 2)

	first := page.Topics[0]
	assert.Equal(t, "101", first.TopicID, "numeric IDs decode as text")
	assert.Equal(t, "alice", first.Author)
	assert.Equal(t, 7, first.HitCount)
	assert.Equal(t, []string{"Compensation", "Google"}, first.Tags)
	assert.Equal(t, "https://leetcode.com/discuss/post/101", first.URL)

	assert.Equal(t, "102", page.Topics[1].TopicID)
	assert.Empty(t, page.Topics[1].Author)
}

func TestSource_ListTopics_FailureIsSourceUnavailable(t *testing.T) {
	var calls atomic.Int32
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := src.ListTopics(context.Background(), driven.TopicQuery{First: 10})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, int32(MaxRetries+1), calls.Load(), "server errors use the retry budget")
}

func TestSource_ListTopics_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(listBody))
	})

	page, err := src.ListTopics(context.Background(), driven.TopicQuery{First: 10})

	require.NoError(t, err)
	assert.Len(t, page.Topics, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSource_ListTopics_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := src.ListTopics(context.Background(), driven.TopicQuery{First: 10})

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSource_ListTopics_RateLimited(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := src.ListTopics(context.Background(), driven.TopicQuery{First: 10})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrSourceUnavailable))
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
	assert.True(t, IsRateLimited(err))
}

func TestSource_ListTopics_GraphQLErrors(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": null, "errors": [{"message": "bad field"}]}`))
	})

	_, err := src.ListTopics(context.Background(), driven.TopicQuery{First: 10})

	require.Error(t, err)
	var gqlErr *GraphQLError
	require.True(t, errors.As(err, &gqlErr))
	assert.Equal(t, []string{"bad field"}, gqlErr.Messages)
	assert.Contains(t, err.Error(), "discussPostItems")
}

func TestSource_GetTopic(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeRequest(t, r)
		assert.Equal(t, "discussPostDetail", req.OperationName)
		assert.Equal(t, "101", req.Variables["topicId"])
		_, _ = w.Write([]byte(`{"data": {"ugcArticleDiscussionArticle": {
			"topicId": "101", "title": "Google L5 offer", "summary": "s", "content": "TC 350k",
			"author": {"userName": "alice"}, "createdAt": "c", "updatedAt": "u",
			"hitCount": 3, "tags": [{"name": "Google"}]}}}`))
	})

	detail, err := src.GetTopic(context.Background(), "101")

	require.NoError(t, err)
	assert.Equal(t, "TC 350k", detail.Content)
	assert.Equal(t, "alice", detail.Author)
	assert.Equal(t, "u", detail.UpdatedAt)
	assert.Equal(t, PostURL("101"), detail.URL)
}

func TestSource_GetTopic_NotFound(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"ugcArticleDiscussionArticle": null}}`))
	})

	_, err := src.GetTopic(context.Background(), "404")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrItemFetchFailed))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, IsNotFound(err))
	assert.False(t, errors.Is(err, domain.ErrSourceUnavailable))
}

func TestSource_GetTopic_TransportFailure(t *testing.T) {
	src := New(Config{
		Endpoint:          "http://127.0.0.1:1",
		RequestsPerSecond: 1000,
		MaxRetries:        -1,
	})
	defer src.Close()

	_, err := src.GetTopic(context.Background(), "1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrItemFetchFailed))
}

func TestSource_CancelledContext(t *testing.T) {
	src := newTestSource(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.ListTopics(ctx, driven.TopicQuery{First: 10})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon"))
}

func TestClient_Backoff(t *testing.T) {
	c := NewClient(Config{RetryDelay: 100 * time.Millisecond})

	assert.Equal(t, 100*time.Millisecond, c.backoff(1, errors.New("x")))
	assert.Equal(t, 200*time.Millisecond, c.backoff(2, errors.New("x")))
	assert.Equal(t, 2*time.Second, c.backoff(1, &RateLimitError{RetryAfter: 2 * time.Second}))
	assert.Equal(t, MaxRetryDelay, c.backoff(30, errors.New("x")))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, isRetryable(nil))
	assert.True(t, isRetryable(&RateLimitError{}))
	assert.True(t, isRetryable(&APIError{StatusCode: 500}))
	assert.False(t, isRetryable(&APIError{StatusCode: 404}))
	assert.False(t, isRetryable(&GraphQLError{}))
	assert.False(t, isRetryable(ErrEmptyResponse))
	assert.False(t, isRetryable(context.Canceled))
	assert.True(t, isRetryable(errors.New("connection reset")))
}
