// Package leetcode implements a discussion source for the LeetCode
// discussion forum GraphQL API.
//
// # Architecture
//
// The connector follows the driven port pattern defined in
// [driven.DiscussionSource]. It comprises the following components:
//
//   - Source: maps API responses onto port types and domain errors
//   - Client: issues GraphQL operations with throttling and retries
//   - FixedDelayPolicy: the harvest pacing policy
//
// # Operations
//
// Two GraphQL operations are used:
//
//   - discussPostItems: a page of topic summaries, filtered by keywords and
//     tag slugs, ordered by HOT, addressed by skip/first
//   - discussPostDetail: the full post for one topic ID, including content
//
// # Rate Limiting
//
// Pacing is layered:
//
//  1. Fixed delays: FixedDelayPolicy holds the harvester back for a fixed
//     time after every detail fetch and between pages. These are floors,
//     not adaptive backoff.
//
//  2. Proactive throttling: the client waits on a token bucket before every
//     request, so no code path can issue a tight burst.
//
//  3. Reactive handling: HTTP 429 responses honour Retry-After and are retried
//     within the request's retry budget.
//
// # Error Handling
//
// Page failures become [domain.ErrSourceUnavailable]; detail failures become
// [domain.ErrItemFetchFailed]. Both wrap the underlying APIError, GraphQLError
// or RateLimitError so callers can inspect them with errors.As.
//
// # Example Usage
//
//	src := leetcode.New(leetcode.Config{})
//	defer src.Close()
//
//	page, err := src.ListTopics(ctx, driven.TopicQuery{Keywords: []string{"compensation"}, First: 50})
package leetcode
