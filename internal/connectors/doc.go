// Package connectors provides implementations of the DiscussionSource
// interface for remote forums. Each connector knows how to page topic
// summaries and fetch post detail from one forum API.
package connectors
