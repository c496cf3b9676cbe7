package driven

import "context"

// RatePolicy paces harvest requests.
// Delays are fixed floors, not adaptive backoff. Both methods return early
// with the context error when ctx is cancelled.
type RatePolicy interface {
	// AfterItem blocks for the inter-request delay after a detail fetch.
	AfterItem(ctx context.Context) error

	// AfterPage blocks for the inter-batch delay between pages.
	AfterPage(ctx context.Context) error
}
