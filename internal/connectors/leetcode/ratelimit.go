package leetcode

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
)

const (
	// DefaultItemDelay is the pause after each detail fetch.
	DefaultItemDelay = 500 * time.Millisecond

	// DefaultPageDelay is the pause between pages.
	DefaultPageDelay = 2 * time.Second
)

// Ensure FixedDelayPolicy implements the interface.
var _ driven.RatePolicy = (*FixedDelayPolicy)(nil)

// FixedDelayPolicy enforces fixed pauses between harvest requests.
// Each pause is a single-token bucket refilled once per delay, so a pause
// always lasts the full delay measured from the call.
type FixedDelayPolicy struct {
	itemDelay time.Duration
	pageDelay time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewFixedDelayPolicy creates a policy. Zero delays fall back to the defaults;
// negative delays disable the pause.
func NewFixedDelayPolicy(itemDelay, pageDelay time.Duration) *FixedDelayPolicy {
	if itemDelay == 0 {
		itemDelay = DefaultItemDelay
	}
	if pageDelay == 0 {
		pageDelay = DefaultPageDelay
	}
	return &FixedDelayPolicy{
		itemDelay: itemDelay,
		pageDelay: pageDelay,
		sleep:     pause,
	}
}

// ItemDelay returns the pause after each detail fetch.
func (p *FixedDelayPolicy) ItemDelay() time.Duration { return p.itemDelay }

// PageDelay returns the pause between pages.
func (p *FixedDelayPolicy) PageDelay() time.Duration { return p.pageDelay }

// AfterItem blocks for the item delay.
func (p *FixedDelayPolicy) AfterItem(ctx context.Context) error {
	return p.sleep(ctx, p.itemDelay)
}

// AfterPage blocks for the page delay.
func (p *FixedDelayPolicy) AfterPage(ctx context.Context) error {
	return p.sleep(ctx, p.pageDelay)
}

// pause drains a fresh one-token bucket and waits for the refill, which takes
// exactly d.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	bucket := rate.NewLimiter(rate.Every(d), 1)
	bucket.Allow()
	return bucket.Wait(ctx)
}
