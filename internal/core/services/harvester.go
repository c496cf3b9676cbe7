package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driven"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
	"github.com/custodia-labs/paygrade/internal/logger"
)

// Ensure HarvestService implements the interface.
var _ driving.Harvester = (*HarvestService)(nil)

// DefaultSearchKeywords are sent as the server-side keyword filter.
var DefaultSearchKeywords = []string{"compensation"}

// HarvestService pages through the discussion source and collects
// compensation posts into a corpus.
type HarvestService struct {
	source   driven.DiscussionSource
	policy   driven.RatePolicy
	store    driven.CorpusStore
	keywords []string
	now      func() time.Time
}

// HarvestOption configures a HarvestService.
type HarvestOption func(*HarvestService)

// WithCorpusStore saves the corpus snapshot at the end of every run.
func WithCorpusStore(store driven.CorpusStore) HarvestOption {
	return func(h *HarvestService) { h.store = store }
}

// WithSearchKeywords overrides the server-side keyword filter.
func WithSearchKeywords(keywords ...string) HarvestOption {
	return func(h *HarvestService) { h.keywords = keywords }
}

// WithClock overrides the clock used for scraped_at.
func WithClock(now func() time.Time) HarvestOption {
	return func(h *HarvestService) { h.now = now }
}

// NewHarvestService creates a harvester. policy may be nil to disable pacing.
func NewHarvestService(source driven.DiscussionSource, policy driven.RatePolicy, opts ...HarvestOption) *HarvestService {
	h := &HarvestService{
		source:   source,
		policy:   policy,
		keywords: DefaultSearchKeywords,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Harvest collects up to maxPosts compensation posts, requesting batchSize
// summaries per page.
//
// A failed page ends the run early: the posts collected so far are returned
// together with an error wrapping domain.ErrSourceUnavailable. Detail
// failures are logged and skipped.
func (h *HarvestService) Harvest(
	ctx context.Context,
	maxPosts, batchSize int,
) (*domain.Corpus, driving.HarvestStats, error) {
	logger.Section("Harvest")
	logger.Debug("Max posts: %d, batch size: %d", maxPosts, batchSize)

	var stats driving.HarvestStats
	corpus := domain.NewCorpus(nil)

	if maxPosts <= 0 || batchSize <= 0 {
		return corpus, stats, fmt.Errorf("harvest: max posts and batch size must be positive: %w", domain.ErrInvalidInput)
	}

	runErr := h.collect(ctx, corpus, &stats, maxPosts, batchSize)
	stats.Collected = corpus.Len()
	logger.Info("Harvested %d posts from %d pages (%d filtered, %d failed)",
		stats.Collected, stats.Pages, stats.Filtered, stats.DetailFailures)

	if err := h.save(ctx, corpus, runErr); err != nil {
		return corpus, stats, errors.Join(runErr, err)
	}
	if runErr != nil {
		return corpus, stats, fmt.Errorf("harvest: %w", runErr)
	}
	return corpus, stats, nil
}

func (h *HarvestService) collect(
	ctx context.Context,
	corpus *domain.Corpus,
	stats *driving.HarvestStats,
	maxPosts, batchSize int,
) error {
	skip := 0
	for corpus.Len() < maxPosts {
		page, err := h.source.ListTopics(ctx, driven.TopicQuery{
			Keywords: h.keywords,
			TagSlugs: []string{},
			Skip:     skip,
			First:    batchSize,
			OrderBy:  driven.OrderHot,
		})
		stats.Pages++
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Warn("Page at skip=%d failed: %v", skip, err)
			if !errors.Is(err, domain.ErrSourceUnavailable) {
				err = fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
			}
			return err
		}
		if page == nil || len(page.Topics) == 0 {
			logger.Debug("Page at skip=%d is empty, stopping", skip)
			return nil
		}

		for i := range page.Topics {
			if corpus.Len() >= maxPosts {
				return nil
			}
			if err := h.visit(ctx, corpus, stats, &page.Topics[i]); err != nil {
				return err
			}
		}

		if !page.HasNextPage {
			logger.Debug("Last page reached at skip=%d", skip)
			return nil
		}
		skip += batchSize
		if corpus.Len() >= maxPosts {
			return nil
		}
		if err := h.afterPage(ctx); err != nil {
			return err
		}
	}
	return nil
}

// visit filters one summary and, when it qualifies, fetches and stores its
// detail. Only cancellation is returned as an error.
func (h *HarvestService) visit(
	ctx context.Context,
	corpus *domain.Corpus,
	stats *driving.HarvestStats,
	summary *driven.TopicSummary,
) error {
	stats.Seen++
	if !domain.IsCompensationTitle(summary.Title) {
		stats.Filtered++
		return nil
	}
	if corpus.Contains(summary.TopicID) {
		stats.Duplicates++
		return nil
	}

	detail, err := h.source.GetTopic(ctx, summary.TopicID)
	switch {
	case err != nil && ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		stats.DetailFailures++
		logger.Warn("Skipping topic %s: %v", summary.TopicID, err)
	default:
		if !corpus.Add(h.merge(summary, detail)) {
			stats.Duplicates++
		}
	}
	return h.afterItem(ctx)
}

// merge builds the stored post from the listing entry and its detail.
// Detail fields win; the summary fills anything the detail left blank.
func (h *HarvestService) merge(summary *driven.TopicSummary, detail *driven.TopicDetail) domain.RawPost {
	post := domain.RawPost{
		TopicID:   firstNonEmpty(detail.TopicID, summary.TopicID),
		Title:     firstNonEmpty(detail.Title, summary.Title),
		Summary:   firstNonEmpty(detail.Summary, summary.Summary),
		Content:   detail.Content,
		Author:    firstNonEmpty(detail.Author, domain.AnonymousAuthor),
		CreatedAt: firstNonEmpty(detail.CreatedAt, summary.CreatedAt),
		UpdatedAt: firstNonEmpty(detail.UpdatedAt, summary.UpdatedAt),
		HitCount:  detail.HitCount,
		Tags:      detail.Tags,
		URL:       firstNonEmpty(detail.URL, summary.URL),
		ScrapedAt: float64(h.now().UnixNano()) / float64(time.Second),
	}
	if post.Tags == nil {
		post.Tags = summary.Tags
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return post
}

func (h *HarvestService) afterItem(ctx context.Context) error {
	if h.policy == nil {
		return ctx.Err()
	}
	return h.policy.AfterItem(ctx)
}

func (h *HarvestService) afterPage(ctx context.Context) error {
	if h.policy == nil {
		return ctx.Err()
	}
	return h.policy.AfterPage(ctx)
}

// save writes the snapshot. A run that failed before collecting anything
// leaves the previous snapshot untouched, as does a cancelled run.
func (h *HarvestService) save(ctx context.Context, corpus *domain.Corpus, runErr error) error {
	if h.store == nil {
		return nil
	}
	if runErr != nil && (corpus.Len() == 0 || ctx.Err() != nil) {
		logger.Warn("Harvest did not complete, keeping existing snapshot at %s", h.store.Path())
		return nil
	}
	if err := h.store.Save(ctx, corpus); err != nil {
		return fmt.Errorf("harvest: save snapshot: %w", err)
	}
	logger.Debug("Snapshot saved to %s", h.store.Path())
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
