package driving

import (
	"context"

	"github.com/custodia-labs/paygrade/internal/core/domain"
)

// Harvester turns the remote paged discussion API into a deduplicated corpus.
type Harvester interface {
	// Harvest collects up to maxPosts compensation posts, requesting pages of
	// batchSize. On a page failure it returns the posts collected so far
	// together with an error wrapping domain.ErrSourceUnavailable.
	Harvest(ctx context.Context, maxPosts, batchSize int) (*domain.Corpus, HarvestStats, error)
}

// HarvestStats summarises a harvest run.
type HarvestStats struct {
	// Pages is the number of page requests issued.
	Pages int

	// Seen is the number of topic summaries received.
	Seen int

	// Filtered is the number of summaries rejected by the title filter.
	Filtered int

	// DetailFailures is the number of skipped detail fetches.
	DetailFailures int

	// Duplicates is the number of posts already in the corpus.
	Duplicates int

	// Collected is the final corpus size.
	Collected int
}
