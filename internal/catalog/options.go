package catalog

import (
	"github.com/rs/zerolog"

	"coursereview/internal/httpx"
)

// Option configures a Catalog.
type Option func(*options)

type options struct {
	logger       zerolog.Logger
	policy       SeedPolicy
	countReviews bool
	retry        httpx.RetryConfig
}

func defaultOptions(logger zerolog.Logger) options {
	return options{
		logger:       logger,
		policy:       KeepSeedOnly,
		countReviews: true,
		retry:        httpx.NoRetry(),
	}
}

// WithLogger sets the catalog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithSeedPolicy chooses what happens to seed-only records on refresh.
func WithSeedPolicy(p SeedPolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithReviewCounts toggles fetching the aggregate review list on refresh to
// compute review counts. When off, counts come from each course's embedded
// reviews or the seed record.
func WithReviewCounts(enabled bool) Option {
	return func(o *options) { o.countReviews = enabled }
}

// WithRetry retries a failed refresh per cfg. The default runs it once.
func WithRetry(cfg httpx.RetryConfig) Option {
	return func(o *options) { o.retry = cfg }
}
