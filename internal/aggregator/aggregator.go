// Package aggregator pulls educational content from external sources into
// the catalog on a fixed schedule. Premium flag and price are assigned here
// from configuration; the credit engine only ever sees the stored rows.
package aggregator

import (
	"context"
	"log/slog"
	"time"

	"github.com/mahek9015/community-learning-hub/internal/metrics"
	"github.com/mahek9015/community-learning-hub/internal/models"
	repo "github.com/mahek9015/community-learning-hub/internal/repository"
	"github.com/mahek9015/community-learning-hub/internal/worker"
)

// Fetcher pulls a batch of content from one external source.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Content, error)
}

// PricingPolicy maps a category to a premium price. Categories absent from
// the map are stored free.
type PricingPolicy map[string]int64

func (p PricingPolicy) apply(c *models.Content) {
	if price, ok := p[c.Category]; ok {
		c.IsPremium = true
		c.CreditPointPrice = price
	}
}

type Aggregator struct {
	fetchers []Fetcher
	contents repo.Contents
	wp       *worker.Pool
	policy   PricingPolicy
	interval time.Duration
	log      *slog.Logger
}

func New(fetchers []Fetcher, contents repo.Contents, wp *worker.Pool, policy PricingPolicy, interval time.Duration, log *slog.Logger) *Aggregator {
	return &Aggregator{
		fetchers: fetchers,
		contents: contents,
		wp:       wp,
		policy:   policy,
		interval: interval,
		log:      log,
	}
}

// Run fetches once immediately, then on every tick until ctx is done.
func (a *Aggregator) Run(ctx context.Context) {
	a.dispatch(ctx)
	t := time.NewTicker(a.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			a.dispatch(ctx)
		}
	}
}

func (a *Aggregator) dispatch(ctx context.Context) {
	for _, f := range a.fetchers {
		f := f
		a.wp.Submit(func() { a.runFetch(ctx, f) })
	}
}

func (a *Aggregator) runFetch(ctx context.Context, f Fetcher) {
	items, err := f.Fetch(ctx)
	if err != nil {
		metrics.FetchErrors.WithLabelValues(f.Name()).Inc()
		a.log.Error("source fetch", "source", f.Name(), "err", err)
		return
	}
	stored := 0
	for _, c := range items {
		exists, err := a.contents.ExistsBySourceURL(ctx, c.SourceURL)
		if err != nil || exists {
			continue
		}
		a.policy.apply(&c)
		if _, err := a.contents.Create(ctx, c); err != nil {
			a.log.Error("store content", "source", f.Name(), "err", err)
			continue
		}
		stored++
		metrics.ContentFetchedTotal.WithLabelValues(f.Name()).Inc()
	}
	a.log.Info("aggregated", "source", f.Name(), "fetched", len(items), "stored", stored)
}
