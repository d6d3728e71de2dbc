// Package runner sequences a full monitoring pass: session bootstrap,
// listing load, budget-checked extraction, diffing, notification and
// ledger persistence.
package runner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/pricewatch/internal/browser"
	"github.com/user/pricewatch/internal/budget"
	"github.com/user/pricewatch/internal/diff"
	"github.com/user/pricewatch/internal/domain"
	"github.com/user/pricewatch/internal/ledger"
	"github.com/user/pricewatch/internal/monitoring"
	"github.com/user/pricewatch/internal/notify"
	"github.com/user/pricewatch/internal/scrape"
)

// Runner drives one run end to end. The deadline monitor is consulted
// before every step that can block; budget.ErrExceeded unwinds the
// whole run, skipping remaining items and ledger persistence.
type Runner struct {
	profile     *scrape.Profile
	session     browser.Session
	pipeline    *scrape.Pipeline
	differ      *diff.Differ
	store       ledger.Store
	notifier    notify.Notifier
	monitor     *budget.Monitor
	metrics     *monitoring.Metrics
	cookies     []browser.CookieRecord
	listingWait time.Duration
	logger      *zap.Logger
}

type Deps struct {
	Profile     *scrape.Profile
	Session     browser.Session
	Pipeline    *scrape.Pipeline
	Differ      *diff.Differ
	Store       ledger.Store
	Notifier    notify.Notifier
	Monitor     *budget.Monitor
	Metrics     *monitoring.Metrics
	Cookies     []browser.CookieRecord
	ListingWait time.Duration
	Logger      *zap.Logger
}

func New(deps Deps) *Runner {
	return &Runner{
		profile:     deps.Profile,
		session:     deps.Session,
		pipeline:    deps.Pipeline,
		differ:      deps.Differ,
		store:       deps.Store,
		notifier:    deps.Notifier,
		monitor:     deps.Monitor,
		metrics:     deps.Metrics,
		cookies:     deps.Cookies,
		listingWait: deps.ListingWait,
		logger:      deps.Logger,
	}
}

// Run executes one monitoring pass. A zero-eligible run is a normal,
// successful outcome. budget.ErrExceeded is returned unwrapped in the
// chain so the caller can treat it as a handoff rather than an
// incident.
func (r *Runner) Run(ctx context.Context) error {
	defer func() {
		r.metrics.RunDuration.Observe(r.monitor.Elapsed().Seconds())
	}()

	if err := r.monitor.Check(ctx); err != nil {
		return err
	}
	if err := r.session.ImportCookies(ctx, r.cookies); err != nil {
		return fmt.Errorf("session bootstrap: %w", err)
	}

	if err := r.monitor.Check(ctx); err != nil {
		return err
	}
	listingDoc, err := r.session.Open(ctx, r.profile.URL, r.profile.Listing.WaitSelector, r.listingWait)
	if err != nil {
		return fmt.Errorf("listing page: %w", err)
	}

	cards := scrape.ScanListing(listingDoc, r.profile)
	r.metrics.ItemsDiscovered.Add(float64(len(cards)))
	r.logger.Info("listing scanned", zap.Int("discovered", len(cards)))

	items, err := r.extract(ctx, cards)
	if err != nil {
		return err
	}
	r.metrics.ItemsExtracted.Add(float64(len(items)))
	r.logger.Info("extraction finished",
		zap.Int("discovered", len(cards)),
		zap.Int("extracted", len(items)))

	if err := r.monitor.Check(ctx); err != nil {
		return err
	}
	previous, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("ledger load: %w", err)
	}

	eligible, updated := r.differ.Run(items, previous)
	r.metrics.ItemsEligible.Add(float64(len(eligible)))

	if len(eligible) == 0 {
		r.logger.Info("no new or discounted items this run")
		return nil
	}

	r.notifyAll(ctx, eligible)

	if err := r.store.Save(ctx, updated); err != nil {
		r.metrics.IncErrorsTotal("ledger_save_failed")
		return fmt.Errorf("ledger save: %w", err)
	}
	r.logger.Info("ledger persisted",
		zap.Int("entries", len(updated)),
		zap.Int("eligible", len(eligible)))
	return nil
}

// extract resolves a price for every card, consulting the budget
// before each item. Per-item misses and faults drop the item; only
// the budget signal aborts the loop.
func (r *Runner) extract(ctx context.Context, cards []scrape.Card) ([]domain.ListingItem, error) {
	var items []domain.ListingItem
	for _, card := range cards {
		if err := r.monitor.Check(ctx); err != nil {
			return nil, err
		}

		resolved, ok := r.pipeline.Resolve(ctx, card)
		if !ok {
			r.logger.Debug("no price resolved", zap.String("id", card.Item.ExternalID))
			continue
		}

		item := card.Item
		item.RawPriceText = resolved.Text
		items = append(items, item)
	}
	return items, nil
}

// notifyAll delivers alerts in scan order. A failed delivery is
// logged and counted but does not stop the remaining alerts or the
// ledger write.
func (r *Runner) notifyAll(ctx context.Context, eligible []domain.DiffResult) {
	for _, result := range eligible {
		alert := notify.Alert{
			ExternalID:    result.Item.ExternalID,
			Title:         result.Item.Title,
			Link:          result.Item.Link,
			ImageURL:      result.Item.ImageURL,
			Price:         result.Item.RawPriceText,
			PreviousPrice: result.PreviousPriceText,
		}
		if err := r.notifier.Send(ctx, alert); err != nil {
			r.metrics.IncErrorsTotal("notify_failed")
			r.logger.Error("alert delivery failed",
				zap.String("id", result.Item.ExternalID),
				zap.Error(err))
		}
	}
}
