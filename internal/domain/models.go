package domain

import "time"

// ListingItem is one catalog entry captured during a scrape pass.
// It lives only for the duration of the run; the ledger persists the
// raw price text keyed by ExternalID.
type ListingItem struct {
	ExternalID   string
	Title        string
	Link         string
	ImageURL     string
	RawPriceText string
	CapturedAt   time.Time
}

// Classification is the differ's verdict for a single item.
type Classification string

const (
	ClassNew         Classification = "new"
	ClassDropped     Classification = "dropped"
	ClassUnchanged   Classification = "unchanged"
	ClassUnparseable Classification = "unparseable"
)

// DiffResult pairs an item with its classification. PreviousPriceText is
// set only for dropped items, for display in the alert.
type DiffResult struct {
	Item              ListingItem
	Classification    Classification
	PreviousPriceText string
}

// Eligible reports whether the item should be notified.
func (r DiffResult) Eligible() bool {
	return r.Classification == ClassNew || r.Classification == ClassDropped
}
