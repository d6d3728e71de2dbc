// Package notify delivers human-readable alerts for eligible items.
package notify

import "context"

// Alert is one notification: a new item or a price drop.
// PreviousPrice is set only for drops.
type Alert struct {
	ExternalID    string
	Title         string
	Link          string
	ImageURL      string
	Price         string
	PreviousPrice string
}

// Notifier delivers a single alert. Implementations are invoked once
// per eligible item, in scan order, before the ledger write.
type Notifier interface {
	Send(ctx context.Context, alert Alert) error
}
