// Package diff classifies scraped items against the persisted price
// ledger and selects the subset worth alerting on.
package diff

import (
	"go.uber.org/zap"

	"github.com/user/pricewatch/internal/domain"
	"github.com/user/pricewatch/internal/price"
)

// Differ compares a batch of listing items against the loaded ledger.
type Differ struct {
	parser *price.Parser
	logger *zap.Logger
}

func NewDiffer(parser *price.Parser, logger *zap.Logger) *Differ {
	return &Differ{parser: parser, logger: logger}
}

// Run classifies every item and returns the eligible subset (new items
// and price drops) in original scan order, plus the updated ledger.
//
// The ledger entry for every seen item is overwritten with the current
// raw price text regardless of eligibility, so a transient parse
// glitch on one side never blocks future comparisons. The input map is
// not mutated.
func (d *Differ) Run(items []domain.ListingItem, ledger map[string]string) ([]domain.DiffResult, map[string]string) {
	updated := make(map[string]string, len(ledger)+len(items))
	for id, text := range ledger {
		updated[id] = text
	}

	var eligible []domain.DiffResult
	for _, item := range items {
		result := d.classify(item, ledger)
		updated[item.ExternalID] = item.RawPriceText
		if result.Eligible() {
			eligible = append(eligible, result)
		}
	}
	return eligible, updated
}

func (d *Differ) classify(item domain.ListingItem, ledger map[string]string) domain.DiffResult {
	previous, seen := ledger[item.ExternalID]
	if !seen {
		d.logger.Info("new item",
			zap.String("id", item.ExternalID),
			zap.String("title", item.Title),
			zap.String("price", item.RawPriceText))
		return domain.DiffResult{Item: item, Classification: domain.ClassNew}
	}

	currentPrice, errCurrent := d.parser.Parse(item.RawPriceText)
	previousPrice, errPrevious := d.parser.Parse(previous)
	if errCurrent != nil || errPrevious != nil {
		d.logger.Warn("price comparison failed",
			zap.String("id", item.ExternalID),
			zap.String("current", item.RawPriceText),
			zap.String("previous", previous))
		return domain.DiffResult{Item: item, Classification: domain.ClassUnparseable}
	}

	if currentPrice.Value.LessThan(previousPrice.Value) {
		d.logger.Info("price dropped",
			zap.String("id", item.ExternalID),
			zap.String("title", item.Title),
			zap.String("from", previous),
			zap.String("to", item.RawPriceText))
		return domain.DiffResult{
			Item:              item,
			Classification:    domain.ClassDropped,
			PreviousPriceText: previous,
		}
	}

	return domain.DiffResult{Item: item, Classification: domain.ClassUnchanged}
}
