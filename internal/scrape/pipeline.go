package scrape

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/user/pricewatch/internal/browser"
	"github.com/user/pricewatch/internal/price"
)

// Pipeline resolves one item's price from its card scope, escalating
// to the item's detail page and then its offer listing when narrower
// scopes fail. "No price" is a normal outcome that drops the item
// from the batch; faults below the pipeline boundary are converted to
// it.
type Pipeline struct {
	session       browser.Session
	parser        *price.Parser
	profile       *Profile
	detailTimeout time.Duration
	logger        *zap.Logger
}

func NewPipeline(session browser.Session, parser *price.Parser, profile *Profile, detailTimeout time.Duration, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		session:       session,
		parser:        parser,
		profile:       profile,
		detailTimeout: detailTimeout,
		logger:        logger,
	}
}

// Resolve returns the item's validated price, or ok=false when no
// strategy in any scope produced one.
func (p *Pipeline) Resolve(ctx context.Context, card Card) (price.Price, bool) {
	if resolved, ok := p.tryStrategies(p.profile.ItemStrategies, card.Scope); ok {
		return resolved, true
	}
	if card.Item.Link == "" || len(p.profile.DetailStrategies) == 0 {
		return price.Price{}, false
	}
	return p.resolveEscalated(ctx, card)
}

// resolveEscalated opens a single secondary scope for the detail
// page and, if needed, navigates the same scope on to the offer
// listing. The scope is closed on every exit path.
func (p *Pipeline) resolveEscalated(ctx context.Context, card Card) (price.Price, bool) {
	tab, err := p.session.NewTab()
	if err != nil {
		p.logger.Warn("secondary scope unavailable",
			zap.String("id", card.Item.ExternalID), zap.Error(err))
		return price.Price{}, false
	}
	defer tab.Close()

	waitSelector := p.profile.Listing.DetailWaitSelector
	if waitSelector == "" {
		waitSelector = "body"
	}

	doc, err := tab.Open(ctx, card.Item.Link, waitSelector, p.detailTimeout)
	if err != nil {
		p.logger.Warn("detail page failed",
			zap.String("id", card.Item.ExternalID), zap.Error(err))
		return price.Price{}, false
	}
	if resolved, ok := p.tryStrategies(p.profile.DetailStrategies, doc.Selection); ok {
		return resolved, true
	}

	offerURL, ok := p.offerDestination(doc)
	if !ok || len(p.profile.OfferStrategies) == 0 {
		return price.Price{}, false
	}

	doc, err = tab.Open(ctx, offerURL, waitSelector, p.detailTimeout)
	if err != nil {
		p.logger.Warn("offer listing failed",
			zap.String("id", card.Item.ExternalID), zap.Error(err))
		return price.Price{}, false
	}
	return p.tryStrategies(p.profile.OfferStrategies, doc.Selection)
}

// tryStrategies runs an ordered strategy set; the first candidate
// text that validates as a price wins and later strategies are never
// attempted.
func (p *Pipeline) tryStrategies(strategies []Strategy, scope *goquery.Selection) (price.Price, bool) {
	for _, strategy := range strategies {
		text, ok := strategy.Extract(scope)
		if !ok {
			continue
		}
		resolved, err := p.parser.Parse(text)
		if err != nil {
			p.logger.Debug("candidate rejected",
				zap.String("strategy", strategy.Name),
				zap.String("text", text))
			continue
		}
		return resolved, true
	}
	return price.Price{}, false
}

func (p *Pipeline) offerDestination(doc *goquery.Document) (string, bool) {
	rule := p.profile.OfferLink
	if rule.Selector == "" {
		return "", false
	}

	base, _ := url.Parse(p.profile.URL)
	out := ""
	doc.Find(rule.Selector).EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		href, exists := anchor.Attr("href")
		if !exists {
			return true
		}
		if rule.Contains != "" && !strings.Contains(href, rule.Contains) {
			return true
		}
		out = absoluteURL(base, href)
		return false
	})
	return out, out != ""
}
