package scrape

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/pricewatch/internal/domain"
)

// Card is one item card found on the listing page: the ephemeral item
// record plus the document scope it was scanned from, kept so the
// pipeline can run item-scoped strategies against it.
type Card struct {
	Item  domain.ListingItem
	Scope *goquery.Selection
}

// ScanListing walks the listing document and returns the item cards
// in page order. Carousel blocks are dropped from the document first
// so their contents cannot bleed into item scopes; sponsored cards
// and cards without a stable id are skipped.
func ScanListing(doc *goquery.Document, profile *Profile) []Card {
	listing := profile.Listing

	if listing.CarouselSelector != "" {
		doc.Find(listing.CarouselSelector).Each(func(_ int, heading *goquery.Selection) {
			if box := heading.Closest("div"); box.Length() > 0 {
				box.Remove()
			} else {
				heading.Remove()
			}
		})
	}

	base, _ := url.Parse(profile.URL)
	now := time.Now()

	var cards []Card
	doc.Find(listing.ItemSelector).Each(func(_ int, card *goquery.Selection) {
		if listing.SkipMarker != "" && containsMarker(card, listing.SkipMarker) {
			return
		}

		id := strings.TrimSpace(card.AttrOr(listing.IDAttr, ""))
		if id == "" {
			return
		}

		item := domain.ListingItem{
			ExternalID: id,
			CapturedAt: now,
		}
		if listing.TitleSelector != "" {
			title := card.Find(listing.TitleSelector).First()
			if listing.TitleAttr != "" {
				item.Title = strings.TrimSpace(title.AttrOr(listing.TitleAttr, ""))
			} else {
				item.Title = strings.TrimSpace(title.Text())
			}
		}
		if listing.LinkSelector != "" {
			href := card.Find(listing.LinkSelector).First().AttrOr("href", "")
			item.Link = absoluteURL(base, href)
		}
		if listing.ImageSelector != "" {
			item.ImageURL = card.Find(listing.ImageSelector).First().AttrOr("src", "")
		}

		cards = append(cards, Card{Item: item, Scope: card})
	})
	return cards
}

func containsMarker(scope *goquery.Selection, marker string) bool {
	found := false
	scope.Find("span").EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if strings.Contains(node.Text(), marker) {
			found = true
			return false
		}
		return true
	})
	return found
}

// absoluteURL resolves a possibly relative href against the listing
// base URL.
func absoluteURL(base *url.URL, href string) string {
	if href == "" || base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
