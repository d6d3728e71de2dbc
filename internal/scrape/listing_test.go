package scrape

import "testing"

func testProfile() *Profile {
	return &Profile{
		Name:     "test",
		URL:      "https://www.example.com/s?k=tv",
		Currency: "TL",
		Listing: ListingConfig{
			WaitSelector:     "div[data-component-type='s-search-result']",
			ItemSelector:     "div[data-component-type='s-search-result']",
			IDAttr:           "data-asin",
			TitleSelector:    "img.s-image",
			TitleAttr:        "alt",
			LinkSelector:     "a.a-link-normal",
			ImageSelector:    "img.s-image",
			SkipMarker:       "Sponsorlu",
			CarouselSelector: "h5.a-carousel-heading",
		},
		ItemStrategies: []Strategy{
			{Name: "card-price", Kind: KindCSS, Selector: "span.price", Contains: "TL"},
		},
	}
}

const listingHTML = `<html><body>
<div><h5 class="a-carousel-heading">Önerilen ürünler</h5>
	<div data-component-type="s-search-result" data-asin="CAROUSEL1">
		<span class="price">1,00 TL</span>
	</div>
</div>
<div data-component-type="s-search-result" data-asin="B07X">
	<a class="a-link-normal" href="/dp/B07X"></a>
	<img class="s-image" alt="55 inch TV" src="https://img.example.com/b07x.jpg">
	<span class="price">10.000,00 TL</span>
</div>
<div data-component-type="s-search-result" data-asin="B08S">
	<span>Sponsorlu</span>
	<a class="a-link-normal" href="/dp/B08S"></a>
	<img class="s-image" alt="Sponsored TV" src="s.jpg">
</div>
<div data-component-type="s-search-result">
	<img class="s-image" alt="No id TV" src="n.jpg">
</div>
<div data-component-type="s-search-result" data-asin="B09Z">
	<a class="a-link-normal" href="https://www.example.com/dp/B09Z"></a>
	<img class="s-image" alt="65 inch TV" src="https://img.example.com/b09z.jpg">
</div>
</body></html>`

func TestScanListing(t *testing.T) {
	doc := mustDoc(t, listingHTML)

	cards := ScanListing(doc, testProfile())

	if len(cards) != 2 {
		t.Fatalf("scanned %d cards, want 2 (carousel, sponsored and id-less skipped)", len(cards))
	}

	first := cards[0].Item
	if first.ExternalID != "B07X" {
		t.Errorf("first id = %s, want B07X", first.ExternalID)
	}
	if first.Title != "55 inch TV" {
		t.Errorf("first title = %q", first.Title)
	}
	if first.Link != "https://www.example.com/dp/B07X" {
		t.Errorf("first link = %q, want absolutized", first.Link)
	}
	if first.ImageURL != "https://img.example.com/b07x.jpg" {
		t.Errorf("first image = %q", first.ImageURL)
	}
	if first.CapturedAt.IsZero() {
		t.Error("captured timestamp not set")
	}

	if cards[1].Item.ExternalID != "B09Z" {
		t.Errorf("second id = %s, want B09Z", cards[1].Item.ExternalID)
	}
}

func TestScanListing_CardScopeUsableByStrategies(t *testing.T) {
	doc := mustDoc(t, listingHTML)
	profile := testProfile()

	cards := ScanListing(doc, profile)
	if len(cards) == 0 {
		t.Fatal("no cards scanned")
	}

	got, ok := profile.ItemStrategies[0].Extract(cards[0].Scope)
	if !ok || got != "10.000,00 TL" {
		t.Errorf("strategy on card scope = %q, %v", got, ok)
	}
}
