package scrape

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile describes one target catalog: its endpoint, the selectors
// for scanning the listing, and the ordered strategy sets per scope.
// Everything that used to differ between per-site scraper copies
// lives here as data.
type Profile struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Currency string `yaml:"currency"`

	Listing ListingConfig `yaml:"listing"`

	ItemStrategies   []Strategy `yaml:"item_strategies"`
	DetailStrategies []Strategy `yaml:"detail_strategies"`
	OfferStrategies  []Strategy `yaml:"offer_strategies"`

	// OfferLink locates the offer-listing destination inside a detail
	// document for the second escalation hop.
	OfferLink LinkRule `yaml:"offer_link"`

	// Exclusions are tokens that disqualify candidate text from being
	// a price (installments, shipping, ratings, points wording).
	Exclusions []string `yaml:"exclusions"`
}

// ListingConfig drives the listing page scan.
type ListingConfig struct {
	WaitSelector       string `yaml:"wait_selector"`
	ItemSelector       string `yaml:"item_selector"`
	IDAttr             string `yaml:"id_attr"`
	TitleSelector      string `yaml:"title_selector"`
	TitleAttr          string `yaml:"title_attr,omitempty"`
	LinkSelector       string `yaml:"link_selector"`
	ImageSelector      string `yaml:"image_selector"`
	SkipMarker         string `yaml:"skip_marker,omitempty"`
	CarouselSelector   string `yaml:"carousel_selector,omitempty"`
	DetailWaitSelector string `yaml:"detail_wait_selector,omitempty"`
}

// LinkRule matches an anchor by selector and an href substring.
type LinkRule struct {
	Selector string `yaml:"selector"`
	Contains string `yaml:"contains,omitempty"`
}

// LoadProfile reads and validates a target profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}

	var profile Profile
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := profile.validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return &profile, nil
}

func (p *Profile) validate() error {
	if p.URL == "" {
		return fmt.Errorf("url is required")
	}
	if p.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if p.Listing.ItemSelector == "" {
		return fmt.Errorf("listing.item_selector is required")
	}
	if p.Listing.IDAttr == "" {
		return fmt.Errorf("listing.id_attr is required")
	}
	if len(p.ItemStrategies) == 0 {
		return fmt.Errorf("at least one item strategy is required")
	}
	for _, set := range [][]Strategy{p.ItemStrategies, p.DetailStrategies, p.OfferStrategies} {
		for _, strategy := range set {
			if err := strategy.validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
