package diff

import (
	"testing"

	"go.uber.org/zap"

	"github.com/user/pricewatch/internal/domain"
	"github.com/user/pricewatch/internal/price"
)

func newTestDiffer() *Differ {
	return NewDiffer(price.NewParser("TL", []string{"taksit", "kargo", "puan"}), zap.NewNop())
}

func item(id, priceText string) domain.ListingItem {
	return domain.ListingItem{
		ExternalID:   id,
		Title:        "item " + id,
		Link:         "https://example.com/dp/" + id,
		RawPriceText: priceText,
	}
}

func TestDiffer_Run_PriceDrop(t *testing.T) {
	differ := newTestDiffer()
	ledger := map[string]string{"B07X": "10.000,00 TL"}

	eligible, updated := differ.Run([]domain.ListingItem{item("B07X", "9.500,00 TL")}, ledger)

	if len(eligible) != 1 {
		t.Fatalf("eligible count = %d, want 1", len(eligible))
	}
	if eligible[0].Classification != domain.ClassDropped {
		t.Errorf("classification = %s, want dropped", eligible[0].Classification)
	}
	if eligible[0].PreviousPriceText != "10.000,00 TL" {
		t.Errorf("previous price = %q, want %q", eligible[0].PreviousPriceText, "10.000,00 TL")
	}
	if updated["B07X"] != "9.500,00 TL" {
		t.Errorf("ledger entry = %q, want current price", updated["B07X"])
	}
}

func TestDiffer_Run_UnchangedPrice(t *testing.T) {
	differ := newTestDiffer()
	ledger := map[string]string{"B07X": "10.000,00 TL"}

	eligible, updated := differ.Run([]domain.ListingItem{item("B07X", "10.000,00 TL")}, ledger)

	if len(eligible) != 0 {
		t.Fatalf("eligible count = %d, want 0 for equal price", len(eligible))
	}
	if updated["B07X"] != "10.000,00 TL" {
		t.Errorf("ledger entry = %q, want unchanged", updated["B07X"])
	}
}

func TestDiffer_Run_PriceIncreaseNotEligible(t *testing.T) {
	differ := newTestDiffer()
	ledger := map[string]string{"B07X": "10.000,00 TL"}

	eligible, updated := differ.Run([]domain.ListingItem{item("B07X", "11.250,00 TL")}, ledger)

	if len(eligible) != 0 {
		t.Fatalf("eligible count = %d, want 0 for price increase", len(eligible))
	}
	if updated["B07X"] != "11.250,00 TL" {
		t.Errorf("ledger entry = %q, want new observed price", updated["B07X"])
	}
}

func TestDiffer_Run_NewItem(t *testing.T) {
	differ := newTestDiffer()

	eligible, updated := differ.Run([]domain.ListingItem{item("B09Z", "1.000,00 TL")}, map[string]string{})

	if len(eligible) != 1 {
		t.Fatalf("eligible count = %d, want 1", len(eligible))
	}
	if eligible[0].Classification != domain.ClassNew {
		t.Errorf("classification = %s, want new", eligible[0].Classification)
	}
	if eligible[0].PreviousPriceText != "" {
		t.Errorf("new item carries previous price %q", eligible[0].PreviousPriceText)
	}
	if updated["B09Z"] != "1.000,00 TL" {
		t.Errorf("ledger entry = %q, want %q", updated["B09Z"], "1.000,00 TL")
	}
}

func TestDiffer_Run_UnparseableStillOverwritesLedger(t *testing.T) {
	differ := newTestDiffer()

	// Unparseable on the current side.
	eligible, updated := differ.Run(
		[]domain.ListingItem{item("B07X", "Fiyat Yok")},
		map[string]string{"B07X": "10.000,00 TL"})
	if len(eligible) != 0 {
		t.Fatalf("eligible count = %d, want 0 for unparseable current", len(eligible))
	}
	if updated["B07X"] != "Fiyat Yok" {
		t.Errorf("ledger entry = %q, want raw text overwrite", updated["B07X"])
	}

	// Unparseable on the ledger side recovers next run.
	eligible, updated = differ.Run(
		[]domain.ListingItem{item("B07X", "9.000,00 TL")},
		map[string]string{"B07X": "Fiyat Yok"})
	if len(eligible) != 0 {
		t.Fatalf("eligible count = %d, want 0 for unparseable previous", len(eligible))
	}
	if updated["B07X"] != "9.000,00 TL" {
		t.Errorf("ledger entry = %q, want parseable overwrite", updated["B07X"])
	}
}

func TestDiffer_Run_PreservesScanOrder(t *testing.T) {
	differ := newTestDiffer()
	ledger := map[string]string{"B2": "5.000,00 TL"}

	items := []domain.ListingItem{
		item("B1", "1.000,00 TL"), // new
		item("B2", "4.000,00 TL"), // dropped
		item("B3", "2.000,00 TL"), // new
	}
	eligible, _ := differ.Run(items, ledger)

	if len(eligible) != 3 {
		t.Fatalf("eligible count = %d, want 3", len(eligible))
	}
	for i, wantID := range []string{"B1", "B2", "B3"} {
		if eligible[i].Item.ExternalID != wantID {
			t.Errorf("eligible[%d] = %s, want %s", i, eligible[i].Item.ExternalID, wantID)
		}
	}
}

func TestDiffer_Run_DoesNotMutateInput(t *testing.T) {
	differ := newTestDiffer()
	ledger := map[string]string{"B07X": "10.000,00 TL"}

	differ.Run([]domain.ListingItem{item("B07X", "9.500,00 TL")}, ledger)

	if ledger["B07X"] != "10.000,00 TL" {
		t.Errorf("input ledger mutated to %q", ledger["B07X"])
	}
}
