package ledger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore_LoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "nope.txt"))

	entries, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %v, want empty", entries)
	}
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "ledger.txt"))
	entries := map[string]string{
		"B07X": "10.000,00 TL",
		"B09Z": "1.000,00 TL",
		"B01A": "Fiyat Yok",
	}

	if err := store.Save(context.Background(), entries); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded) != len(entries) {
		t.Fatalf("loaded %d entries, want %d", len(loaded), len(entries))
	}
	for id, want := range entries {
		if loaded[id] != want {
			t.Errorf("loaded[%s] = %q, want %q", id, loaded[id], want)
		}
	}
}

func TestFileStore_SaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.txt")
	store := NewFileStore(path)

	if err := store.Save(context.Background(), map[string]string{"B07X": "9.500,00 TL"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if string(raw) != "B07X | 9.500,00 TL\n" {
		t.Errorf("file contents = %q, want pipe-separated newline-terminated record", raw)
	}
}

func TestFileStore_SaveReplacesPriorContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.txt")
	store := NewFileStore(path)
	ctx := context.Background()

	if err := store.Save(ctx, map[string]string{"OLD1": "1,00 TL", "OLD2": "2,00 TL"}); err != nil {
		t.Fatalf("first Save returned error: %v", err)
	}
	if err := store.Save(ctx, map[string]string{"NEW1": "3,00 TL"}); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded) != 1 || loaded["NEW1"] != "3,00 TL" {
		t.Errorf("loaded = %v, want only the rewritten entry", loaded)
	}
}

func TestFileStore_LoadSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.txt")
	content := "B07X | 10.000,00 TL\nno separator here\n | orphan price\nB09Z | 1.000,00 TL\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	loaded, err := NewFileStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d entries, want 2 (malformed lines skipped): %v", len(loaded), loaded)
	}
	if loaded["B07X"] != "10.000,00 TL" || loaded["B09Z"] != "1.000,00 TL" {
		t.Errorf("loaded = %v", loaded)
	}
}

func TestFileStore_PriceTextWithPipeRejectedGracefully(t *testing.T) {
	// A price text never legitimately contains a pipe; Cut keeps the
	// first separator so the remainder stays attached to the value.
	path := filepath.Join(t.TempDir(), "ledger.txt")
	if err := os.WriteFile(path, []byte("B07X | 1,00 TL | junk\n"), 0o644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	loaded, err := NewFileStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !strings.HasPrefix(loaded["B07X"], "1,00 TL") {
		t.Errorf("loaded[B07X] = %q", loaded["B07X"])
	}
}
