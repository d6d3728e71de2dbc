package ledger

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore keeps the ledger in a plain text file, one record per
// line in the form "<externalId> | <priceText>".
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) (map[string]string, error) {
	entries := make(map[string]string)

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, fmt.Errorf("open ledger %s: %w", s.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		id, priceText, ok := strings.Cut(scanner.Text(), "|")
		if !ok {
			continue
		}
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		entries[id] = strings.TrimSpace(priceText)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", s.path, err)
	}
	return entries, nil
}

// Save rewrites the file atomically: written to a temp file in the
// same directory, then renamed over the previous contents.
func (s *FileStore) Save(ctx context.Context, entries map[string]string) error {
	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, id := range ids {
		if _, err := fmt.Fprintf(w, "%s | %s\n", id, entries[id]); err != nil {
			tmp.Close()
			return fmt.Errorf("write ledger entry: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace ledger %s: %w", s.path, err)
	}
	return nil
}
