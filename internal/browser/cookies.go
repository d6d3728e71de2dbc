package browser

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// CookieRecord is one entry of the base64-encoded cookie secret: a
// JSON array of per-cookie records exported from a logged-in session.
type CookieRecord struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Domain string `json:"domain"`
	Path   string `json:"path,omitempty"`
}

// DecodeCookieSecret decodes the opaque credential supplied through
// the environment into cookie records. An empty or undecodable secret
// is a fatal setup fault for the run.
func DecodeCookieSecret(b64 string) ([]CookieRecord, error) {
	if b64 == "" {
		return nil, fmt.Errorf("cookie secret is empty")
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode cookie secret: %w", err)
	}
	var records []CookieRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse cookie records: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("cookie secret contains no records")
	}
	return records, nil
}
