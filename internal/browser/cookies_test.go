package browser

import (
	"encoding/base64"
	"testing"
)

func TestDecodeCookieSecret(t *testing.T) {
	payload := `[{"name":"session-id","value":"abc123","domain":".example.com","path":"/"},` +
		`{"name":"ubid","value":"xyz","domain":".example.com"}]`
	secret := base64.StdEncoding.EncodeToString([]byte(payload))

	records, err := DecodeCookieSecret(secret)
	if err != nil {
		t.Fatalf("DecodeCookieSecret returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("decoded %d records, want 2", len(records))
	}
	if records[0].Name != "session-id" || records[0].Value != "abc123" {
		t.Errorf("first record = %+v", records[0])
	}
	if records[1].Path != "" {
		t.Errorf("optional path should stay empty, got %q", records[1].Path)
	}
}

func TestDecodeCookieSecret_Faults(t *testing.T) {
	cases := map[string]string{
		"empty secret":  "",
		"not base64":    "%%%not-base64%%%",
		"not json":      base64.StdEncoding.EncodeToString([]byte("hello")),
		"empty array":   base64.StdEncoding.EncodeToString([]byte("[]")),
	}

	for name, secret := range cases {
		if _, err := DecodeCookieSecret(secret); err == nil {
			t.Errorf("%s: DecodeCookieSecret returned nil error", name)
		}
	}
}
