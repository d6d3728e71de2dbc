// Package browser owns the headless browsing session used to render
// catalog pages. The rest of the system consumes rendered documents
// through the Session and Tab interfaces and never touches the
// browser directly.
package browser

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Session is the primary browsing scope, exclusively owned by one run
// and released exactly once via Close.
type Session interface {
	// Open navigates the primary scope to url, waits for waitSelector
	// to be ready within timeout, and returns the rendered document.
	Open(ctx context.Context, url, waitSelector string, timeout time.Duration) (*goquery.Document, error)
	// NewTab opens a secondary, strictly nested browsing scope. The
	// caller must Close it on every exit path.
	NewTab() (Tab, error)
	// ImportCookies installs authentication cookies into the session.
	ImportCookies(ctx context.Context, records []CookieRecord) error
	Close()
}

// Tab is a short-lived secondary scope used during extraction
// escalation. It is never used concurrently with the primary scope.
type Tab interface {
	Open(ctx context.Context, url, waitSelector string, timeout time.Duration) (*goquery.Document, error)
	Close()
}
