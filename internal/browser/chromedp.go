package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Options configures the headless Chrome session.
type Options struct {
	UserAgent string
	Proxy     string
	Headless  bool
}

// ChromeSession implements Session on top of a headless Chrome
// instance driven through the DevTools protocol.
type ChromeSession struct {
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	logger      *zap.Logger
}

func NewChromeSession(parent context.Context, opts Options, logger *zap.Logger) (*ChromeSession, error) {
	flags := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)
	if opts.UserAgent != "" {
		flags = append(flags, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.Proxy != "" {
		flags = append(flags, chromedp.ProxyServer(opts.Proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, flags...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// Start the browser process up front so a broken Chrome install
	// surfaces as a setup fault instead of failing on first navigation.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return &ChromeSession{
		allocCancel: allocCancel,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger,
	}, nil
}

func (s *ChromeSession) Open(ctx context.Context, url, waitSelector string, timeout time.Duration) (*goquery.Document, error) {
	return openAndParse(s.ctx, ctx, url, waitSelector, timeout)
}

func (s *ChromeSession) NewTab() (Tab, error) {
	tabCtx, tabCancel := chromedp.NewContext(s.ctx)
	return &chromeTab{ctx: tabCtx, cancel: tabCancel}, nil
}

// ImportCookies installs each record through the DevTools network
// domain. A single rejected cookie is logged and skipped, matching
// best-effort bootstrap semantics.
func (s *ChromeSession) ImportCookies(ctx context.Context, records []CookieRecord) error {
	action := chromedp.ActionFunc(func(cdpCtx context.Context) error {
		for _, record := range records {
			path := record.Path
			if path == "" {
				path = "/"
			}
			err := network.SetCookie(record.Name, record.Value).
				WithDomain(record.Domain).
				WithPath(path).
				Do(cdpCtx)
			if err != nil {
				s.logger.Warn("cookie rejected",
					zap.String("name", record.Name),
					zap.Error(err))
			}
		}
		return nil
	})

	if err := chromedp.Run(s.ctx, action); err != nil {
		return fmt.Errorf("import cookies: %w", err)
	}
	s.logger.Info("cookies imported", zap.Int("count", len(records)))
	return nil
}

func (s *ChromeSession) Close() {
	s.cancel()
	s.allocCancel()
}

type chromeTab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (t *chromeTab) Open(ctx context.Context, url, waitSelector string, timeout time.Duration) (*goquery.Document, error) {
	return openAndParse(t.ctx, ctx, url, waitSelector, timeout)
}

func (t *chromeTab) Close() {
	t.cancel()
}

// openAndParse navigates a browser context, waits for readiness under
// the step's own timeout, and hands the rendered HTML to goquery. The
// caller's ctx carries run-level cancellation; the browser context
// carries the actual page.
func openAndParse(browserCtx, callerCtx context.Context, url, waitSelector string, timeout time.Duration) (*goquery.Document, error) {
	if err := callerCtx.Err(); err != nil {
		return nil, err
	}

	stepCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	actions := []chromedp.Action{chromedp.Navigate(url)}
	if waitSelector != "" {
		actions = append(actions, chromedp.WaitReady(waitSelector, chromedp.ByQuery))
	}
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(stepCtx, actions...); err != nil {
		return nil, fmt.Errorf("load %s: %w", url, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
