package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/user/pricewatch/internal/browser"
	"github.com/user/pricewatch/internal/budget"
	"github.com/user/pricewatch/internal/config"
	"github.com/user/pricewatch/internal/diff"
	"github.com/user/pricewatch/internal/dispatch"
	"github.com/user/pricewatch/internal/ledger"
	"github.com/user/pricewatch/internal/monitoring"
	"github.com/user/pricewatch/internal/notify"
	"github.com/user/pricewatch/internal/price"
	"github.com/user/pricewatch/internal/proxy"
	"github.com/user/pricewatch/internal/runner"
	"github.com/user/pricewatch/internal/scrape"
)

func main() {
	// Initialize structured logger
	logger, _ := zap.NewProduction()

	code := run(logger)

	logger.Sync()
	os.Exit(code)
}

func run(logger *zap.Logger) int {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("could not load config", zap.Error(err))
		return 1
	}

	profile, err := scrape.LoadProfile(cfg.ProfilePath)
	if err != nil {
		logger.Error("could not load target profile", zap.Error(err))
		return 1
	}

	// Fatal setup fault: a missing or undecodable credential aborts
	// before any navigation.
	cookies, err := browser.DecodeCookieSecret(cfg.CookieB64)
	if err != nil {
		logger.Error("cookie credential unusable", zap.Error(err))
		return 1
	}

	store, cleanup, err := newLedgerStore(ctx, cfg)
	if err != nil {
		logger.Error("could not open ledger store", zap.Error(err))
		return 1
	}
	defer cleanup()

	var dispatcher budget.Dispatcher
	if cfg.DispatchURL != "" {
		dispatcher = dispatch.NewGitHubDispatcher(cfg.DispatchURL, cfg.DispatchToken, cfg.DispatchRef, logger)
	}
	monitor := budget.NewMonitor(cfg.Budget(), dispatcher, logger)
	metrics := monitoring.NewMetrics()

	proxyManager := proxy.NewManager(cfg.Proxies())
	session, err := browser.NewChromeSession(ctx, browser.Options{
		UserAgent: proxyManager.GetUserAgent(),
		Proxy:     proxyManager.GetProxy(),
		Headless:  cfg.Headless,
	}, logger)
	if err != nil {
		logger.Error("could not start browser session", zap.Error(err))
		return 1
	}
	defer session.Close()

	parser := price.NewParser(profile.Currency, profile.Exclusions)
	pipeline := scrape.NewPipeline(session, parser, profile, cfg.DetailWait(), logger)
	notifier := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, logger)

	r := runner.New(runner.Deps{
		Profile:     profile,
		Session:     session,
		Pipeline:    pipeline,
		Differ:      diff.NewDiffer(parser, logger),
		Store:       store,
		Notifier:    notifier,
		Monitor:     monitor,
		Metrics:     metrics,
		Cookies:     cookies,
		ListingWait: cfg.ListingWait(),
		Logger:      logger,
	})

	runErr := r.Run(ctx)

	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(cfg.PushgatewayURL, "pricewatch"); err != nil {
			logger.Warn("metrics push failed", zap.Error(err))
		}
	}

	switch {
	case runErr == nil:
		logger.Info("run finished", zap.Duration("elapsed", monitor.Elapsed()))
		return 0
	case errors.Is(runErr, budget.ErrExceeded):
		// A handoff, not an incident: the continuation run picks up
		// the remaining work.
		logger.Info("run handed off to continuation", zap.Duration("elapsed", monitor.Elapsed()))
		return 0
	default:
		logger.Error("run failed", zap.Error(runErr))
		return 1
	}
}

func newLedgerStore(ctx context.Context, cfg *config.Config) (ledger.Store, func(), error) {
	switch cfg.LedgerBackend {
	case "file":
		return ledger.NewFileStore(cfg.LedgerPath), func() {}, nil
	case "postgres":
		store, err := ledger.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "redis":
		store := ledger.NewRedisStore(cfg.RedisAddr, cfg.RedisLedgerKey)
		return store, func() { store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}
}
