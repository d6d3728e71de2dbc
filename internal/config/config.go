package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for a monitoring run.
type Config struct {
	ProfilePath string `mapstructure:"PROFILE_PATH"`

	BudgetSeconds      int `mapstructure:"BUDGET_SECONDS"`
	ListingWaitSeconds int `mapstructure:"LISTING_WAIT_SECONDS"`
	DetailWaitSeconds  int `mapstructure:"DETAIL_WAIT_SECONDS"`

	CookieB64 string `mapstructure:"COOKIE_B64"`

	LedgerBackend  string `mapstructure:"LEDGER_BACKEND"` // file, postgres, redis
	LedgerPath     string `mapstructure:"LEDGER_PATH"`
	PostgresURL    string `mapstructure:"POSTGRES_URL"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisLedgerKey string `mapstructure:"REDIS_LEDGER_KEY"`

	TelegramToken  string `mapstructure:"TELEGRAM_TOKEN"`
	TelegramChatID string `mapstructure:"TELEGRAM_CHAT_ID"`

	DispatchURL   string `mapstructure:"DISPATCH_URL"`
	DispatchToken string `mapstructure:"DISPATCH_TOKEN"`
	DispatchRef   string `mapstructure:"DISPATCH_REF"`

	PushgatewayURL string `mapstructure:"PUSHGATEWAY_URL"`

	ProxyList string `mapstructure:"PROXY_LIST"` // comma-separated
	Headless  bool   `mapstructure:"HEADLESS"`
}

// Load reads configuration from a .env file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present.
	// This allows configuration purely through environment variables.
	_ = viper.ReadInConfig()

	// Empty defaults register env-only keys so AutomaticEnv can
	// resolve them during Unmarshal.
	for _, key := range []string{
		"COOKIE_B64", "POSTGRES_URL", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID",
		"DISPATCH_URL", "DISPATCH_TOKEN", "PUSHGATEWAY_URL", "PROXY_LIST",
	} {
		viper.SetDefault(key, "")
	}

	viper.SetDefault("PROFILE_PATH", "profiles/amazon-tv.yaml")
	viper.SetDefault("BUDGET_SECONDS", 110)
	viper.SetDefault("LISTING_WAIT_SECONDS", 35)
	viper.SetDefault("DETAIL_WAIT_SECONDS", 10)
	viper.SetDefault("LEDGER_BACKEND", "file")
	viper.SetDefault("LEDGER_PATH", "send_products.txt")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_LEDGER_KEY", "pricewatch:ledger")
	viper.SetDefault("DISPATCH_REF", "main")
	viper.SetDefault("HEADLESS", true)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Budget is the wall-clock ceiling for the whole run.
func (c *Config) Budget() time.Duration {
	return time.Duration(c.BudgetSeconds) * time.Second
}

// ListingWait is the readiness timeout for the listing page load.
func (c *Config) ListingWait() time.Duration {
	return time.Duration(c.ListingWaitSeconds) * time.Second
}

// DetailWait is the readiness timeout for each escalation page load.
func (c *Config) DetailWait() time.Duration {
	return time.Duration(c.DetailWaitSeconds) * time.Second
}

// Proxies splits the configured proxy list.
func (c *Config) Proxies() []string {
	if strings.TrimSpace(c.ProxyList) == "" {
		return nil
	}
	parts := strings.Split(c.ProxyList, ",")
	proxies := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			proxies = append(proxies, part)
		}
	}
	return proxies
}
