package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultTelegramAPI = "https://api.telegram.org"

// TelegramNotifier posts alerts to a Telegram chat through the Bot
// API, as a photo with caption when the item has an image.
type TelegramNotifier struct {
	baseURL string
	token   string
	chatID  string
	client  *http.Client
	logger  *zap.Logger
}

func NewTelegramNotifier(token, chatID string, logger *zap.Logger) *TelegramNotifier {
	return &TelegramNotifier{
		baseURL: defaultTelegramAPI,
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

func (n *TelegramNotifier) Send(ctx context.Context, alert Alert) error {
	method := "sendMessage"
	form := url.Values{"chat_id": {n.chatID}}

	caption := n.caption(alert)
	if alert.ImageURL != "" {
		method = "sendPhoto"
		form.Set("photo", alert.ImageURL)
		form.Set("caption", caption)
	} else {
		form.Set("text", caption)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", n.baseURL, n.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram alert: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram responded %d", resp.StatusCode)
	}

	n.logger.Info("alert delivered",
		zap.String("id", alert.ExternalID),
		zap.String("price", alert.Price))
	return nil
}

func (n *TelegramNotifier) caption(alert Alert) string {
	var b strings.Builder
	if alert.PreviousPrice != "" {
		b.WriteString("📉 Fiyat düştü!\n")
	} else {
		b.WriteString("🆕 Yeni ürün!\n")
	}
	b.WriteString(alert.Title)
	b.WriteString("\n")
	if alert.PreviousPrice != "" {
		fmt.Fprintf(&b, "%s → %s\n", alert.PreviousPrice, alert.Price)
	} else {
		b.WriteString(alert.Price)
		b.WriteString("\n")
	}
	b.WriteString(alert.Link)
	return b.String()
}
