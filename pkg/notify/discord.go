package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"hlwatcher/internal/position"

	"github.com/bytedance/sonic"
)

// discordMaxContent is the longest message body a webhook accepts.
const discordMaxContent = 2000

// Discord posts alerts to a channel webhook.
type Discord struct {
	webhookURL string
	httpClient *http.Client
}

func NewDiscord(webhookURL string, timeout time.Duration) *Discord {
	return &Discord{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (d *Discord) Notify(ctx context.Context, ev position.Event) error {
	return d.Send(ctx, ev.Message())
}

// Send posts a raw text message.
func (d *Discord) Send(ctx context.Context, content string) error {
	body, err := sonic.Marshal(map[string]string{"content": truncate(content, discordMaxContent)})
	if err != nil {
		return fmt.Errorf("encode webhook body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: discord: %v", ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%w: discord status %d: %s", ErrDelivery, resp.StatusCode, msg)
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
