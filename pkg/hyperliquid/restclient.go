package hyperliquid

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

// ErrStatus is returned when the API answers with a non-200 status.
var ErrStatus = errors.New("hyperliquid: unexpected status")

const infoTypeClearinghouseState = "clearinghouseState"

type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ClearinghouseState fetches the open perpetual positions and margin summary of a user.
func (c *RESTClient) ClearinghouseState(ctx context.Context, user string) (*ClearinghouseState, error) {
	var state ClearinghouseState
	if err := c.info(ctx, InfoRequest{Type: infoTypeClearinghouseState, User: user}, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *RESTClient) info(ctx context.Context, request InfoRequest, out any) error {
	body, err := sonic.Marshal(request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	// Construct the POST request with context for timeout/cancel support
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/info", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, excerpt(raw))
	}

	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func excerpt(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
