package hyperliquid

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSClient sends info requests over the Hyperliquid websocket using the
// "post" method. Requests are serialized; the connection is dialed lazily and
// dropped on any error so the next request reconnects.
type WSClient struct {
	url     string
	timeout time.Duration
	dialer  *websocket.Dialer
	logger  *zap.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID uint64
}

// NewWSClient creates a new WebSocket client with the given URL and logger.
func NewWSClient(url string, timeout time.Duration, logger *zap.Logger) *WSClient {
	return &WSClient{
		url:     url,
		timeout: timeout,
		dialer:  &websocket.Dialer{HandshakeTimeout: timeout},
		logger:  logger,
	}
}

// ClearinghouseState fetches the open perpetual positions and margin summary of a user.
func (c *WSClient) ClearinghouseState(ctx context.Context, user string) (*ClearinghouseState, error) {
	var state ClearinghouseState
	if err := c.post(ctx, InfoRequest{Type: infoTypeClearinghouseState, User: user}, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *WSClient) post(ctx context.Context, request InfoRequest, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connect(ctx); err != nil {
		return err
	}

	c.nextID++
	id := c.nextID

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	msg := wsPostRequest{
		Method:  "post",
		ID:      id,
		Request: wsPostPayload{Type: "info", Payload: request},
	}
	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(msg); err != nil {
		c.drop()
		return fmt.Errorf("websocket post failed: %w", err)
	}

	_ = c.conn.SetReadDeadline(deadline)
	for {
		if err := ctx.Err(); err != nil {
			c.drop()
			return err
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.drop()
			return fmt.Errorf("websocket read failed: %w", err)
		}

		var env wsMessage
		if err := sonic.Unmarshal(raw, &env); err != nil {
			c.logger.Debug("ignoring undecodable websocket message", zap.Error(err))
			continue
		}
		if env.Channel != "post" {
			continue // pongs, subscription acks
		}

		var resp wsPostResponse
		if err := sonic.Unmarshal(env.Data, &resp); err != nil {
			return fmt.Errorf("decode post response: %w", err)
		}
		if resp.ID != id {
			c.logger.Debug("ignoring stale post response", zap.Uint64("id", resp.ID), zap.Uint64("want", id))
			continue
		}

		return decodePostResponse(resp, out)
	}
}

func decodePostResponse(resp wsPostResponse, out any) error {
	switch resp.Response.Type {
	case "info":
		var payload wsInfoPayload
		if err := sonic.Unmarshal(resp.Response.Payload, &payload); err != nil {
			return fmt.Errorf("decode info payload: %w", err)
		}
		if err := sonic.Unmarshal(payload.Data, out); err != nil {
			return fmt.Errorf("decode info data: %w", err)
		}
		return nil
	case "error":
		var text string
		if err := sonic.Unmarshal(resp.Response.Payload, &text); err != nil {
			text = string(resp.Response.Payload)
		}
		return fmt.Errorf("%w: %s", ErrStatus, strings.TrimSpace(text))
	default:
		return fmt.Errorf("unexpected post response type %q", resp.Response.Type)
	}
}

// connect establishes the WebSocket connection if there is none.
func (c *WSClient) connect(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		c.logger.Warn("failed to connect to WebSocket", zap.String("url", c.url), zap.Error(err))
		return fmt.Errorf("websocket dial: %w", err)
	}
	c.conn = conn
	c.logger.Info("WebSocket connected", zap.String("url", c.url))
	return nil
}

// drop closes the current connection; the next request redials.
func (c *WSClient) drop() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

// Close sends a close frame and releases the connection.
func (c *WSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	err := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	c.drop()
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return err
	}
	return nil
}
