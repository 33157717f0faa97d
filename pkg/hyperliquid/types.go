package hyperliquid

import "encoding/json"

// InfoRequest is the body of a POST to the /info endpoint.
type InfoRequest struct {
	Type string `json:"type"` // e.g. "clearinghouseState"
	User string `json:"user"` // wallet address, 0x-prefixed
}

// ClearinghouseState is the perpetuals account summary of one user.
type ClearinghouseState struct {
	AssetPositions     []AssetPosition `json:"assetPositions"`
	MarginSummary      MarginSummary   `json:"marginSummary"`
	CrossMarginSummary MarginSummary   `json:"crossMarginSummary"`
	Withdrawable       string          `json:"withdrawable"`
	Time               int64           `json:"time"` // Server timestamp (in milliseconds since epoch)
}

type AssetPosition struct {
	Type     string      `json:"type"` // "oneWay"
	Position RawPosition `json:"position"`
}

// RawPosition carries numbers as decimal strings, exactly as the API sends them.
type RawPosition struct {
	Coin           string   `json:"coin"`
	Szi            string   `json:"szi"` // signed size
	EntryPx        string   `json:"entryPx"`
	PositionValue  string   `json:"positionValue"`
	UnrealizedPnl  string   `json:"unrealizedPnl"`
	ReturnOnEquity string   `json:"returnOnEquity"`
	LiquidationPx  *string  `json:"liquidationPx"` // null when there is no liquidation threshold
	MarginUsed     string   `json:"marginUsed"`
	MaxLeverage    int      `json:"maxLeverage"`
	Leverage       Leverage `json:"leverage"`
}

type Leverage struct {
	Type   string  `json:"type"` // "cross" or "isolated"
	Value  float64 `json:"value"`
	RawUsd string  `json:"rawUsd,omitempty"`
}

type MarginSummary struct {
	AccountValue    string `json:"accountValue"`
	TotalNtlPos     string `json:"totalNtlPos"`
	TotalRawUsd     string `json:"totalRawUsd"`
	TotalMarginUsed string `json:"totalMarginUsed"`
}

// wsPostRequest wraps an info request for the websocket "post" method.
type wsPostRequest struct {
	Method  string        `json:"method"` // "post"
	ID      uint64        `json:"id"`
	Request wsPostPayload `json:"request"`
}

type wsPostPayload struct {
	Type    string      `json:"type"` // "info"
	Payload InfoRequest `json:"payload"`
}

// wsMessage is the envelope of every message pushed by the websocket server.
type wsMessage struct {
	Channel string          `json:"channel"` // "post", "pong", "subscriptionResponse", ...
	Data    json.RawMessage `json:"data"`
}

type wsPostResponse struct {
	ID       uint64 `json:"id"`
	Response struct {
		Type    string          `json:"type"`    // "info" or "error"
		Payload json.RawMessage `json:"payload"` // {"type":..., "data":...} or an error string
	} `json:"response"`
}

type wsInfoPayload struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}
