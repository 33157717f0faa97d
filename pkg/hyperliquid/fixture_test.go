package hyperliquid

const clearinghouseFixture = `{
  "assetPositions": [
    {
      "type": "oneWay",
      "position": {
        "coin": "ETH",
        "szi": "-0.0335",
        "entryPx": "2986.3",
        "positionValue": "100.02765",
        "unrealizedPnl": "-0.0134",
        "returnOnEquity": "-0.0026789",
        "liquidationPx": "3866.26936529",
        "marginUsed": "5.001",
        "maxLeverage": 50,
        "leverage": {"type": "cross", "value": 20}
      }
    },
    {
      "type": "oneWay",
      "position": {
        "coin": "BTC",
        "szi": "1.0",
        "entryPx": "50000.0",
        "positionValue": "50000.0",
        "unrealizedPnl": "0.0",
        "returnOnEquity": "0.0",
        "liquidationPx": null,
        "marginUsed": "5000.0",
        "maxLeverage": 40,
        "leverage": {"type": "isolated", "value": 10, "rawUsd": "-45000.0"}
      }
    },
    {
      "type": "oneWay",
      "position": {
        "coin": "SOL",
        "szi": "0.0",
        "entryPx": "150.0",
        "positionValue": "0.0",
        "unrealizedPnl": "0.0",
        "returnOnEquity": "0.0",
        "liquidationPx": null,
        "marginUsed": "0.0",
        "maxLeverage": 20,
        "leverage": {"type": "cross", "value": 5}
      }
    }
  ],
  "crossMarginSummary": {"accountValue": "13109.482328", "totalNtlPos": "100.02765", "totalRawUsd": "13209.510028", "totalMarginUsed": "5.001"},
  "marginSummary": {"accountValue": "13109.482328", "totalNtlPos": "50100.02765", "totalRawUsd": "13209.510028", "totalMarginUsed": "5005.001"},
  "withdrawable": "13104.514502",
  "time": 1708622398623
}`
