// Package stats derives display aggregates from journal trades.
package stats

import (
	"github.com/shopspring/decimal"

	"trading-journal-go/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Summary holds aggregate figures for a set of trades. Monetary fields are
// fixed two-decimal strings and WinRate is a one-decimal percentage.
type Summary struct {
	TotalTrades     int    `json:"totalTrades"`
	TotalRiskedUSD  string `json:"totalRiskedUSD"`
	TotalGainUSD    string `json:"totalGainUSD"`
	NetProfitUSD    string `json:"netProfitUSD"`
	WinCount        int    `json:"winCount"`
	WinRate         string `json:"winRate"`
	TotalBuyTrades  int    `json:"totalBuyTrades"`
	TotalSellTrades int    `json:"totalSellTrades"`
}

// Calculate aggregates trades in a single pass. A trade wins when its gain is
// strictly greater than its risk. Signals match Buy/Sell in any case; other
// values count toward neither side.
func Calculate(trades []models.Trade) Summary {
	risked := decimal.Zero
	gained := decimal.Zero
	var wins, buys, sells int

	for _, t := range trades {
		risk := t.RiskUSD.Decimal
		gain := t.GainUSD.Decimal

		risked = risked.Add(risk)
		gained = gained.Add(gain)

		if gain.GreaterThan(risk) {
			wins++
		}

		switch {
		case t.Signal.IsBuy():
			buys++
		case t.Signal.IsSell():
			sells++
		}
	}

	winRate := decimal.Zero
	if n := len(trades); n > 0 {
		winRate = decimal.NewFromInt(int64(wins)).Mul(hundred).Div(decimal.NewFromInt(int64(n)))
	}

	return Summary{
		TotalTrades:     len(trades),
		TotalRiskedUSD:  risked.StringFixed(2),
		TotalGainUSD:    gained.StringFixed(2),
		NetProfitUSD:    gained.Sub(risked).StringFixed(2),
		WinCount:        wins,
		WinRate:         winRate.StringFixed(1),
		TotalBuyTrades:  buys,
		TotalSellTrades: sells,
	}
}
