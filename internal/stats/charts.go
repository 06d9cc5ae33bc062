package stats

import (
	"fmt"
	"sort"
	"strings"

	"trading-journal-go/internal/models"
)

// Unit selects which magnitudes a chart plots.
type Unit string

const (
	UnitUSD  Unit = "usd"
	UnitPips Unit = "pips"
)

// ParseUnit accepts "usd" or "pips" in any case; empty means usd.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(UnitUSD):
		return UnitUSD, nil
	case string(UnitPips):
		return UnitPips, nil
	}
	return "", fmt.Errorf("unknown chart unit %q", s)
}

// Point is one trade on a gain/risk line chart.
type Point struct {
	Date string  `json:"date"`
	Gain float64 `json:"gain"`
	Risk float64 `json:"risk"`
}

// Series returns one point per trade, oldest first. Trades on the same date
// keep their relative input order. The input slice is not modified.
func Series(trades []models.Trade, unit Unit) []Point {
	sorted := make([]models.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	points := make([]Point, 0, len(sorted))
	for _, t := range sorted {
		gain, risk := t.GainUSD, t.RiskUSD
		if unit == UnitPips {
			gain, risk = t.GainPips, t.RiskPips
		}
		points = append(points, Point{
			Date: t.Date,
			Gain: gain.InexactFloat64(),
			Risk: risk.InexactFloat64(),
		})
	}
	return points
}
