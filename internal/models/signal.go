package models

import "strings"

// Signal is the trade direction. Values outside Buy/Sell are stored as given.
type Signal string

const (
	SignalBuy  Signal = "Buy"
	SignalSell Signal = "Sell"
)

// IsBuy reports whether s is "buy" in any letter case.
func (s Signal) IsBuy() bool { return strings.EqualFold(string(s), string(SignalBuy)) }

// IsSell reports whether s is "sell" in any letter case.
func (s Signal) IsSell() bool { return strings.EqualFold(string(s), string(SignalSell)) }
