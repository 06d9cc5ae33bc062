package models

import "github.com/shopspring/decimal"

// Trade is one journal row. Personal and funded accounts share the shape and
// differ only in the table that holds them.
type Trade struct {
	ID       uint   `gorm:"primaryKey" json:"id,omitempty"`
	Date     string `gorm:"type:text;not null;index" json:"date"`
	Day      string `gorm:"type:text" json:"day"`
	Pair     string `gorm:"type:text;not null" json:"pair"`
	Signal   Signal `gorm:"type:text" json:"signal"`
	RiskUSD  Amount `gorm:"column:risk_usd;type:numeric" json:"risk_usd"`
	GainUSD  Amount `gorm:"column:gain_usd;type:numeric" json:"gain_usd"`
	RiskPips Amount `gorm:"column:risk_pips;type:numeric" json:"risk_pips"`
	GainPips Amount `gorm:"column:gain_pips;type:numeric" json:"gain_pips"`
	UserID   string `gorm:"type:text;not null;index" json:"user_id"`
}

// NetUSD is the gain minus the amount risked.
func (t Trade) NetUSD() decimal.Decimal {
	return t.GainUSD.Sub(t.RiskUSD.Decimal)
}

// Account names a trade collection.
type Account struct {
	Name  string
	Table string
}

var (
	PersonalAccount = Account{Name: "personal", Table: "personal_trades"}
	FundedAccount   = Account{Name: "funded", Table: "funded_trades"}
)

// Accounts lists every trade collection.
var Accounts = []Account{PersonalAccount, FundedAccount}

// AccountByName looks up a trade collection by its route name.
func AccountByName(name string) (Account, bool) {
	for _, a := range Accounts {
		if a.Name == name {
			return a, true
		}
	}
	return Account{}, false
}
