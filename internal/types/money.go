// README: Common money value object used across modules.
package types

import "github.com/shopspring/decimal"

type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// MoneyFromFloat rounds amount to two decimal places, the precision every
// quoted price is expressed in.
func MoneyFromFloat(amount float64, currency string) Money {
	return Money{Amount: decimal.NewFromFloat(amount).Round(2), Currency: currency}
}

func (m Money) Float() float64 {
	f, _ := m.Amount.Float64()
	return f
}
