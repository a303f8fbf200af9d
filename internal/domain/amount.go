package domain

import "github.com/shopspring/decimal"

// Amount is a monetary value in major currency units. Provider amounts arrive
// in minor units and assume two decimal digits for every currency, so
// zero-decimal currencies such as JPY are rendered one hundred times too small.
type Amount struct {
	decimal.Decimal
}

func AmountFromMinor(minor int64) Amount {
	return Amount{decimal.New(minor, -2)}
}

// MarshalJSON writes the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}
