package domain_test

import "github.com/shopspring/decimal"

func itemPrice(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
