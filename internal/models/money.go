package models

import "github.com/shopspring/decimal"

func init() {
	// Amounts travel as JSON numbers; clients send and receive 600.5, not "600.5".
	decimal.MarshalJSONWithoutQuotes = true
}
