package model

import (
	"github.com/shopspring/decimal"
)

// Transaction represents a parsed sales-detail row.
type Transaction struct {
	SKU      string
	Amount   decimal.Decimal // partner share in the settlement currency
	Currency string          // settlement currency code (e.g. "EUR")
	Line     int             // 1-based source line; identity is row position
	Raw      []string        // original cells, echoed into the output table
}
