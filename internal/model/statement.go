package model

import (
	"github.com/shopspring/decimal"
)

// StatementRow is one country/region line of a platform statement.
// GroupKey is the composite country/currency key as it appears in the
// source, e.g. "US (USD)".
type StatementRow struct {
	GroupKey    string
	Gross       decimal.Decimal // total owed, in the group's currency
	Revenue     decimal.Decimal // statement revenue figure, in the target currency
	Adjustment  decimal.Decimal // signed
	Withholding decimal.Decimal // withholding tax, typically negative
	Line        int             // 1-based source line
}

// GroupTotals holds statement figures summed over all rows sharing a
// currency group. These are the aggregates distributed down to
// individual transactions during allocation.
type GroupTotals struct {
	Currency    string
	Gross       decimal.Decimal
	Revenue     decimal.Decimal
	Adjustment  decimal.Decimal
	Withholding decimal.Decimal
}
