package model

import (
	"github.com/shopspring/decimal"
)

// AllocatedTransaction couples a Transaction with its converted amount
// and its share of the statement-level adjustment and withholding-tax
// totals. NetRevenue carries full precision; rounding to the minor unit
// happens at presentation.
type AllocatedTransaction struct {
	Transaction
	USDAmount  decimal.Decimal // gross amount converted to the target currency
	Adjustment decimal.Decimal // allocated share of the group adjustment total
	Tax        decimal.Decimal // allocated share of the group withholding total
	NetRevenue decimal.Decimal // USDAmount + Adjustment + Tax

	// UnmatchedGroup marks a transaction whose currency group has no
	// statement entry. It received zero allocations.
	UnmatchedGroup bool

	// ConvErr is the reason the transaction could not be converted to
	// the target currency. Such transactions are retained in output but
	// excluded from net-revenue totals.
	ConvErr string
}

// Excluded reports whether the transaction is excluded from totals.
func (a AllocatedTransaction) Excluded() bool {
	return a.ConvErr != ""
}
