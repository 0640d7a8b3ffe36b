package fx

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/model"
)

// UnknownCurrencyError reports a currency pair with no exchange rate.
type UnknownCurrencyError struct {
	From string
	To   string
}

func (e UnknownCurrencyError) Error() string {
	return fmt.Sprintf("no exchange rate for %s -> %s", e.From, e.To)
}

type pair struct {
	from string
	to   string
}

// Table maps currency pairs to exchange rates. Conversion multiplies by
// the rate, so a table entry (EUR, USD, 1.08) means 1 EUR = 1.08 USD.
type Table struct {
	rates map[pair]decimal.Decimal
}

// NewTable creates an empty rate table.
func NewTable() *Table {
	return &Table{rates: make(map[pair]decimal.Decimal)}
}

// Set records the rate for a currency pair, replacing any existing one.
func (t *Table) Set(from, to string, rate decimal.Decimal) {
	t.rates[pair{from, to}] = rate
}

// Merge copies every rate from other into t, overwriting duplicates.
func (t *Table) Merge(other *Table) {
	for p, r := range other.rates {
		t.rates[p] = r
	}
}

// Rate returns the rate for a currency pair.
func (t *Table) Rate(from, to string) (decimal.Decimal, bool) {
	if from == to {
		return decimal.NewFromInt(1), true
	}
	r, ok := t.rates[pair{from, to}]
	return r, ok
}

// Convert maps an amount in the from currency to the to currency. No
// rounding is applied; full precision is carried forward.
func (t *Table) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	rate, ok := t.rates[pair{from, to}]
	if !ok {
		return decimal.Decimal{}, UnknownCurrencyError{From: from, To: to}
	}
	return amount.Mul(rate), nil
}

// Derive builds a rate table from statement group totals. A group whose
// gross and revenue figures are both nonzero implies the settlement
// rate revenue/gross for (group currency -> target); the statement
// revenue column is already denominated in the target currency.
func Derive(totals map[string]model.GroupTotals, target string) (*Table, error) {
	t := NewTable()
	for currency, gt := range totals {
		if gt.Revenue.IsZero() || gt.Gross.IsZero() {
			continue
		}
		t.Set(currency, target, gt.Revenue.Div(gt.Gross))
	}
	if len(t.rates) == 0 {
		return nil, fmt.Errorf("statement revenue figures are all zero, cannot derive exchange rates")
	}
	return t, nil
}
