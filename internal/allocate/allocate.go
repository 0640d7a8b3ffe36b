package allocate

import (
	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/fx"
	"github.com/settled-dev/settled/internal/model"
)

// minorUnit is the rounding precision for allocated shares. Allocation
// totals reconcile to this precision.
const minorUnit = 2

// Allocate converts every transaction to the target currency and
// distributes each currency group's adjustment and withholding-tax
// totals across the group's transactions in proportion to their
// converted amounts. Output order matches input order.
//
// Transactions whose currency has no conversion rate are retained with
// ConvErr set and zero allocations. Transactions whose group has no
// statement entry are flagged UnmatchedGroup and allocate zero.
func Allocate(txns []model.Transaction, totals map[string]model.GroupTotals, table *fx.Table, target string) []model.AllocatedTransaction {
	results := make([]model.AllocatedTransaction, len(txns))
	for i, txn := range txns {
		results[i].Transaction = txn
	}

	// Group member indices by currency, preserving input order within
	// each group.
	groups := make(map[string][]int)
	for i, txn := range txns {
		groups[txn.Currency] = append(groups[txn.Currency], i)
	}

	for currency, members := range groups {
		allocateGroup(results, members, currency, totals, table, target)
	}

	return results
}

func allocateGroup(results []model.AllocatedTransaction, members []int, currency string, totals map[string]model.GroupTotals, table *fx.Table, target string) {
	// A missing rate fails the whole group: every member uses the same
	// currency pair.
	if _, ok := table.Rate(currency, target); !ok {
		err := fx.UnknownCurrencyError{From: currency, To: target}
		for _, i := range members {
			results[i].ConvErr = err.Error()
		}
		return
	}

	bases := make([]decimal.Decimal, len(members))
	for n, i := range members {
		basis, err := table.Convert(results[i].Amount, currency, target)
		if err != nil {
			// Unreachable after the rate check above, but never drop a
			// discrepancy silently.
			results[i].ConvErr = err.Error()
			return
		}
		bases[n] = basis
		results[i].USDAmount = basis
	}

	gt, matched := totals[currency]
	if !matched {
		for _, i := range members {
			results[i].UnmatchedGroup = true
			results[i].NetRevenue = results[i].USDAmount
		}
		return
	}

	adjTotal := convertTotal(gt.Adjustment, currency, target, table)
	taxTotal := convertTotal(gt.Withholding, currency, target, table)

	adjShares := distribute(bases, adjTotal)
	taxShares := distribute(bases, taxTotal)

	for n, i := range members {
		results[i].Adjustment = adjShares[n]
		results[i].Tax = taxShares[n]
		results[i].NetRevenue = Net(results[i].USDAmount, adjShares[n], taxShares[n])
	}
}

// convertTotal maps a group total into the target currency and rounds
// it to the minor unit; the rounded figure is what allocation preserves.
func convertTotal(total decimal.Decimal, currency, target string, table *fx.Table) decimal.Decimal {
	converted, err := table.Convert(total, currency, target)
	if err != nil {
		return decimal.Zero
	}
	return converted.Round(minorUnit)
}

// distribute splits a total across transactions in proportion to their
// bases, rounding each share to the minor unit and assigning the
// rounding residual to the largest-basis transaction (first in input
// order among ties) so the shares sum to the total exactly.
//
// When the basis sum is zero the proportion is undefined; the total is
// split equally with the residual on the first transaction.
func distribute(bases []decimal.Decimal, total decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(bases))
	if len(bases) == 0 || total.IsZero() {
		return shares
	}

	basisSum := decimal.Zero
	for _, b := range bases {
		basisSum = basisSum.Add(b)
	}

	largest := 0
	allocated := decimal.Zero

	if basisSum.IsZero() {
		each := total.Div(decimal.NewFromInt(int64(len(bases)))).Round(minorUnit)
		for i := range shares {
			shares[i] = each
			allocated = allocated.Add(each)
		}
	} else {
		for i, b := range bases {
			share := total.Mul(b).Div(basisSum).Round(minorUnit)
			shares[i] = share
			allocated = allocated.Add(share)
			if b.GreaterThan(bases[largest]) {
				largest = i
			}
		}
	}

	if residual := total.Sub(allocated); !residual.IsZero() {
		shares[largest] = shares[largest].Add(residual)
	}
	return shares
}

// Net combines a converted gross amount with its allocated adjustment
// and tax. Full precision is kept; callers round at presentation.
func Net(usd, adjustment, tax decimal.Decimal) decimal.Decimal {
	return usd.Add(adjustment).Add(tax)
}
