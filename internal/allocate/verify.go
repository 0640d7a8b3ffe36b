package allocate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/fx"
	"github.com/settled-dev/settled/internal/model"
)

// CheckError describes a single reconciliation invariant violation.
type CheckError struct {
	Group       string
	Description string
}

func (e CheckError) Error() string {
	return fmt.Sprintf("group %s: %s", e.Group, e.Description)
}

// Verify enforces the reconciliation invariants on allocation output:
//
//  1. Per matched group, allocated adjustments sum to the group's
//     adjustment total (to the minor unit), and likewise for tax.
//  2. Grand-total identity: the net revenue over all included
//     transactions equals converted gross + allocated adjustment +
//     allocated tax summed over the same transactions.
func Verify(results []model.AllocatedTransaction, totals map[string]model.GroupTotals, table *fx.Table, target string) []CheckError {
	var errs []CheckError

	adjByGroup := make(map[string]decimal.Decimal)
	taxByGroup := make(map[string]decimal.Decimal)
	matched := make(map[string]bool)

	usdSum := decimal.Zero
	adjSum := decimal.Zero
	taxSum := decimal.Zero
	netSum := decimal.Zero

	for _, r := range results {
		if r.Excluded() {
			continue
		}
		if !r.UnmatchedGroup {
			matched[r.Currency] = true
		}
		adjByGroup[r.Currency] = adjByGroup[r.Currency].Add(r.Adjustment)
		taxByGroup[r.Currency] = taxByGroup[r.Currency].Add(r.Tax)

		usdSum = usdSum.Add(r.USDAmount)
		adjSum = adjSum.Add(r.Adjustment)
		taxSum = taxSum.Add(r.Tax)
		netSum = netSum.Add(r.NetRevenue)
	}

	for currency := range matched {
		gt, ok := totals[currency]
		if !ok {
			continue
		}
		wantAdj := convertTotal(gt.Adjustment, currency, target, table)
		if got := adjByGroup[currency]; !got.Equal(wantAdj) {
			errs = append(errs, CheckError{
				Group:       currency,
				Description: fmt.Sprintf("allocated adjustment %s != group total %s", got, wantAdj),
			})
		}
		wantTax := convertTotal(gt.Withholding, currency, target, table)
		if got := taxByGroup[currency]; !got.Equal(wantTax) {
			errs = append(errs, CheckError{
				Group:       currency,
				Description: fmt.Sprintf("allocated tax %s != group total %s", got, wantTax),
			})
		}
	}

	if want := usdSum.Add(adjSum).Add(taxSum); !netSum.Equal(want) {
		errs = append(errs, CheckError{
			Group:       "*",
			Description: fmt.Sprintf("net revenue total %s != gross + adjustment + tax total %s", netSum, want),
		})
	}

	return errs
}
