package allocate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settled-dev/settled/internal/fx"
	"github.com/settled-dev/settled/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func usdTxns(amounts ...string) []model.Transaction {
	txns := make([]model.Transaction, len(amounts))
	for i, a := range amounts {
		txns[i] = model.Transaction{SKU: "sku", Amount: dec(a), Currency: "USD", Line: i + 2}
	}
	return txns
}

func identityTable(currencies ...string) *fx.Table {
	t := fx.NewTable()
	for _, c := range currencies {
		t.Set(c, "USD", decimal.NewFromInt(1))
	}
	return t
}

func TestAllocate_ProportionalNoResidual(t *testing.T) {
	txns := usdTxns("60", "40")
	totals := map[string]model.GroupTotals{
		"USD": {Currency: "USD", Adjustment: dec("-10")},
	}

	results := Allocate(txns, totals, fx.NewTable(), "USD")
	require.Len(t, results, 2)
	assert.True(t, results[0].Adjustment.Equal(dec("-6")), "got %s", results[0].Adjustment)
	assert.True(t, results[1].Adjustment.Equal(dec("-4")), "got %s", results[1].Adjustment)
}

func TestAllocate_ResidualToLargestBasis(t *testing.T) {
	txns := usdTxns("33.33", "33.33", "33.34")
	totals := map[string]model.GroupTotals{
		"USD": {Currency: "USD", Adjustment: dec("1.00")},
	}

	results := Allocate(txns, totals, fx.NewTable(), "USD")
	require.Len(t, results, 3)
	assert.True(t, results[0].Adjustment.Equal(dec("0.33")))
	assert.True(t, results[1].Adjustment.Equal(dec("0.33")))
	assert.True(t, results[2].Adjustment.Equal(dec("0.34")), "residual goes to the largest basis, got %s", results[2].Adjustment)
}

func TestAllocate_ResidualTieBreakFirstInInputOrder(t *testing.T) {
	txns := usdTxns("50", "50")
	totals := map[string]model.GroupTotals{
		"USD": {Currency: "USD", Adjustment: dec("0.03")},
	}

	results := Allocate(txns, totals, fx.NewTable(), "USD")
	// Ideal shares 0.015 each round to 0.02; the -0.01 residual lands on
	// the first of the tied transactions.
	assert.True(t, results[0].Adjustment.Equal(dec("0.01")), "got %s", results[0].Adjustment)
	assert.True(t, results[1].Adjustment.Equal(dec("0.02")), "got %s", results[1].Adjustment)
}

func TestAllocate_ZeroBasisEqualSplit(t *testing.T) {
	txns := usdTxns("0", "0", "0")
	totals := map[string]model.GroupTotals{
		"USD": {Currency: "USD", Adjustment: dec("1.00"), Withholding: dec("-0.50")},
	}

	results := Allocate(txns, totals, fx.NewTable(), "USD")
	require.Len(t, results, 3)

	// 1.00 / 3 rounds to 0.33 each; the 0.01 residual lands on the
	// first transaction.
	assert.True(t, results[0].Adjustment.Equal(dec("0.34")), "got %s", results[0].Adjustment)
	assert.True(t, results[1].Adjustment.Equal(dec("0.33")))
	assert.True(t, results[2].Adjustment.Equal(dec("0.33")))

	taxSum := results[0].Tax.Add(results[1].Tax).Add(results[2].Tax)
	assert.True(t, taxSum.Equal(dec("-0.50")))
}

func TestAllocate_SingleTransactionGroup(t *testing.T) {
	txns := usdTxns("12.34")
	totals := map[string]model.GroupTotals{
		"USD": {Currency: "USD", Adjustment: dec("-1.11"), Withholding: dec("-0.07")},
	}

	results := Allocate(txns, totals, fx.NewTable(), "USD")
	require.Len(t, results, 1)
	assert.True(t, results[0].Adjustment.Equal(dec("-1.11")))
	assert.True(t, results[0].Tax.Equal(dec("-0.07")))
	assert.True(t, results[0].NetRevenue.Equal(dec("11.16")))
}

func TestAllocate_SumPreservation(t *testing.T) {
	cases := []struct {
		name   string
		bases  []string
		adj    string
		tax    string
	}{
		{"even", []string{"10", "10", "10", "10"}, "-7.77", "-0.13"},
		{"skewed", []string{"0.01", "999.99", "3.50"}, "13.31", "-2.45"},
		{"negative basis", []string{"-5", "15"}, "-1.00", "0"},
		{"all zero bases", []string{"0", "0"}, "5.55", "-5.55"},
		{"single", []string{"42"}, "0.01", "-0.01"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			txns := usdTxns(c.bases...)
			totals := map[string]model.GroupTotals{
				"USD": {Currency: "USD", Adjustment: dec(c.adj), Withholding: dec(c.tax)},
			}

			results := Allocate(txns, totals, fx.NewTable(), "USD")

			adjSum := decimal.Zero
			taxSum := decimal.Zero
			for _, r := range results {
				adjSum = adjSum.Add(r.Adjustment)
				taxSum = taxSum.Add(r.Tax)
			}
			assert.True(t, adjSum.Equal(dec(c.adj)), "adjustment sum %s != %s", adjSum, c.adj)
			assert.True(t, taxSum.Equal(dec(c.tax)), "tax sum %s != %s", taxSum, c.tax)
		})
	}
}

func TestAllocate_ConvertsGroupTotals(t *testing.T) {
	table := fx.NewTable()
	table.Set("EUR", "USD", dec("1.1"))

	txns := []model.Transaction{
		{SKU: "a", Amount: dec("100"), Currency: "EUR", Line: 2},
	}
	totals := map[string]model.GroupTotals{
		"EUR": {Currency: "EUR", Adjustment: dec("-10")},
	}

	results := Allocate(txns, totals, table, "USD")
	require.Len(t, results, 1)
	assert.True(t, results[0].USDAmount.Equal(dec("110")))
	assert.True(t, results[0].Adjustment.Equal(dec("-11")), "group totals are converted before distribution, got %s", results[0].Adjustment)
}

func TestAllocate_UnmatchedGroup(t *testing.T) {
	table := identityTable("GBP")
	txns := []model.Transaction{
		{SKU: "a", Amount: dec("10"), Currency: "GBP", Line: 2},
	}

	results := Allocate(txns, nil, table, "USD")
	require.Len(t, results, 1)
	assert.True(t, results[0].UnmatchedGroup)
	assert.True(t, results[0].Adjustment.IsZero())
	assert.True(t, results[0].Tax.IsZero())
	assert.True(t, results[0].NetRevenue.Equal(dec("10")))
	assert.False(t, results[0].Excluded())
}

func TestAllocate_UnknownCurrency(t *testing.T) {
	txns := []model.Transaction{
		{SKU: "a", Amount: dec("10"), Currency: "XYZ", Line: 2},
		{SKU: "b", Amount: dec("20"), Currency: "USD", Line: 3},
	}
	totals := map[string]model.GroupTotals{
		"USD": {Currency: "USD", Adjustment: dec("-2")},
	}

	results := Allocate(txns, totals, fx.NewTable(), "USD")
	require.Len(t, results, 2)

	assert.NotEmpty(t, results[0].ConvErr)
	assert.True(t, results[0].Excluded())
	assert.True(t, results[0].Adjustment.IsZero())

	// The USD group is unaffected by the failed group.
	assert.Empty(t, results[1].ConvErr)
	assert.True(t, results[1].Adjustment.Equal(dec("-2")))
}

func TestAllocate_PreservesInputOrder(t *testing.T) {
	table := identityTable("EUR")
	txns := []model.Transaction{
		{SKU: "a", Amount: dec("1"), Currency: "USD", Line: 2},
		{SKU: "b", Amount: dec("2"), Currency: "EUR", Line: 3},
		{SKU: "c", Amount: dec("3"), Currency: "USD", Line: 4},
		{SKU: "d", Amount: dec("4"), Currency: "EUR", Line: 5},
	}

	results := Allocate(txns, nil, table, "USD")
	require.Len(t, results, 4)
	for i, want := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, want, results[i].SKU)
	}
}

func TestNet(t *testing.T) {
	got := Net(dec("100"), dec("-6"), dec("-1.50"))
	assert.True(t, got.Equal(dec("92.50")))
}

func TestVerify_Clean(t *testing.T) {
	txns := usdTxns("60", "40")
	totals := map[string]model.GroupTotals{
		"USD": {Currency: "USD", Adjustment: dec("-10"), Withholding: dec("-1")},
	}
	table := fx.NewTable()

	results := Allocate(txns, totals, table, "USD")
	errs := Verify(results, totals, table, "USD")
	assert.Empty(t, errs)
}

func TestVerify_DetectsDrift(t *testing.T) {
	txns := usdTxns("60", "40")
	totals := map[string]model.GroupTotals{
		"USD": {Currency: "USD", Adjustment: dec("-10")},
	}
	table := fx.NewTable()

	results := Allocate(txns, totals, table, "USD")
	results[0].Adjustment = results[0].Adjustment.Add(dec("0.01"))

	errs := Verify(results, totals, table, "USD")
	require.NotEmpty(t, errs)
	assert.Equal(t, "USD", errs[0].Group)
}

func TestVerify_GrandTotalIdentity(t *testing.T) {
	table := identityTable("EUR", "GBP")
	txns := []model.Transaction{
		{SKU: "a", Amount: dec("33.33"), Currency: "EUR", Line: 2},
		{SKU: "b", Amount: dec("33.33"), Currency: "EUR", Line: 3},
		{SKU: "c", Amount: dec("33.34"), Currency: "EUR", Line: 4},
		{SKU: "d", Amount: dec("10"), Currency: "GBP", Line: 5}, // unmatched group
	}
	totals := map[string]model.GroupTotals{
		"EUR": {Currency: "EUR", Adjustment: dec("1.00"), Withholding: dec("-0.10")},
	}

	results := Allocate(txns, totals, table, "USD")
	errs := Verify(results, totals, table, "USD")
	assert.Empty(t, errs)

	netSum := decimal.Zero
	for _, r := range results {
		netSum = netSum.Add(r.NetRevenue)
	}
	// 100.00 gross + 1.00 adjustment - 0.10 tax + 10 unmatched gross.
	assert.True(t, netSum.Equal(dec("110.90")), "got %s", netSum)
}
