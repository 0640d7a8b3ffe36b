package report

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// RunLog summarizes one reconciliation run for the run_log.txt output.
type RunLog struct {
	RunID     string
	Completed time.Time

	StatementRevenueTotal decimal.Decimal // sum of statement revenue figures
	AllocationTotal       decimal.Decimal // allocated adjustment + tax, target currency
	GrossTotal            decimal.Decimal // transaction gross before allocation
	NetTotal              decimal.Decimal // transaction net after allocation

	Warnings []string // skipped/flagged input rows
	Checks   []string // reconciliation invariant violations, empty when clean
}

// WriteRunLog writes the human-readable run log.
func WriteRunLog(w io.Writer, log RunLog) error {
	fmt.Fprintln(w, "=== SETTLED RECONCILIATION LOG ===")
	fmt.Fprintf(w, "run_id: %s\n", log.RunID)
	fmt.Fprintf(w, "completed: %s\n", log.Completed.Format(time.RFC3339))
	fmt.Fprintf(w, "statement revenue total: %s\n", log.StatementRevenueTotal.StringFixed(2))
	fmt.Fprintf(w, "allocated adjustment+tax total: %s\n", log.AllocationTotal.StringFixed(2))
	fmt.Fprintf(w, "transaction gross total: %s\n", log.GrossTotal.StringFixed(2))
	fmt.Fprintf(w, "transaction net total: %s\n", log.NetTotal.StringFixed(2))

	fmt.Fprintf(w, "warnings: %d\n", len(log.Warnings))
	for _, warning := range log.Warnings {
		fmt.Fprintf(w, "  - %s\n", warning)
	}

	if len(log.Checks) == 0 {
		_, err := fmt.Fprintln(w, "reconciliation checks: ok")
		return err
	}
	fmt.Fprintf(w, "reconciliation checks: %d violations\n", len(log.Checks))
	for _, check := range log.Checks {
		fmt.Fprintf(w, "  - %s\n", check)
	}
	return nil
}
