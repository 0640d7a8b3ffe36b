package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/settled-dev/settled/internal/model"
)

// extraColumns are appended to the original transaction columns.
var extraColumns = []string{
	"usd_amount",
	"allocated_adjustment",
	"allocated_tax",
	"net_revenue",
	"unmatched_group",
	"error",
}

// WriteTransactions writes the per-transaction result table: every
// original column echoed, followed by the allocation columns. Rows
// excluded from totals keep their money columns blank and carry the
// reason in the error column.
func WriteTransactions(w io.Writer, header []string, results []model.AllocatedTransaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	out := make([]string, 0, len(header)+len(extraColumns))
	out = append(out, header...)
	out = append(out, extraColumns...)
	if err := cw.Write(out); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range results {
		if err := cw.Write(marshalResult(header, r)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func marshalResult(header []string, r model.AllocatedTransaction) []string {
	row := make([]string, len(header)+len(extraColumns))
	copy(row[:len(header)], r.Raw)

	base := len(header)
	if r.ConvErr == "" {
		row[base] = r.USDAmount.StringFixed(2)
		row[base+1] = r.Adjustment.StringFixed(2)
		row[base+2] = r.Tax.StringFixed(2)
		row[base+3] = r.NetRevenue.StringFixed(2)
	}
	if r.UnmatchedGroup {
		row[base+4] = "true"
	}
	row[base+5] = r.ConvErr
	return row
}
