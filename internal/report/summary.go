package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/settled-dev/settled/internal/project"
)

// TotalKey labels the grand-total rows of the summary table.
const TotalKey = "__TOTAL__"

// summaryHeader is the CSV header for project_summary.csv.
var summaryHeader = []string{"bucket", "kind", "net_revenue"}

// WriteSummary writes the per-project summary table: project buckets in
// name order, then unmapped SKU buckets, then the two grand-total rows.
// The by-project total may exceed the transaction total when a SKU
// belongs to several projects.
func WriteSummary(w io.Writer, s *project.Summary) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(summaryHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, name := range sortedKeys(s.Projects) {
		if err := cw.Write([]string{name, "project", s.Projects[name].StringFixed(2)}); err != nil {
			return fmt.Errorf("writing project %s: %w", name, err)
		}
	}
	for _, sku := range sortedKeys(s.Unmapped) {
		if err := cw.Write([]string{sku, "unmapped_sku", s.Unmapped[sku].StringFixed(2)}); err != nil {
			return fmt.Errorf("writing unmapped SKU %s: %w", sku, err)
		}
	}

	if err := cw.Write([]string{TotalKey, "projects", s.ProjectTotal.StringFixed(2)}); err != nil {
		return fmt.Errorf("writing project total: %w", err)
	}
	if err := cw.Write([]string{TotalKey, "transactions", s.GrandTotal.StringFixed(2)}); err != nil {
		return fmt.Errorf("writing transaction total: %w", err)
	}
	return cw.Error()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
