package project

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/model"
)

// Mapping is the project/SKU cross-reference, indexed both ways. It is
// built once per run; lookups never re-scan the source rows.
type Mapping struct {
	skusByProject map[string][]string
	projectsBySKU map[string][]string
	projectOrder  []string
}

// NewMapping builds a Mapping from raw mapping-table rows. SKU cells
// are split on line breaks and trimmed; empty codes are dropped. One
// project may list many SKUs and one SKU may appear under several
// projects.
func NewMapping(rows []model.MappingRow) *Mapping {
	m := &Mapping{
		skusByProject: make(map[string][]string),
		projectsBySKU: make(map[string][]string),
	}

	for _, row := range rows {
		name := strings.TrimSpace(row.Project)
		if name == "" {
			continue
		}
		if _, seen := m.skusByProject[name]; !seen {
			m.projectOrder = append(m.projectOrder, name)
			m.skusByProject[name] = nil
		}
		for _, sku := range strings.Split(row.SKUCell, "\n") {
			sku = strings.TrimSpace(sku)
			if sku == "" {
				continue
			}
			if !contains(m.skusByProject[name], sku) {
				m.skusByProject[name] = append(m.skusByProject[name], sku)
			}
			if !contains(m.projectsBySKU[sku], name) {
				m.projectsBySKU[sku] = append(m.projectsBySKU[sku], name)
			}
		}
	}
	return m
}

// Projects returns all projects whose SKU set contains sku, in mapping
// order. Nil means the SKU is unmapped.
func (m *Mapping) Projects(sku string) []string {
	return m.projectsBySKU[sku]
}

// SKUs returns the SKU set of a project, in mapping order.
func (m *Mapping) SKUs(project string) []string {
	return m.skusByProject[project]
}

// ProjectNames returns all project names in mapping order.
func (m *Mapping) ProjectNames() []string {
	return m.projectOrder
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Summary aggregates net revenue per project. A SKU mapped to several
// projects contributes its full net revenue to each of them, so
// ProjectTotal may legitimately exceed GrandTotal. Unmapped SKUs are
// bucketed per raw SKU value, never merged.
type Summary struct {
	Projects     map[string]decimal.Decimal
	Unmapped     map[string]decimal.Decimal
	GrandTotal   decimal.Decimal // net revenue summed over transactions
	ProjectTotal decimal.Decimal // net revenue summed over project and unmapped buckets
}

// Summarize rolls allocated transactions up by project. Transactions
// excluded from totals (conversion failures) are skipped; they remain
// visible in the per-transaction output.
func Summarize(results []model.AllocatedTransaction, m *Mapping) *Summary {
	s := &Summary{
		Projects: make(map[string]decimal.Decimal),
		Unmapped: make(map[string]decimal.Decimal),
	}

	for _, r := range results {
		if r.Excluded() {
			continue
		}
		s.GrandTotal = s.GrandTotal.Add(r.NetRevenue)

		projects := m.Projects(r.SKU)
		if len(projects) == 0 {
			s.Unmapped[r.SKU] = s.Unmapped[r.SKU].Add(r.NetRevenue)
			s.ProjectTotal = s.ProjectTotal.Add(r.NetRevenue)
			continue
		}
		for _, p := range projects {
			s.Projects[p] = s.Projects[p].Add(r.NetRevenue)
			s.ProjectTotal = s.ProjectTotal.Add(r.NetRevenue)
		}
	}
	return s
}
