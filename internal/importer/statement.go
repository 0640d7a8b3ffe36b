package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/model"
)

// Statement table column names, as issued by the platform.
const (
	colGroupKey    = "国家或地区 (货币)"
	colGross       = "总欠款"
	colRevenue     = "收入.1"
	colRevenueBase = "收入"
	colAdjustment  = "调整"
	colWithholding = "预扣税"
)

// stmtHeaderScan is how many leading rows are searched for the header.
// Platform statements carry up to five banner rows before it.
const stmtHeaderScan = 6

// ReadStatement parses a platform statement CSV or XLSX file into raw
// statement rows. The composite country/currency key is kept verbatim;
// grouping and key validation happen in the statement aggregator.
func ReadStatement(path string) ([]model.StatementRow, []Warning, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, nil, err
	}

	headerIdx, cols, ok := findStatementHeader(rows)
	if !ok {
		return nil, nil, fmt.Errorf("statement %s: no header with a %q column in the first %d rows", path, colGroupKey, stmtHeaderScan)
	}

	keyCol := statementKeyColumn(rows[headerIdx], cols)
	revenueCol, err := statementRevenueColumn(rows[headerIdx], cols)
	if err != nil {
		return nil, nil, fmt.Errorf("statement %s: %w", path, err)
	}
	grossCol, ok := cols[colGross]
	if !ok {
		return nil, nil, fmt.Errorf("statement %s: missing required column %q", path, colGross)
	}
	adjCol := optionalColumn(cols, colAdjustment)
	taxCol := optionalColumn(cols, colWithholding)

	var (
		stmtRows []model.StatementRow
		warnings []Warning
	)
	for i, row := range rows[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		line := headerIdx + i + 2

		sr := model.StatementRow{
			GroupKey: cell(row, keyCol),
			Line:     line,
		}
		sr.Gross = numericCell(row, grossCol, line, colGross, &warnings)
		sr.Revenue = numericCell(row, revenueCol, line, colRevenue, &warnings)
		sr.Adjustment = numericCell(row, adjCol, line, colAdjustment, &warnings)
		sr.Withholding = numericCell(row, taxCol, line, colWithholding, &warnings)

		stmtRows = append(stmtRows, sr)
	}
	return stmtRows, warnings, nil
}

// findStatementHeader locates the header row by its currency column:
// exact composite key first, then any column mentioning 货币.
func findStatementHeader(rows [][]string) (int, map[string]int, bool) {
	if i, cols, ok := findHeader(rows, []string{colGroupKey}, stmtHeaderScan); ok {
		return i, cols, true
	}
	for i := 0; i < len(rows) && i < stmtHeaderScan; i++ {
		for _, name := range rows[i] {
			if strings.Contains(name, "货币") {
				return i, indexColumns(rows[i]), true
			}
		}
	}
	return 0, nil, false
}

func statementKeyColumn(header []string, cols map[string]int) int {
	if i, ok := cols[colGroupKey]; ok {
		return i
	}
	for i, name := range header {
		if strings.Contains(name, "货币") {
			return i
		}
	}
	return -1
}

// statementRevenueColumn resolves the revenue figure: 收入.1 when
// present, otherwise the first other 收入-prefixed column, otherwise
// 收入 itself.
func statementRevenueColumn(header []string, cols map[string]int) (int, error) {
	if i, ok := cols[colRevenue]; ok {
		return i, nil
	}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name != colRevenueBase && strings.Contains(name, colRevenueBase) {
			return i, nil
		}
	}
	if i, ok := cols[colRevenueBase]; ok {
		return i, nil
	}
	return 0, fmt.Errorf("missing %q column and no %q fallback", colRevenue, colRevenueBase)
}

func optionalColumn(cols map[string]int, name string) int {
	if i, ok := cols[name]; ok {
		return i
	}
	return -1
}

// numericCell parses a statement figure; absent columns and blank cells
// are zero, garbage is zero with a warning.
func numericCell(row []string, col, line int, name string, warnings *[]Warning) decimal.Decimal {
	if col < 0 || cell(row, col) == "" {
		return decimal.Zero
	}
	d, err := parseAmount(cell(row, col))
	if err != nil {
		*warnings = append(*warnings, Warning{
			Line:    line,
			Message: fmt.Sprintf("unparseable %s: %v", name, err),
		})
		return decimal.Zero
	}
	return d
}
