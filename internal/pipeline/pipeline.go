package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/allocate"
	"github.com/settled-dev/settled/internal/config"
	"github.com/settled-dev/settled/internal/fx"
	"github.com/settled-dev/settled/internal/importer"
	"github.com/settled-dev/settled/internal/model"
	"github.com/settled-dev/settled/internal/project"
	"github.com/settled-dev/settled/internal/report"
	"github.com/settled-dev/settled/internal/statement"
)

// Output file names.
const (
	TransactionsFile = "transactions_net.csv"
	SummaryFile      = "project_summary.csv"
	RunLogFile       = "run_log.txt"
)

// Options configures a reconciliation run.
type Options struct {
	TransactionsPath string
	StatementPath    string
	MappingPath      string
	Config           *config.Config
}

// Result holds everything a run produced. The pipeline is synchronous
// batch processing: each stage consumes the complete output of the
// prior stage, and allocated transactions keep input order.
type Result struct {
	RunID     string
	Completed time.Time

	Header    []string
	Allocated []model.AllocatedTransaction
	Totals    map[string]model.GroupTotals
	Summary   *project.Summary

	Warnings []string
	Checks   []allocate.CheckError

	StatementRevenueTotal decimal.Decimal
	AllocationTotal       decimal.Decimal
	GrossTotal            decimal.Decimal
	NetTotal              decimal.Decimal
}

// Run executes the full reconciliation: statement aggregation, rate
// resolution, conversion, allocation, net revenue, and the project
// rollup. Row-level problems degrade to warnings and flags; only
// unusable inputs fail the run.
func Run(opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	target := cfg.TargetCurrency
	if target == "" {
		target = "USD"
	}

	res := &Result{RunID: uuid.NewString()}

	stmtRows, stmtWarnings, err := importer.ReadStatement(opts.StatementPath)
	if err != nil {
		return nil, err
	}
	for _, w := range stmtWarnings {
		res.Warnings = append(res.Warnings, "statement "+w.String())
	}

	totals, malformed := statement.Aggregate(stmtRows)
	for _, m := range malformed {
		res.Warnings = append(res.Warnings, m.Error())
	}
	res.Totals = totals

	table, err := resolveRates(cfg, totals, target, res)
	if err != nil {
		return nil, err
	}

	txFile, err := importer.ReadTransactions(opts.TransactionsPath)
	if err != nil {
		return nil, err
	}
	for _, w := range txFile.Warnings {
		res.Warnings = append(res.Warnings, "transactions "+w.String())
	}
	res.Header = txFile.Header

	mappingRows, err := importer.ReadMapping(opts.MappingPath)
	if err != nil {
		return nil, err
	}
	mapping := project.NewMapping(mappingRows)

	res.Allocated = allocate.Allocate(txFile.Transactions, totals, table, target)
	for _, c := range allocate.Verify(res.Allocated, totals, table, target) {
		res.Checks = append(res.Checks, c)
	}

	res.Summary = project.Summarize(res.Allocated, mapping)

	for _, gt := range totals {
		res.StatementRevenueTotal = res.StatementRevenueTotal.Add(gt.Revenue)
	}
	for _, r := range res.Allocated {
		if r.Excluded() {
			continue
		}
		res.GrossTotal = res.GrossTotal.Add(r.USDAmount)
		res.AllocationTotal = res.AllocationTotal.Add(r.Adjustment).Add(r.Tax)
	}
	res.NetTotal = res.Summary.GrandTotal
	res.Completed = time.Now().UTC()

	return res, nil
}

// resolveRates builds the exchange-rate table for a run. Derived rates
// come from the statement itself; explicit config rates override them.
func resolveRates(cfg *config.Config, totals map[string]model.GroupTotals, target string, res *Result) (*fx.Table, error) {
	explicit, err := cfg.RateTable()
	if err != nil {
		return nil, err
	}
	if !cfg.DeriveRates {
		return explicit, nil
	}

	derived, err := fx.Derive(totals, target)
	if err != nil {
		if len(cfg.Rates) == 0 {
			return nil, err
		}
		res.Warnings = append(res.Warnings, fmt.Sprintf("rate derivation failed, using configured rates only: %v", err))
		return explicit, nil
	}

	table := fx.NewTable()
	table.Merge(derived)
	table.Merge(explicit)
	return table, nil
}

// WriteOutputs writes the three result files into dir.
func WriteOutputs(dir string, res *Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	if err := writeFile(filepath.Join(dir, TransactionsFile), func(f *os.File) error {
		return report.WriteTransactions(f, res.Header, res.Allocated)
	}); err != nil {
		return err
	}

	if err := writeFile(filepath.Join(dir, SummaryFile), func(f *os.File) error {
		return report.WriteSummary(f, res.Summary)
	}); err != nil {
		return err
	}

	checks := make([]string, len(res.Checks))
	for i, c := range res.Checks {
		checks[i] = c.Error()
	}
	return writeFile(filepath.Join(dir, RunLogFile), func(f *os.File) error {
		return report.WriteRunLog(f, report.RunLog{
			RunID:                 res.RunID,
			Completed:             res.Completed,
			StatementRevenueTotal: res.StatementRevenueTotal,
			AllocationTotal:       res.AllocationTotal,
			GrossTotal:            res.GrossTotal,
			NetTotal:              res.NetTotal,
			Warnings:              res.Warnings,
			Checks:                checks,
		})
	})
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
