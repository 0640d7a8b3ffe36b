package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/settled-dev/settled/internal/config"
	"github.com/settled-dev/settled/internal/pipeline"
)

func newRunCommand() *cobra.Command {
	var (
		txPath      string
		stmtPath    string
		mappingPath string
		cfgPath     string
		outDir      string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a reconciliation over a sales detail, statement, and mapping file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if cfgPath != "" {
				loaded, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			if outDir == "" {
				outDir = cfg.Output.Dir
			}

			res, err := pipeline.Run(pipeline.Options{
				TransactionsPath: txPath,
				StatementPath:    stmtPath,
				MappingPath:      mappingPath,
				Config:           cfg,
			})
			if err != nil {
				return err
			}

			if err := pipeline.WriteOutputs(outDir, res); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "reconciled %d transactions across %d currency groups\n", len(res.Allocated), len(res.Totals))
			fmt.Fprintf(out, "net total: %s\n", res.NetTotal.StringFixed(2))
			if len(res.Warnings) > 0 {
				fmt.Fprintf(out, "warnings: %d (see %s)\n", len(res.Warnings), pipeline.RunLogFile)
			}
			if len(res.Checks) > 0 {
				fmt.Fprintf(out, "reconciliation check violations: %d (see %s)\n", len(res.Checks), pipeline.RunLogFile)
			}
			fmt.Fprintf(out, "output written to %s\n", outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&txPath, "tx", "", "transaction detail CSV/XLSX (required)")
	_ = cmd.MarkFlagRequired("tx")
	cmd.Flags().StringVar(&stmtPath, "statement", "", "platform statement CSV/XLSX (required)")
	_ = cmd.MarkFlagRequired("statement")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "project-SKU mapping CSV/XLSX (required)")
	_ = cmd.MarkFlagRequired("mapping")
	cmd.Flags().StringVar(&cfgPath, "config", "", "settled.yaml path (defaults apply when omitted)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default from config)")

	return cmd
}
