package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/settled-dev/settled/internal/config"
)

func newInitCommand() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default settled.yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := config.Default()
			cfg.TargetCurrency = target

			path := filepath.Join(dir, "settled.yaml")
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target-currency", "USD", "currency all amounts are converted to")

	return cmd
}
