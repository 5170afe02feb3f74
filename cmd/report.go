package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zpam/spamnb/pkg/config"
	"github.com/zpam/spamnb/pkg/metrics"
	"github.com/zpam/spamnb/pkg/report"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize stored evaluation results",
	Long: `Average the stored evaluation results per training size, print them and
write a workbook with the averages and an accuracy/precision/recall chart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if reportOutput != "" {
			cfg.Report.Output = reportOutput
		}

		return invoke(cfg, func(cfg *config.Config, store metrics.Store) error {
			defer store.Close()

			ctx, cancel := interruptContext()
			defer cancel()

			rows, err := report.Load(ctx, store)
			if err != nil {
				return err
			}

			report.PrintTable(os.Stdout, rows)

			if err := report.WriteWorkbook(cfg.Report.Output, rows); err != nil {
				return err
			}
			fmt.Printf("\n💾 Workbook saved to: %s\n", cfg.Report.Output)
			return nil
		})
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Workbook path (overrides config)")
}
