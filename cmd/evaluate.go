package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zpam/spamnb/pkg/config"
	"github.com/zpam/spamnb/pkg/evaluate"
	"github.com/zpam/spamnb/pkg/metrics"
	"github.com/zpam/spamnb/pkg/profiler"
)

var (
	evalTrainNum int
	evalTestNum  int
	evalSeed     int64
	evalProfile  bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a model on sampled emails",
	Long: `Load or train the model for --train-num emails, classify --test-num emails
sampled with replacement from the emails that follow the training range and
append accuracy, precision and recall to the metrics store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if evalTrainNum > 0 {
			cfg.Evaluation.TrainNum = evalTrainNum
		}
		if evalTestNum > 0 {
			cfg.Evaluation.TestNum = evalTestNum
		}
		if cmd.Flags().Changed("seed") {
			cfg.Evaluation.Seed = evalSeed
		}

		ctx, cancel := interruptContext()
		defer cancel()

		return invoke(cfg, func(cfg *config.Config, e *evaluate.Evaluator, store metrics.Store, prof *profiler.Profiler, logger *zap.Logger) error {
			defer logger.Sync()
			defer store.Close()

			res, err := e.Run(ctx, cfg.Evaluation.TrainNum, cfg.Evaluation.TestNum)
			if errors.Is(err, evaluate.ErrZeroDenominator) {
				fmt.Printf("⚠️  The sample cannot be scored: %v\n", err)
				fmt.Printf("🔄 Run again for a new sample, or raise --test-num\n")
				return err
			}
			if err != nil {
				return fmt.Errorf("evaluation failed: %w", err)
			}

			printResult(cfg, res)

			if evalProfile {
				fmt.Println()
				prof.Report(os.Stdout)
			}
			return nil
		})
	},
}

func printResult(cfg *config.Config, res *evaluate.Result) {
	c := res.Confusion
	fmt.Printf("📊 spamnb Evaluation\n")
	fmt.Printf("═══════════════════════════════════════\n")
	fmt.Printf("Training emails: %d\n", cfg.Evaluation.TrainNum)
	fmt.Printf("Test emails:     %d\n", cfg.Evaluation.TestNum)
	fmt.Printf("\n")
	fmt.Printf("TP: %d  FP: %d\n", c.TP, c.FP)
	fmt.Printf("FN: %d  TN: %d\n", c.FN, c.TN)
	fmt.Printf("\n")
	fmt.Printf("🎯 Accuracy:  %.2f%%\n", res.Accuracy*100)
	fmt.Printf("🎯 Precision: %.2f%%\n", res.Precision*100)
	fmt.Printf("🎯 Recall:    %.2f%%\n", res.Recall*100)
	fmt.Printf("💾 Run %s stored (%s backend)\n", res.Record.RunID, cfg.Metrics.Backend)
}

func init() {
	evaluateCmd.Flags().IntVarP(&evalTrainNum, "train-num", "n", 0, "Number of training emails (overrides config)")
	evaluateCmd.Flags().IntVarP(&evalTestNum, "test-num", "t", 0, "Number of test emails to sample (overrides config)")
	evaluateCmd.Flags().Int64Var(&evalSeed, "seed", 0, "Sampling seed, 0 seeds from the clock (overrides config)")
	evaluateCmd.Flags().BoolVar(&evalProfile, "profile", false, "Print stage timings")
}
