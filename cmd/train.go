package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zpam/spamnb/pkg/config"
	"github.com/zpam/spamnb/pkg/evaluate"
	"github.com/zpam/spamnb/pkg/metrics"
	"github.com/zpam/spamnb/pkg/profiler"
)

var (
	trainNum     int
	trainProfile bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train and persist a model",
	Long: `Train the Naive Bayes model on the first --train-num emails of the corpus index
and persist it under the model directory.

If a model for the same training size already exists it is loaded instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if trainNum > 0 {
			cfg.Evaluation.TrainNum = trainNum
		}

		ctx, cancel := interruptContext()
		defer cancel()

		return invoke(cfg, func(cfg *config.Config, e *evaluate.Evaluator, store metrics.Store, prof *profiler.Profiler, logger *zap.Logger) error {
			defer logger.Sync()
			defer store.Close()

			fmt.Printf("🧠 spamnb Training\n")
			fmt.Printf("═══════════════════════════════════════\n")
			fmt.Printf("📁 Corpus index: %s\n", cfg.Corpus.Index)
			fmt.Printf("📊 Training emails: %d\n", cfg.Evaluation.TrainNum)
			fmt.Printf("💾 Model directory: %s\n\n", cfg.Model.Dir)

			start := time.Now()
			if err := e.LoadOrTrain(ctx, cfg.Evaluation.TrainNum); err != nil {
				return fmt.Errorf("failed to train model: %w", err)
			}

			fmt.Printf("🎉 Model ready in %v\n\n", time.Since(start))
			e.Model().PrintStats(os.Stdout)

			if trainProfile {
				fmt.Println()
				prof.Report(os.Stdout)
			}
			return nil
		})
	},
}

func init() {
	trainCmd.Flags().IntVarP(&trainNum, "train-num", "n", 0, "Number of training emails (overrides config)")
	trainCmd.Flags().BoolVar(&trainProfile, "profile", false, "Print stage timings")
}
