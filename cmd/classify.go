package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zpam/spamnb/pkg/config"
	"github.com/zpam/spamnb/pkg/email"
	"github.com/zpam/spamnb/pkg/learning"
	"github.com/zpam/spamnb/pkg/modelstore"
	"github.com/zpam/spamnb/pkg/tokenizer"
)

var classifyTrainNum int

var classifyCmd = &cobra.Command{
	Use:   "classify [email-file]",
	Short: "Classify a single email",
	Long:  `Classify a raw email file with the persisted model for --train-num`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		emailPath := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if classifyTrainNum > 0 {
			cfg.Evaluation.TrainNum = classifyTrainNum
		}

		return invoke(cfg, func(cfg *config.Config, models *modelstore.Store, parser *email.Parser, tok *tokenizer.Tokenizer) error {
			rec, err := models.Load(cfg.Evaluation.TrainNum)
			if errors.Is(err, modelstore.ErrNotFound) {
				return fmt.Errorf("no model for %d training emails, run 'spamnb train --train-num %d' first",
					cfg.Evaluation.TrainNum, cfg.Evaluation.TrainNum)
			}
			if err != nil {
				return err
			}
			model, err := rec.Model()
			if err != nil {
				return err
			}

			start := time.Now()
			msg, err := parser.ParseFromFile(emailPath)
			if err != nil {
				return err
			}
			tokens := tok.TokenizeEmail(msg)
			ham, spam, err := model.Scores(model.Vocabulary.Vectorize(rec.VectorMode, tokens))
			if err != nil {
				return err
			}
			duration := time.Since(start)

			label := learning.Ham
			if spam > ham {
				label = learning.Spam
			}

			fmt.Printf("spamnb Classification:\n")
			fmt.Printf("File: %s\n", emailPath)
			fmt.Printf("Tokens: %d\n", len(tokens))
			fmt.Printf("Log score ham: %.4f  spam: %.4f\n", ham, spam)
			fmt.Printf("Spam probability: %.4f\n", learning.SpamProbability(ham, spam))
			fmt.Printf("Classification: %s\n", label)
			fmt.Printf("Processing time: %.2fms\n", float64(duration.Nanoseconds())/1e6)

			return nil
		})
	},
}

func init() {
	classifyCmd.Flags().IntVarP(&classifyTrainNum, "train-num", "n", 0, "Training size of the model to use (overrides config)")
}
