package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/dig"

	"github.com/zpam/spamnb/pkg/config"
	"github.com/zpam/spamnb/pkg/di"
)

var (
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "spamnb",
	Short: "spamnb - Naive Bayes spam classifier for the TREC06C corpus",
	Long: `spamnb trains a multinomial Naive Bayes classifier on the Chinese TREC06C
email corpus, evaluates it on randomly sampled held-out emails and keeps
accuracy, precision and recall for every run.

Trained models are persisted per training size and reused by later runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("spamnb - Naive Bayes spam classifier")
		fmt.Println("Use 'spamnb --help' for usage information")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose (debug) logging")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(generateCmd)
}

// loadConfig reads the --config file and applies global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %v", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// invoke builds the container for cfg and calls fn with its dependencies
func invoke(cfg *config.Config, fn interface{}) error {
	container, err := di.BuildContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to build container: %v", err)
	}
	return dig.RootCause(container.Invoke(fn))
}

// interruptContext is canceled on SIGINT or SIGTERM
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
