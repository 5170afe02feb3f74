package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zpam/spamnb/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long:  `Generate and manage spamnb configuration files`,
}

var configGenCmd = &cobra.Command{
	Use:   "generate [config-file]",
	Short: "Generate default configuration file",
	Long:  `Generate a default configuration file with all options`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := "config.yaml"
		if len(args) > 0 {
			configPath = args[0]
		}

		// Check if file already exists
		if _, err := os.Stat(configPath); err == nil {
			overwrite, _ := cmd.Flags().GetBool("force")
			if !overwrite {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", configPath)
			}
		}

		if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
			return fmt.Errorf("failed to save config: %v", err)
		}

		fmt.Printf("✅ Configuration file generated: %s\n", configPath)
		fmt.Printf("📝 Edit the file to point at your corpus and stopword list\n")
		fmt.Printf("🚀 Use 'spamnb evaluate --config %s' to use the configuration\n", configPath)

		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate a configuration file for syntax and logical errors`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := args[0]

		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("❌ Configuration validation failed: %v", err)
		}

		warnings := validateConfigLogic(cfg)

		fmt.Printf("✅ Configuration is valid: %s\n", configPath)

		if len(warnings) > 0 {
			fmt.Printf("\n⚠️  Warnings:\n")
			for _, warning := range warnings {
				fmt.Printf("  - %s\n", warning)
			}
		}

		fmt.Printf("\n📊 Configuration Summary:\n")
		fmt.Printf("  Corpus index: %s\n", cfg.Corpus.Index)
		fmt.Printf("  Train/test: %d/%d\n", cfg.Evaluation.TrainNum, cfg.Evaluation.TestNum)
		fmt.Printf("  Vector mode: %s\n", cfg.Model.VectorMode)
		fmt.Printf("  Metrics backend: %s\n", cfg.Metrics.Backend)

		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [config-file]",
	Short: "Show current configuration",
	Long:  `Display the current configuration with all values`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.Config
		var err error

		if len(args) > 0 {
			cfg, err = config.LoadConfig(args[0])
			if err != nil {
				return fmt.Errorf("failed to load config: %v", err)
			}
			fmt.Printf("Configuration: %s\n\n", args[0])
		} else {
			cfg = config.DefaultConfig()
			fmt.Printf("Default Configuration:\n\n")
		}

		fmt.Printf("📁 Corpus:\n")
		fmt.Printf("  Root: %s\n", cfg.Corpus.Root)
		fmt.Printf("  Index: %s (prefix %q)\n", cfg.Corpus.Index, cfg.Corpus.PathPrefix)
		fmt.Printf("  Encoding: %s\n", cfg.Corpus.Encoding)

		fmt.Printf("\n✂️  Tokenizer:\n")
		fmt.Printf("  Stopwords: %s\n", cfg.Tokenizer.Stopwords)
		fmt.Printf("  Min token length: %d\n", cfg.Tokenizer.MinTokenRunes)
		dict := cfg.Tokenizer.DictPath
		if dict == "" {
			dict = "embedded"
		}
		fmt.Printf("  Dictionary: %s (HMM %v)\n", dict, cfg.Tokenizer.HMM)

		fmt.Printf("\n🧠 Model:\n")
		fmt.Printf("  Directory: %s\n", cfg.Model.Dir)
		fmt.Printf("  Vector mode: %s\n", cfg.Model.VectorMode)

		fmt.Printf("\n🎯 Evaluation:\n")
		fmt.Printf("  Train/test: %d/%d\n", cfg.Evaluation.TrainNum, cfg.Evaluation.TestNum)
		fmt.Printf("  Sample window: %d\n", cfg.Evaluation.SampleWindow)
		fmt.Printf("  Seed: %d\n", cfg.Evaluation.Seed)

		fmt.Printf("\n💾 Metrics:\n")
		fmt.Printf("  Backend: %s\n", cfg.Metrics.Backend)
		switch cfg.Metrics.Backend {
		case "json":
			fmt.Printf("  Path: %s\n", cfg.Metrics.Path)
		case "redis":
			fmt.Printf("  URL: %s (prefix %s)\n", cfg.Metrics.Redis.URL, cfg.Metrics.Redis.KeyPrefix)
		case "sql":
			fmt.Printf("  Driver: %s\n", cfg.Metrics.SQL.Driver)
		}
		fmt.Printf("  Report: %s\n", cfg.Report.Output)

		return nil
	},
}

// validateConfigLogic performs additional logical validation
func validateConfigLogic(cfg *config.Config) []string {
	var warnings []string

	if _, err := os.Stat(cfg.Corpus.Root); err != nil {
		warnings = append(warnings, fmt.Sprintf("Corpus root %s is not accessible", cfg.Corpus.Root))
	}

	if _, err := os.Stat(cfg.Tokenizer.Stopwords); err != nil {
		warnings = append(warnings, fmt.Sprintf("Stopword file %s is not accessible", cfg.Tokenizer.Stopwords))
	}

	if cfg.Evaluation.TestNum > cfg.Evaluation.SampleWindow {
		warnings = append(warnings, "test_num exceeds sample_window - every test email will repeat")
	}

	if cfg.Tokenizer.MinTokenRunes > 4 {
		warnings = append(warnings, "High min_token_runes drops most Chinese words")
	}

	if cfg.Metrics.Backend == "json" {
		warnings = append(warnings, "The json metrics backend is not safe for concurrent evaluations")
	}

	return warnings
}

func init() {
	configCmd.AddCommand(configGenCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)

	configGenCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
