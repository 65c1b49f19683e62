// Package cli provides the command-line interface for LeapQA.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapqa/internal/cli/commands"
	"github.com/leapstack-labs/leapqa/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

var cfgFile string

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leapqa",
		Short: "LeapQA - Dataset Quality Assurance Engine",
		Long: `LeapQA validates tabular datasets against a schema and a set of
declarative rules, producing a structured, severity-ranked report.

Schemas and rules are YAML descriptions; datasets come from CSV, JSON,
or DuckDB tables.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: leapqa.yaml in CWD)")
	flags.String("threshold", config.DefaultThreshold, "severity at or above which validation fails (info|warning|error|critical)")
	flags.Int("sample-size", config.DefaultSampleSize, "violations sampled per rule in the report")
	flags.Bool("strict", false, "reject dataset columns and rule targets unknown to the schema")
	flags.Int("concurrency", 0, "rules evaluated in parallel (0 = sequential)")
	flags.Bool("verbose", false, "enable debug logging")
	flags.String("output", config.DefaultOutput, "report format: text or json")

	rootCmd.AddCommand(commands.NewValidateCommand(&cfgFile))
	rootCmd.AddCommand(commands.NewGenerateCommand(&cfgFile))
	rootCmd.AddCommand(commands.NewRulesCommand())

	return rootCmd
}
